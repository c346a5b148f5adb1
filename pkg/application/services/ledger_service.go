package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vsinha/slitter/pkg/application/dto"
	"github.com/vsinha/slitter/pkg/domain/entities"
	"github.com/vsinha/slitter/pkg/domain/repositories"
	domain "github.com/vsinha/slitter/pkg/domain/services"
	"github.com/vsinha/slitter/pkg/infrastructure/events"
)

// LedgerService records shop-floor weighings against a job card. Every
// change re-derives the job's dispatch entry from the full ledger.
type LedgerService struct {
	base
	jobs       repositories.JobCardRepository
	dispatch   repositories.DispatchRepository
	aggregator *domain.ProductionLedgerAggregator
}

// NewLedgerService creates a ledger service
func NewLedgerService(
	jobs repositories.JobCardRepository,
	dispatch repositories.DispatchRepository,
	store events.EventStore,
	logger *logrus.Logger,
) *LedgerService {
	return &LedgerService{
		base:       newBase(store, logger),
		jobs:       jobs,
		dispatch:   dispatch,
		aggregator: domain.NewProductionLedgerAggregator(),
	}
}

// GetJobCard returns one job card with its ledger
func (s *LedgerService) GetJobCard(ctx context.Context, id string) (*entities.JobCard, error) {
	return s.jobs.GetJobCard(ctx, id)
}

// RecordRow appends a weighing to the job's ledger
func (s *LedgerService) RecordRow(ctx context.Context, jobID string, input dto.LedgerRowInput) (*dto.LedgerResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	job, err := s.jobs.GetJobCard(ctx, jobID)
	if err != nil {
		return nil, err
	}

	row, err := entities.NewLedgerRow(
		"ROW-"+uuid.NewString(),
		input.CoilID,
		input.GrossWeightKg,
		input.CoreWeightKg,
		input.LengthM,
		s.now(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	recorded, err := job.AddLedgerRow(*row)
	if err != nil {
		return nil, err
	}

	result, err := s.save(ctx, job)
	if err != nil {
		return nil, err
	}
	result.Row = &recorded

	s.logger.WithFields(logrus.Fields{
		"job":      jobID,
		"coil":     recorded.CoilID,
		"sequence": recorded.SequenceNo,
		"net_kg":   recorded.NetWeightKg.String(),
	}).Info("ledger row recorded")
	s.publish(events.NewLedgerRowEvent(events.LedgerRowRecordedEvent, jobID, recorded))
	return result, nil
}

// DeleteRow removes one weighing from the job's ledger
func (s *LedgerService) DeleteRow(ctx context.Context, jobID, rowID string) (*dto.LedgerResult, error) {
	job, err := s.jobs.GetJobCard(ctx, jobID)
	if err != nil {
		return nil, err
	}

	var removed entities.LedgerRow
	for _, row := range job.LedgerRows {
		if row.ID == rowID {
			removed = row
			break
		}
	}
	if err := job.DeleteLedgerRow(rowID); err != nil {
		return nil, err
	}

	result, err := s.save(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"job": jobID,
		"row": rowID,
	}).Info("ledger row deleted")
	s.publish(events.NewLedgerRowEvent(events.LedgerRowDeletedEvent, jobID, removed))
	return result, nil
}

// CompleteJob closes the ledger and marks the dispatch entry ready
func (s *LedgerService) CompleteJob(ctx context.Context, jobID string) (*dto.LedgerResult, error) {
	job, err := s.jobs.GetJobCard(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := job.Complete(); err != nil {
		return nil, err
	}

	result, err := s.save(ctx, job)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"job":       jobID,
		"rows":      len(job.LedgerRows),
		"weight_kg": result.Dispatch.TotalWeightKg.String(),
	}).Info("job card completed")
	s.publish(events.NewJobCardEvent(events.JobCardCompletedEvent, *job))
	return result, nil
}

// Resync rebuilds a job's dispatch entry from its ledger as it stands
func (s *LedgerService) Resync(ctx context.Context, jobID string) (*entities.DispatchEntry, error) {
	job, err := s.jobs.GetJobCard(ctx, jobID)
	if err != nil {
		return nil, err
	}
	entry, err := s.aggregate(ctx, *job)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *LedgerService) save(ctx context.Context, job *entities.JobCard) (*dto.LedgerResult, error) {
	if err := s.jobs.SaveJobCard(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to save job card %s: %w", job.ID, err)
	}
	entry, err := s.aggregate(ctx, *job)
	if err != nil {
		return nil, err
	}
	return &dto.LedgerResult{JobCard: job.Clone(), Dispatch: entry}, nil
}

func (s *LedgerService) aggregate(ctx context.Context, job entities.JobCard) (entities.DispatchEntry, error) {
	entry := s.aggregator.Aggregate(job)
	entry.UpdatedAt = s.now()
	if err := s.dispatch.SaveDispatchEntry(ctx, &entry); err != nil {
		return entities.DispatchEntry{}, fmt.Errorf("failed to save dispatch entry %s: %w", entry.ID, err)
	}
	s.publish(events.NewDispatchEvent(events.DispatchAggregatedEvent, entry, ""))
	return entry, nil
}
