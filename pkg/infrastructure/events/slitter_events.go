package events

import (
	"github.com/vsinha/slitter/pkg/domain/entities"
)

const (
	PlanCreatedEvent   = "plan.created"
	PlanUpdatedEvent   = "plan.updated"
	PlanCompletedEvent = "plan.completed"

	JobCardCreatedEvent   = "jobcard.created"
	JobCardCompletedEvent = "jobcard.completed"

	LedgerRowRecordedEvent = "ledger.row.recorded"
	LedgerRowDeletedEvent  = "ledger.row.deleted"

	DispatchAggregatedEvent = "dispatch.aggregated"
	DispatchReconciledEvent = "dispatch.reconciled"
	DispatchCreatedEvent    = "dispatch.created"
)

type PlanChanged struct {
	Plan entities.Plan `json:"plan"`
}

type JobCardChanged struct {
	JobCardID string             `json:"jobCardId"`
	Status    entities.JobStatus `json:"status"`
	PlanIDs   []string           `json:"planIds"`
}

type LedgerRowChanged struct {
	JobCardID string             `json:"jobCardId"`
	Row       entities.LedgerRow `json:"row"`
}

type DispatchChanged struct {
	Entry  entities.DispatchEntry `json:"entry"`
	PlanID string                 `json:"planId,omitempty"`
}

func NewPlanEvent(eventType string, plan entities.Plan) Event {
	return NewEvent(eventType, plan.ID, PlanChanged{Plan: plan})
}

func NewJobCardEvent(eventType string, job entities.JobCard) Event {
	return NewEvent(eventType, job.ID, JobCardChanged{
		JobCardID: job.ID,
		Status:    job.Status,
		PlanIDs:   append([]string(nil), job.PlanIDs...),
	})
}

func NewLedgerRowEvent(eventType, jobCardID string, row entities.LedgerRow) Event {
	return NewEvent(eventType, jobCardID, LedgerRowChanged{JobCardID: jobCardID, Row: row})
}

func NewDispatchEvent(eventType string, entry entities.DispatchEntry, planID string) Event {
	return NewEvent(eventType, entry.ID, DispatchChanged{Entry: entry, PlanID: planID})
}
