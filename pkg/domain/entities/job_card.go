package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// JobStatus represents the lifecycle of a slitting job card
type JobStatus int

const (
	JobPending JobStatus = iota
	JobInProgress
	JobCompleted
)

// String method for JobStatus enum
func (s JobStatus) String() string {
	switch s {
	case JobPending:
		return "Pending"
	case JobInProgress:
		return "InProgress"
	case JobCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

func (s JobStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *JobStatus) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "pending":
		*s = JobPending
	case "inprogress", "in_progress":
		*s = JobInProgress
	case "completed":
		*s = JobCompleted
	default:
		return fmt.Errorf("invalid job status: %s", text)
	}
	return nil
}

// Coil is one narrow output produced by slitting the source roll
type Coil struct {
	ID             string  `json:"id"`
	PlanID         string  `json:"planId,omitempty"`
	OutputWidthMm  float64 `json:"outputWidthMm"`
	PlannedRolls   int64   `json:"plannedRolls"`
	TargetWeightKg float64 `json:"targetWeightKg"`
}

// LedgerRow is one shop-floor weighing event recorded against a coil
type LedgerRow struct {
	ID            string          `json:"id"`
	CoilID        string          `json:"coilId"`
	SequenceNo    int             `json:"sequenceNo"`
	GrossWeightKg decimal.Decimal `json:"grossWeightKg"`
	CoreWeightKg  decimal.Decimal `json:"coreWeightKg"`
	NetWeightKg   decimal.Decimal `json:"netWeightKg"`
	LengthM       decimal.Decimal `json:"lengthM"`
	RecordedAt    time.Time       `json:"recordedAt"`
}

// NewLedgerRow creates a validated LedgerRow; net weight is gross minus core
func NewLedgerRow(id, coilID string, gross, core, length decimal.Decimal, recordedAt time.Time) (*LedgerRow, error) {
	if id == "" {
		return nil, fmt.Errorf("ledger row id cannot be empty")
	}
	if coilID == "" {
		return nil, fmt.Errorf("coil id cannot be empty")
	}
	if !gross.IsPositive() {
		return nil, fmt.Errorf("gross weight must be positive, got %s", gross)
	}
	if core.IsNegative() {
		return nil, fmt.Errorf("core weight cannot be negative, got %s", core)
	}
	if core.GreaterThan(gross) {
		return nil, fmt.Errorf("core weight %s cannot exceed gross weight %s", core, gross)
	}
	if length.IsNegative() {
		return nil, fmt.Errorf("length cannot be negative, got %s", length)
	}

	return &LedgerRow{
		ID:            id,
		CoilID:        coilID,
		GrossWeightKg: gross,
		CoreWeightKg:  core,
		NetWeightKg:   gross.Sub(core),
		LengthM:       length,
		RecordedAt:    recordedAt,
	}, nil
}

// JobCard is a slitting/master production specification. It owns its
// coils and ledger rows.
type JobCard struct {
	ID              string      `json:"id"`
	PlanIDs         []string    `json:"planIds"`
	SourceWidthMm   float64     `json:"sourceWidthMm"`
	RollLengthM     float64     `json:"rollLengthM"`
	Micron          float64     `json:"micron"`
	TargetWeightKg  float64     `json:"targetWeightKg"`
	MasterRollCount int64       `json:"masterRollCount"`
	Coils           []Coil      `json:"coils"`
	Status          JobStatus   `json:"status"`
	LedgerRows      []LedgerRow `json:"ledgerRows"`
	CreatedAt       time.Time   `json:"createdAt"`

	// LastSequenceNo is the highest sequence number ever assigned. It never
	// decreases, deletions included.
	LastSequenceNo int `json:"lastSequenceNo"`
}

// Coil returns the coil with the given id
func (j *JobCard) Coil(id string) (*Coil, bool) {
	for i := range j.Coils {
		if j.Coils[i].ID == id {
			return &j.Coils[i], true
		}
	}
	return nil, false
}

// NextSequenceNo is one past the highest number ever assigned on the job.
// Deleted numbers are never handed out again.
func (j *JobCard) NextSequenceNo() int {
	last := j.LastSequenceNo
	for _, row := range j.LedgerRows {
		if row.SequenceNo > last {
			last = row.SequenceNo
		}
	}
	return last + 1
}

// AddLedgerRow appends a row, assigning its sequence number. The first row
// moves the job from Pending to InProgress.
func (j *JobCard) AddLedgerRow(row LedgerRow) (LedgerRow, error) {
	if j.Status == JobCompleted {
		return LedgerRow{}, fmt.Errorf("job %s: %w", j.ID, ErrJobCompleted)
	}
	if _, ok := j.Coil(row.CoilID); !ok {
		return LedgerRow{}, fmt.Errorf("coil %s on job %s: %w", row.CoilID, j.ID, ErrCoilNotFound)
	}

	row.SequenceNo = j.NextSequenceNo()
	j.LastSequenceNo = row.SequenceNo
	j.LedgerRows = append(j.LedgerRows, row)
	if j.Status == JobPending {
		j.Status = JobInProgress
	}
	return row, nil
}

// DeleteLedgerRow removes one row by id
func (j *JobCard) DeleteLedgerRow(rowID string) error {
	if j.Status == JobCompleted {
		return fmt.Errorf("job %s: %w", j.ID, ErrJobCompleted)
	}
	for i, row := range j.LedgerRows {
		if row.ID == rowID {
			j.LedgerRows = append(j.LedgerRows[:i:i], j.LedgerRows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("row %s on job %s: %w", rowID, j.ID, ErrLedgerRowNotFound)
}

// Complete marks the job finished; the ledger becomes read-only
func (j *JobCard) Complete() error {
	if j.Status == JobCompleted {
		return fmt.Errorf("job %s already completed: %w", j.ID, ErrInvalidTransition)
	}
	j.Status = JobCompleted
	return nil
}

// Clone returns a deep copy so callers can compute against it freely
func (j JobCard) Clone() JobCard {
	out := j
	out.PlanIDs = append([]string(nil), j.PlanIDs...)
	out.Coils = append([]Coil(nil), j.Coils...)
	out.LedgerRows = append([]LedgerRow(nil), j.LedgerRows...)
	return out
}
