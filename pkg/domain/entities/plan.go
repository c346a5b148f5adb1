package entities

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// ProcessKind identifies the conversion process an order goes through
type ProcessKind int

const (
	Plain ProcessKind = iota
	Printing
	SealedEdge
	RoundedEdge
	Tube
)

// String method for ProcessKind enum
func (k ProcessKind) String() string {
	switch k {
	case Plain:
		return "Plain"
	case Printing:
		return "Printing"
	case SealedEdge:
		return "SealedEdge"
	case RoundedEdge:
		return "RoundedEdge"
	case Tube:
		return "Tube"
	default:
		return "Unknown"
	}
}

// ParseProcessKind accepts the String form case-insensitively
func ParseProcessKind(s string) (ProcessKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain":
		return Plain, nil
	case "printing":
		return Printing, nil
	case "sealededge", "sealed_edge":
		return SealedEdge, nil
	case "roundededge", "rounded_edge":
		return RoundedEdge, nil
	case "tube":
		return Tube, nil
	default:
		return Plain, fmt.Errorf("invalid process kind: %s (expected: Plain, Printing, SealedEdge, RoundedEdge or Tube)", s)
	}
}

func (k ProcessKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *ProcessKind) UnmarshalText(text []byte) error {
	parsed, err := ParseProcessKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// IsTube reports whether the process belongs to the tube/plant formula family
func (k ProcessKind) IsTube() bool {
	return k == Tube
}

// Driver names the plan quantity that is operator-authoritative
type Driver int

const (
	DriverWeight Driver = iota
	DriverPieces
	DriverLength
)

// String method for Driver enum
func (d Driver) String() string {
	switch d {
	case DriverWeight:
		return "Weight"
	case DriverPieces:
		return "Pieces"
	case DriverLength:
		return "Length"
	default:
		return "Unknown"
	}
}

// ParseDriver accepts the String form case-insensitively
func ParseDriver(s string) (Driver, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "weight":
		return DriverWeight, nil
	case "pieces":
		return DriverPieces, nil
	case "length":
		return DriverLength, nil
	default:
		return DriverWeight, fmt.Errorf("invalid driver: %s (expected: Weight, Pieces or Length)", s)
	}
}

func (d Driver) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *Driver) UnmarshalText(text []byte) error {
	parsed, err := ParseDriver(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// PlanStatus tracks whether a plan has been consumed downstream
type PlanStatus int

const (
	PlanPending PlanStatus = iota
	PlanCompleted
)

// String method for PlanStatus enum
func (s PlanStatus) String() string {
	switch s {
	case PlanPending:
		return "Pending"
	case PlanCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

func (s PlanStatus) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *PlanStatus) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "pending":
		*s = PlanPending
	case "completed":
		*s = PlanCompleted
	default:
		return fmt.Errorf("invalid plan status: %s", text)
	}
	return nil
}

// Plan is a single production order awaiting conversion into a job card
// or dispatch entry. Only the field named by Driver is operator-writable;
// every other quantity is derived from it.
type Plan struct {
	ID              string      `json:"id"`
	Customer        string      `json:"customer,omitempty"`
	Micron          float64     `json:"micron"`
	SourceWidthMm   Measure     `json:"sourceWidthMm"`
	OutputWidthMm   float64     `json:"outputWidthMm"`
	TargetWeightKg  Measure     `json:"targetWeightKg"`
	TargetLengthM   Measure     `json:"targetLengthM"`
	TargetPieces    Count       `json:"targetPieces"`
	CuttingLengthMm Measure     `json:"cuttingLengthMm"`
	ProcessKind     ProcessKind `json:"processKind"`
	Driver          Driver      `json:"driver"`
	Status          PlanStatus  `json:"status"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// DriverAllowed reports whether d is a valid driver for the plan's process family
func (p *Plan) DriverAllowed(d Driver) bool {
	if p.ProcessKind.IsTube() {
		return d == DriverWeight || d == DriverLength
	}
	return d == DriverWeight || d == DriverPieces
}

// Validate checks structural fields; numeric completeness is the converter's concern
func (p *Plan) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("plan id cannot be empty")
	}
	if p.ProcessKind < Plain || p.ProcessKind > Tube {
		return fmt.Errorf("invalid process kind %d", p.ProcessKind)
	}
	if !p.DriverAllowed(p.Driver) {
		return fmt.Errorf("driver %s is not valid for process %s", p.Driver, p.ProcessKind)
	}
	if p.Micron < 0 || p.OutputWidthMm < 0 {
		return fmt.Errorf("micron and width cannot be negative")
	}
	return nil
}

// DriverValue returns the current driver's value
func (p *Plan) DriverValue() (float64, bool) {
	switch p.Driver {
	case DriverWeight:
		return p.TargetWeightKg.Value, p.TargetWeightKg.Valid
	case DriverPieces:
		return float64(p.TargetPieces.Value), p.TargetPieces.Valid
	case DriverLength:
		return p.TargetLengthM.Value, p.TargetLengthM.Valid
	}
	return 0, false
}

// Write sets the value of field d. Only the current driver is writable,
// and pieces must be a whole number.
func (p *Plan) Write(d Driver, v float64) error {
	if d != p.Driver {
		return fmt.Errorf("cannot write %s while driver is %s: %w", d, p.Driver, ErrNotDriver)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%s must be a finite number, got %v: %w", d, v, ErrInvalidQuantity)
	}
	if d == DriverPieces && v != math.Trunc(v) {
		return fmt.Errorf("pieces must be a whole number, got %v: %w", v, ErrInvalidQuantity)
	}
	switch d {
	case DriverWeight:
		p.TargetWeightKg = Known(v)
	case DriverPieces:
		p.TargetPieces = KnownCount(int64(v))
	case DriverLength:
		p.TargetLengthM = Known(v)
	}
	return nil
}

// SwitchDriver changes which field is authoritative. The new driver keeps
// its current value; callers re-derive the rest.
func (p *Plan) SwitchDriver(d Driver) error {
	if !p.DriverAllowed(d) {
		return fmt.Errorf("driver %s is not valid for process %s", d, p.ProcessKind)
	}
	p.Driver = d
	return nil
}

// Complete marks the plan as consumed into a job card or dispatch entry
func (p *Plan) Complete(at time.Time) {
	p.Status = PlanCompleted
	p.UpdatedAt = at
}

// Reopen returns a completed plan to pending for editing
func (p *Plan) Reopen(at time.Time) bool {
	if p.Status != PlanCompleted {
		return false
	}
	p.Status = PlanPending
	p.UpdatedAt = at
	return true
}
