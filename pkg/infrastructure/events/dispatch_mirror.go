package events

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// DispatchRow is one line item flattened with its entry for an external sink
type DispatchRow struct {
	EntryID         string  `json:"entryId"`
	JobCardID       string  `json:"jobCardId,omitempty"`
	Status          string  `json:"status"`
	LineItemID      string  `json:"lineItemId"`
	PlanID          string  `json:"planId,omitempty"`
	CoilID          string  `json:"coilId,omitempty"`
	Description     string  `json:"description"`
	ProcessCode     string  `json:"processCode"`
	Micron          float64 `json:"micron"`
	WeightKg        string  `json:"weightKg"`
	PieceCount      int64   `json:"pieceCount"`
	BundleCount     int64   `json:"bundleCount"`
	DerivedWeightKg string  `json:"derivedWeightKg"`
	WastageKg       string  `json:"wastageKg"`
}

// DispatchSink receives the full row set of one dispatch entry. Rows
// replace whatever the sink held for that entry.
type DispatchSink interface {
	PushDispatch(entryID string, rows []DispatchRow) error
}

// FlattenDispatch turns an entry into one row per line item. Undefined
// derived values become empty strings.
func FlattenDispatch(entry entities.DispatchEntry) []DispatchRow {
	rows := make([]DispatchRow, 0, len(entry.LineItems))
	for _, item := range entry.LineItems {
		row := DispatchRow{
			EntryID:     entry.ID,
			JobCardID:   entry.JobCardID,
			Status:      entry.Status.String(),
			LineItemID:  item.ID,
			PlanID:      item.PlanID,
			CoilID:      item.CoilID,
			Description: item.Description,
			ProcessCode: item.ProcessCode,
			Micron:      item.Micron,
			WeightKg:    item.WeightKg.String(),
			PieceCount:  item.PieceCount,
			BundleCount: item.BundleCount,
		}
		if item.DerivedWeightKg.Valid {
			row.DerivedWeightKg = item.DerivedWeightKg.Decimal.String()
		}
		if item.WastageKg.Valid {
			row.WastageKg = item.WastageKg.Decimal.String()
		}
		rows = append(rows, row)
	}
	return rows
}

// MirrorDispatch subscribes sink to every dispatch change in store. The
// returned func stops the mirror.
func MirrorDispatch(store EventStore, sink DispatchSink) func() {
	return store.Subscribe(func(event Event) error {
		changed, ok := event.Data.(DispatchChanged)
		if !ok {
			return fmt.Errorf("unexpected %s payload %T", event.Type, event.Data)
		}
		if err := sink.PushDispatch(changed.Entry.ID, FlattenDispatch(changed.Entry)); err != nil {
			return fmt.Errorf("mirror dispatch %s: %w", changed.Entry.ID, err)
		}
		return nil
	}, DispatchAggregatedEvent, DispatchReconciledEvent, DispatchCreatedEvent)
}

// LogSink writes mirrored rows to the log, one line per row
type LogSink struct {
	logger *logrus.Logger
}

// NewLogSink creates a sink on logger
func NewLogSink(logger *logrus.Logger) *LogSink {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) PushDispatch(entryID string, rows []DispatchRow) error {
	for _, row := range rows {
		s.logger.WithFields(logrus.Fields{
			"entry":     entryID,
			"status":    row.Status,
			"line_item": row.LineItemID,
			"weight_kg": row.WeightKg,
			"pieces":    row.PieceCount,
			"bundles":   row.BundleCount,
			"wastage":   row.WastageKg,
		}).Info("dispatch row mirrored")
	}
	return nil
}
