package gormstore

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

type dispatchEntryModel struct {
	ID            string          `gorm:"primaryKey;size:64"`
	JobCardID     string          `gorm:"size:64;index"`
	Status        string          `gorm:"size:20;not null"`
	TotalWeightKg decimal.Decimal `gorm:"type:decimal(20,3);not null;default:0"`
	TotalPieces   int64           `gorm:"not null;default:0"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime:false"`
	LineItems     []lineItemModel `gorm:"foreignKey:DispatchEntryID;constraint:OnDelete:CASCADE"`
}

func (dispatchEntryModel) TableName() string { return "dispatch_entries" }

type lineItemModel struct {
	DispatchEntryID string              `gorm:"primaryKey;size:64"`
	ID              string              `gorm:"primaryKey;size:64"`
	Position        int                 `gorm:"not null"`
	PlanID          string              `gorm:"size:64;index"`
	CoilID          string              `gorm:"size:64"`
	Description     string              `gorm:"size:255;not null"`
	ProcessCode     string              `gorm:"size:8"`
	Micron          float64             `gorm:"not null;default:0"`
	WeightKg        decimal.Decimal     `gorm:"type:decimal(20,3);not null;default:0"`
	PieceCount      int64               `gorm:"not null;default:0"`
	BundleCount     int64               `gorm:"not null;default:0"`
	DerivedWeightKg decimal.NullDecimal `gorm:"type:decimal(20,3)"`
	WastageKg       decimal.NullDecimal `gorm:"type:decimal(20,3)"`
}

func (lineItemModel) TableName() string { return "dispatch_line_items" }

func toModel(entry *entities.DispatchEntry) dispatchEntryModel {
	model := dispatchEntryModel{
		ID:            entry.ID,
		JobCardID:     entry.JobCardID,
		Status:        entry.Status.String(),
		TotalWeightKg: entry.TotalWeightKg,
		TotalPieces:   entry.TotalPieces,
		UpdatedAt:     entry.UpdatedAt,
		LineItems:     make([]lineItemModel, 0, len(entry.LineItems)),
	}
	for i, item := range entry.LineItems {
		model.LineItems = append(model.LineItems, lineItemModel{
			DispatchEntryID: entry.ID,
			ID:              item.ID,
			Position:        i,
			PlanID:          item.PlanID,
			CoilID:          item.CoilID,
			Description:     item.Description,
			ProcessCode:     item.ProcessCode,
			Micron:          item.Micron,
			WeightKg:        item.WeightKg,
			PieceCount:      item.PieceCount,
			BundleCount:     item.BundleCount,
			DerivedWeightKg: item.DerivedWeightKg,
			WastageKg:       item.WastageKg,
		})
	}
	return model
}

// fromModel expects LineItems already ordered by position
func fromModel(model dispatchEntryModel) (*entities.DispatchEntry, error) {
	status, err := entities.ParseDispatchStatus(model.Status)
	if err != nil {
		return nil, err
	}

	entry := &entities.DispatchEntry{
		ID:            model.ID,
		JobCardID:     model.JobCardID,
		Status:        status,
		TotalWeightKg: model.TotalWeightKg,
		TotalPieces:   model.TotalPieces,
		UpdatedAt:     model.UpdatedAt,
		LineItems:     make([]entities.LineItem, 0, len(model.LineItems)),
	}
	for _, item := range model.LineItems {
		entry.LineItems = append(entry.LineItems, entities.LineItem{
			ID:              item.ID,
			PlanID:          item.PlanID,
			CoilID:          item.CoilID,
			Description:     item.Description,
			ProcessCode:     item.ProcessCode,
			Micron:          item.Micron,
			WeightKg:        item.WeightKg,
			PieceCount:      item.PieceCount,
			BundleCount:     item.BundleCount,
			DerivedWeightKg: item.DerivedWeightKg,
			WastageKg:       item.WastageKg,
		})
	}
	return entry, nil
}

type planModel struct {
	ID              string    `gorm:"primaryKey;size:64"`
	Customer        string    `gorm:"size:255"`
	Micron          float64   `gorm:"not null;default:0"`
	SourceWidthMm   *float64  `gorm:"default:null"`
	OutputWidthMm   float64   `gorm:"not null;default:0"`
	TargetWeightKg  *float64  `gorm:"default:null"`
	TargetLengthM   *float64  `gorm:"default:null"`
	TargetPieces    *int64    `gorm:"default:null"`
	CuttingLengthMm *float64  `gorm:"default:null"`
	ProcessKind     string    `gorm:"size:20;not null"`
	Driver          string    `gorm:"size:10;not null"`
	Status          string    `gorm:"size:20;not null;index"`
	CreatedAt       time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (planModel) TableName() string { return "plans" }

func measurePtr(m entities.Measure) *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

func measureFrom(v *float64) entities.Measure {
	if v == nil {
		return entities.Undefined
	}
	return entities.Known(*v)
}

func toPlanModel(plan *entities.Plan) planModel {
	model := planModel{
		ID:              plan.ID,
		Customer:        plan.Customer,
		Micron:          plan.Micron,
		SourceWidthMm:   measurePtr(plan.SourceWidthMm),
		OutputWidthMm:   plan.OutputWidthMm,
		TargetWeightKg:  measurePtr(plan.TargetWeightKg),
		TargetLengthM:   measurePtr(plan.TargetLengthM),
		CuttingLengthMm: measurePtr(plan.CuttingLengthMm),
		ProcessKind:     plan.ProcessKind.String(),
		Driver:          plan.Driver.String(),
		Status:          plan.Status.String(),
		CreatedAt:       plan.CreatedAt,
		UpdatedAt:       plan.UpdatedAt,
	}
	if plan.TargetPieces.Valid {
		pieces := plan.TargetPieces.Value
		model.TargetPieces = &pieces
	}
	return model
}

func fromPlanModel(model planModel) (*entities.Plan, error) {
	plan := &entities.Plan{
		ID:              model.ID,
		Customer:        model.Customer,
		Micron:          model.Micron,
		SourceWidthMm:   measureFrom(model.SourceWidthMm),
		OutputWidthMm:   model.OutputWidthMm,
		TargetWeightKg:  measureFrom(model.TargetWeightKg),
		TargetLengthM:   measureFrom(model.TargetLengthM),
		CuttingLengthMm: measureFrom(model.CuttingLengthMm),
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
	if model.TargetPieces != nil {
		plan.TargetPieces = entities.KnownCount(*model.TargetPieces)
	}
	if err := plan.ProcessKind.UnmarshalText([]byte(model.ProcessKind)); err != nil {
		return nil, err
	}
	if err := plan.Driver.UnmarshalText([]byte(model.Driver)); err != nil {
		return nil, err
	}
	if err := plan.Status.UnmarshalText([]byte(model.Status)); err != nil {
		return nil, err
	}
	return plan, nil
}

type jobCardModel struct {
	ID              string           `gorm:"primaryKey;size:64"`
	PlanIDs         []string         `gorm:"serializer:json;type:text"`
	SourceWidthMm   float64          `gorm:"not null"`
	RollLengthM     float64          `gorm:"not null"`
	Micron          float64          `gorm:"not null"`
	TargetWeightKg  float64          `gorm:"not null;default:0"`
	MasterRollCount int64            `gorm:"not null;default:0"`
	Status          string           `gorm:"size:20;not null"`
	LastSequenceNo  int              `gorm:"not null;default:0"`
	CreatedAt       time.Time        `gorm:"autoCreateTime:false"`
	Coils           []coilModel      `gorm:"foreignKey:JobCardID;constraint:OnDelete:CASCADE"`
	LedgerRows      []ledgerRowModel `gorm:"foreignKey:JobCardID;constraint:OnDelete:CASCADE"`
}

func (jobCardModel) TableName() string { return "job_cards" }

type coilModel struct {
	JobCardID      string  `gorm:"primaryKey;size:64"`
	ID             string  `gorm:"primaryKey;size:64"`
	Position       int     `gorm:"not null"`
	PlanID         string  `gorm:"size:64"`
	OutputWidthMm  float64 `gorm:"not null"`
	PlannedRolls   int64   `gorm:"not null;default:0"`
	TargetWeightKg float64 `gorm:"not null;default:0"`
}

func (coilModel) TableName() string { return "job_card_coils" }

type ledgerRowModel struct {
	JobCardID     string          `gorm:"primaryKey;size:64"`
	ID            string          `gorm:"primaryKey;size:64"`
	CoilID        string          `gorm:"size:64;not null"`
	SequenceNo    int             `gorm:"not null"`
	GrossWeightKg decimal.Decimal `gorm:"type:decimal(20,3);not null"`
	CoreWeightKg  decimal.Decimal `gorm:"type:decimal(20,3);not null"`
	NetWeightKg   decimal.Decimal `gorm:"type:decimal(20,3);not null"`
	LengthM       decimal.Decimal `gorm:"type:decimal(20,3);not null;default:0"`
	RecordedAt    time.Time
}

func (ledgerRowModel) TableName() string { return "job_card_ledger_rows" }

func toJobCardModel(job *entities.JobCard) jobCardModel {
	model := jobCardModel{
		ID:              job.ID,
		PlanIDs:         append([]string(nil), job.PlanIDs...),
		SourceWidthMm:   job.SourceWidthMm,
		RollLengthM:     job.RollLengthM,
		Micron:          job.Micron,
		TargetWeightKg:  job.TargetWeightKg,
		MasterRollCount: job.MasterRollCount,
		Status:          job.Status.String(),
		LastSequenceNo:  job.LastSequenceNo,
		CreatedAt:       job.CreatedAt,
		Coils:           make([]coilModel, 0, len(job.Coils)),
		LedgerRows:      make([]ledgerRowModel, 0, len(job.LedgerRows)),
	}
	for i, coil := range job.Coils {
		model.Coils = append(model.Coils, coilModel{
			JobCardID:      job.ID,
			ID:             coil.ID,
			Position:       i,
			PlanID:         coil.PlanID,
			OutputWidthMm:  coil.OutputWidthMm,
			PlannedRolls:   coil.PlannedRolls,
			TargetWeightKg: coil.TargetWeightKg,
		})
	}
	for _, row := range job.LedgerRows {
		model.LedgerRows = append(model.LedgerRows, ledgerRowModel{
			JobCardID:     job.ID,
			ID:            row.ID,
			CoilID:        row.CoilID,
			SequenceNo:    row.SequenceNo,
			GrossWeightKg: row.GrossWeightKg,
			CoreWeightKg:  row.CoreWeightKg,
			NetWeightKg:   row.NetWeightKg,
			LengthM:       row.LengthM,
			RecordedAt:    row.RecordedAt,
		})
	}
	return model
}

// fromJobCardModel expects coils ordered by position and rows by sequence
func fromJobCardModel(model jobCardModel) (*entities.JobCard, error) {
	job := &entities.JobCard{
		ID:              model.ID,
		PlanIDs:         append([]string(nil), model.PlanIDs...),
		SourceWidthMm:   model.SourceWidthMm,
		RollLengthM:     model.RollLengthM,
		Micron:          model.Micron,
		TargetWeightKg:  model.TargetWeightKg,
		MasterRollCount: model.MasterRollCount,
		LastSequenceNo:  model.LastSequenceNo,
		CreatedAt:       model.CreatedAt,
		Coils:           make([]entities.Coil, 0, len(model.Coils)),
		LedgerRows:      make([]entities.LedgerRow, 0, len(model.LedgerRows)),
	}
	if err := job.Status.UnmarshalText([]byte(model.Status)); err != nil {
		return nil, err
	}
	for _, coil := range model.Coils {
		job.Coils = append(job.Coils, entities.Coil{
			ID:             coil.ID,
			PlanID:         coil.PlanID,
			OutputWidthMm:  coil.OutputWidthMm,
			PlannedRolls:   coil.PlannedRolls,
			TargetWeightKg: coil.TargetWeightKg,
		})
	}
	for _, row := range model.LedgerRows {
		job.LedgerRows = append(job.LedgerRows, entities.LedgerRow{
			ID:            row.ID,
			CoilID:        row.CoilID,
			SequenceNo:    row.SequenceNo,
			GrossWeightKg: row.GrossWeightKg,
			CoreWeightKg:  row.CoreWeightKg,
			NetWeightKg:   row.NetWeightKg,
			LengthM:       row.LengthM,
			RecordedAt:    row.RecordedAt,
		})
	}
	return job, nil
}
