package models

import (
	"strings"
	"time"

	"github.com/finbooks/backend/internal/reconcile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reconciliation is the audit record of one reconciliation run. Records are
// append-only, they can never be changed after creation.
type Reconciliation struct {
	DefaultModel
	BankAccountID           uuid.UUID        `json:"bankAccountId"`
	BankAccount             BankAccount      `json:"-"`
	ReconciledDate          time.Time        `json:"reconciledDate"` // The as-of date of the run
	ExpectedBalance         decimal.Decimal  `json:"expectedBalance" gorm:"type:DECIMAL(20,8)" example:"1150.00"`
	ActualBalance           decimal.Decimal  `json:"actualBalance" gorm:"type:DECIMAL(20,8)" example:"1150.00"`
	AdjustmentAmount        decimal.Decimal  `json:"adjustmentAmount" gorm:"type:DECIMAL(20,8)" example:"0"`
	Notes                   string           `json:"notes,omitempty"`
	AdjustmentTransactionID *uuid.UUID       `json:"adjustmentTransactionId"` // Set when a correcting transaction was created
	AdjustmentTransaction   *BankTransaction `json:"-"`
}

// BeforeSave normalizes the record.
func (r *Reconciliation) BeforeSave(_ *gorm.DB) error {
	r.Notes = strings.TrimSpace(r.Notes)
	r.ReconciledDate = r.ReconciledDate.In(time.UTC)

	return nil
}

// BeforeUpdate blocks all modifications, reconciliation records are an
// append-only audit trail.
func (r *Reconciliation) BeforeUpdate(_ *gorm.DB) error {
	return ErrReconciliationImmutable
}

// AfterFind updates the timestamp to use UTC as timezone, not +0000.
func (r *Reconciliation) AfterFind(_ *gorm.DB) error {
	r.ReconciledDate = r.ReconciledDate.In(time.UTC)
	return nil
}

// RecordFromEngine converts a reconciliation engine record into its
// persisted form.
func RecordFromEngine(r reconcile.Record) Reconciliation {
	return Reconciliation{
		DefaultModel:            DefaultModel{ID: r.ID},
		BankAccountID:           r.AccountID,
		ReconciledDate:          r.ReconciledDate,
		ExpectedBalance:         r.ExpectedBalance,
		ActualBalance:           r.ActualBalance,
		AdjustmentAmount:        r.AdjustmentAmount,
		Notes:                   r.Notes,
		AdjustmentTransactionID: r.AdjustmentTransactionID,
	}
}
