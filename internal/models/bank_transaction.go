package models

import (
	"strings"
	"time"

	"github.com/finbooks/backend/internal/ledger"
	"github.com/finbooks/backend/internal/reconcile"
	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankTransaction is one imported (or synthesized) statement transaction.
// The FITID is the bank-assigned identifier, unique per bank account, and
// serves as the dedup key for re-imports.
type BankTransaction struct {
	DefaultModel
	BankAccountID     uuid.UUID        `json:"bankAccountId" gorm:"uniqueIndex:bank_transaction_account_fitid"`
	BankAccount       BankAccount      `json:"-"`
	FitID             string           `json:"fitId" gorm:"uniqueIndex:bank_transaction_account_fitid" example:"TXN-2024-001"`
	Amount            decimal.Decimal  `json:"amount" gorm:"type:DECIMAL(20,8)" example:"-50.00"` // Signed amount
	DatePosted        time.Time        `json:"datePosted"`
	Name              string           `json:"name" example:"Office supplies"`
	Memo              string           `json:"memo,omitempty"`
	CheckNum          string           `json:"checkNum,omitempty"`
	RefNum            string           `json:"refNum,omitempty"`
	Category          types.Category   `json:"category" example:"expense"`
	ChartAccountID    *uuid.UUID       `json:"chartAccountId"`
	ChartAccount      *ChartAccount    `json:"-"`
	RevenueSourceID   *uuid.UUID       `json:"revenueSourceId"`
	RevenueSource     *RevenueSource   `json:"-"`
	FlowType          types.FlowType   `json:"flowType" example:"outflow"`
	Ignored           bool             `json:"ignored" example:"false"`
	Reconciled        bool             `json:"reconciled" example:"false"`
	StatementImportID *uuid.UUID       `json:"importId"`
	StatementImport   *StatementImport `json:"-"`
}

// BeforeSave normalizes the transaction: strings are trimmed, the date is
// stored in UTC and the flow type is derived from the amount's sign.
func (t *BankTransaction) BeforeSave(_ *gorm.DB) error {
	t.FitID = strings.TrimSpace(t.FitID)
	t.Name = strings.TrimSpace(t.Name)
	t.Memo = strings.TrimSpace(t.Memo)

	t.DatePosted = t.DatePosted.In(time.UTC)

	if t.Amount.IsNegative() {
		t.FlowType = types.FlowTypeOutflow
	} else {
		t.FlowType = types.FlowTypeInflow
	}

	if t.Category == "" {
		t.Category = types.CategoryUncategorized
	}

	return nil
}

// AfterFind updates the timestamp to use UTC as timezone, not +0000.
func (t *BankTransaction) AfterFind(_ *gorm.DB) error {
	t.DatePosted = t.DatePosted.In(time.UTC)
	return nil
}

// ForLedger converts the transaction for the ledger engine.
func (t BankTransaction) ForLedger() ledger.Transaction {
	return ledger.Transaction{
		ID:             t.ID,
		BankAccountID:  t.BankAccountID,
		FitID:          t.FitID,
		Amount:         t.Amount,
		DatePosted:     t.DatePosted,
		Name:           t.Name,
		Category:       t.Category,
		ChartAccountID: t.ChartAccountID,
	}
}

// ForReconciliation converts the transaction for the reconciliation
// engine.
func (t BankTransaction) ForReconciliation() reconcile.Transaction {
	return reconcile.Transaction{
		ID:         t.ID,
		FitID:      t.FitID,
		Amount:     t.Amount,
		DatePosted: t.DatePosted,
	}
}

// MonthlyRevenue aggregates revenue transactions into a monthly series for
// the forecaster. Transactions marked as ignored are excluded. The series
// is ordered by period.
func MonthlyRevenue(db *gorm.DB, revenueSourceID *uuid.UUID) ([]MonthlyTotal, error) {
	var totals []MonthlyTotal

	query := db.Model(&BankTransaction{}).
		Select("strftime('%Y-%m', date_posted) as period, SUM(amount) as total").
		Where("category = ?", types.CategoryRevenue).
		Where("ignored = false").
		Group("period").
		Order("period ASC")

	if revenueSourceID != nil {
		query = query.Where("revenue_source_id = ?", *revenueSourceID)
	}

	err := query.Scan(&totals).Error
	return totals, err
}

// MonthlyTotal is one period of an aggregated series.
type MonthlyTotal struct {
	Period string          `json:"period" example:"2024-01"`
	Total  decimal.Decimal `json:"total" example:"1250.00"`
}
