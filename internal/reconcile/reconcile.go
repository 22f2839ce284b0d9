// Package reconcile compares a bank-reported balance against the balance
// derived from an account's opening balance and its transactions, and
// synthesizes a corrective transaction for any discrepancy.
package reconcile

import (
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is the bank account being reconciled.
type Account struct {
	ID                 uuid.UUID
	Name               string
	OpeningBalance     decimal.Decimal
	OpeningBalanceDate time.Time
}

// Transaction is the subset of a bank transaction reconciliation needs.
type Transaction struct {
	ID         uuid.UUID
	FitID      string
	Amount     decimal.Decimal
	DatePosted time.Time
}

// Adjustment is a synthetic bank transaction that absorbs a discrepancy.
type Adjustment struct {
	ID         uuid.UUID
	FitID      string
	Amount     decimal.Decimal
	DatePosted time.Time
	Name       string
	Category   types.Category
}

// Record is the immutable audit record of one reconciliation run.
type Record struct {
	ID                      uuid.UUID
	AccountID               uuid.UUID
	ReconciledDate          time.Time
	ExpectedBalance         decimal.Decimal
	ActualBalance           decimal.Decimal
	AdjustmentAmount        decimal.Decimal
	Notes                   string
	AdjustmentTransactionID *uuid.UUID
}

// Result is the outcome of a reconciliation run. Adjustment is nil when the
// balances agree, when the caller did not request a correction, or when the
// adjustment for this date already exists among the transactions.
type Result struct {
	ExpectedBalance decimal.Decimal
	ActualBalance   decimal.Decimal
	Discrepancy     decimal.Decimal
	Adjustment      *Adjustment
	Record          Record
}

// AdjustmentFitID returns the deterministic FITID for the adjustment
// transaction of an account and date. Re-running reconciliation for the
// same date produces the same FITID, so the account-level FITID uniqueness
// invariant prevents duplicate adjustments.
func AdjustmentFitID(accountID uuid.UUID, asOf time.Time) string {
	return fmt.Sprintf("ADJ-%s-%s", accountID, asOf.Format("20060102"))
}

// ExpectedBalance computes the balance the ledger expects as of a date:
// the opening balance plus all transactions dated after the opening balance
// date up to and including asOf.
//
// Transactions dated exactly on the opening balance date are excluded, they
// are presumed to be reflected in the opening figure already. Note the
// asymmetry: the opening edge is exclusive while the asOf edge is
// inclusive.
func ExpectedBalance(account Account, transactions []Transaction, asOf time.Time) decimal.Decimal {
	balance := account.OpeningBalance

	for _, t := range transactions {
		if !t.DatePosted.After(account.OpeningBalanceDate) {
			continue
		}
		if t.DatePosted.After(asOf) {
			continue
		}

		balance = balance.Add(t.Amount)
	}

	return balance
}

// Reconcile computes the discrepancy between the reported actual balance
// and the expected balance as of the given date. When createAdjustment is
// set and the discrepancy is not zero, a corrective transaction dated asOf
// is synthesized. A Record is produced in every case, zero-adjustment runs
// are recorded for audit history as well.
func Reconcile(account Account, transactions []Transaction, asOf time.Time, actualBalance decimal.Decimal, createAdjustment bool) Result {
	expected := ExpectedBalance(account, transactions, asOf)
	discrepancy := actualBalance.Sub(expected)

	result := Result{
		ExpectedBalance: expected,
		ActualBalance:   actualBalance,
		Discrepancy:     discrepancy,
		Record: Record{
			ID:               uuid.New(),
			AccountID:        account.ID,
			ReconciledDate:   asOf,
			ExpectedBalance:  expected,
			ActualBalance:    actualBalance,
			AdjustmentAmount: discrepancy,
			Notes: fmt.Sprintf("Reconciled %s as of %s: expected %s, reported %s",
				account.Name, asOf.Format("2006-01-02"), expected.StringFixed(2), actualBalance.StringFixed(2)),
		},
	}

	if discrepancy.IsZero() || !createAdjustment {
		return result
	}

	fitID := AdjustmentFitID(account.ID, asOf)
	for _, t := range transactions {
		// The adjustment for this date exists already, creating another one
		// would double-correct.
		if t.FitID == fitID {
			return result
		}
	}

	adjustment := &Adjustment{
		ID:         uuid.New(),
		FitID:      fitID,
		Amount:     discrepancy,
		DatePosted: asOf,
		Name:       fmt.Sprintf("Balance adjustment %s", asOf.Format("2006-01-02")),
		Category:   types.CategoryAdjustment,
	}

	result.Adjustment = adjustment
	result.Record.AdjustmentTransactionID = &adjustment.ID

	return result
}
