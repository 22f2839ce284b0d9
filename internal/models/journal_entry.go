package models

import (
	"strings"
	"time"

	"github.com/finbooks/backend/internal/ledger"
	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// JournalEntry is one balanced double-entry booking. Entries are created by
// the posting engine or by a reconciliation adjustment and are immutable
// afterwards, with the Reconciled flag as the single exception.
type JournalEntry struct {
	DefaultModel
	Date              time.Time        `json:"date"`
	Description       string           `json:"description" example:"Office supplies"`
	BankTransactionID *uuid.UUID       `json:"bankTransactionId"` // Set when the entry originates from an imported transaction
	BankTransaction   *BankTransaction `json:"-"`
	Reconciled        bool             `json:"reconciled" example:"false"`
	Lines             []JournalLine    `json:"lines"`
}

// JournalLine is one side of a journal entry. The amount is always
// positive, the direction is carried by Side.
type JournalLine struct {
	DefaultModel
	JournalEntryID uuid.UUID       `json:"journalEntryId"`
	ChartAccountID uuid.UUID       `json:"chartAccountId"`
	ChartAccount   *ChartAccount   `json:"-"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"50.00"`
	Side           types.Side      `json:"side" example:"DEBIT"`
}

// BeforeSave normalizes the entry.
func (e *JournalEntry) BeforeSave(_ *gorm.DB) error {
	e.Description = strings.TrimSpace(e.Description)
	e.Date = e.Date.In(time.UTC)

	return nil
}

// BeforeCreate verifies the double-entry invariants: at least two lines,
// and debits equal to credits.
func (e *JournalEntry) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	if len(e.Lines) < 2 {
		return ErrJournalEntryTooFewLines
	}

	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		if l.Side == types.SideDebit {
			debit = debit.Add(l.Amount)
		} else {
			credit = credit.Add(l.Amount)
		}
	}

	if !debit.Equal(credit) {
		return ErrJournalEntryUnbalanced
	}

	return nil
}

// BeforeUpdate blocks all modifications except flipping the Reconciled
// flag.
func (e *JournalEntry) BeforeUpdate(tx *gorm.DB) error {
	if tx.Statement.Changed("Date", "Description", "BankTransactionID") {
		return ErrJournalEntryImmutable
	}

	return nil
}

// AfterFind updates the timestamp to use UTC as timezone, not +0000.
func (e *JournalEntry) AfterFind(_ *gorm.DB) error {
	e.Date = e.Date.In(time.UTC)
	return nil
}

// ForLedger converts the entry for the ledger engine.
func (e JournalEntry) ForLedger() ledger.Entry {
	lines := make([]ledger.Line, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, ledger.Line{
			AccountID: l.ChartAccountID,
			Amount:    l.Amount,
			Side:      l.Side,
		})
	}

	return ledger.Entry{
		ID:                e.ID,
		Date:              e.Date,
		Description:       e.Description,
		Lines:             lines,
		BankTransactionID: e.BankTransactionID,
		Reconciled:        e.Reconciled,
	}
}

// EntryFromLedger converts a posted ledger entry into its persisted form.
func EntryFromLedger(e ledger.Entry) JournalEntry {
	lines := make([]JournalLine, 0, len(e.Lines))
	for _, l := range e.Lines {
		lines = append(lines, JournalLine{
			ChartAccountID: l.AccountID,
			Amount:         l.Amount,
			Side:           l.Side,
		})
	}

	return JournalEntry{
		DefaultModel:      DefaultModel{ID: e.ID},
		Date:              e.Date,
		Description:       e.Description,
		BankTransactionID: e.BankTransactionID,
		Reconciled:        e.Reconciled,
		Lines:             lines,
	}
}
