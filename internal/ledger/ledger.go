// Package ledger implements a double-entry ledger: a chart of accounts, a
// journal of balanced entries, and the report queries derived from them.
//
// The ledger is plain in-memory state. Loading it from and saving it to
// durable storage is the job of the caller, the ledger itself never touches
// a database.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrAccountNotFound      = errors.New("the chart account does not exist")
	ErrAccountExists        = errors.New("a chart account with this ID already exists")
	ErrAccountInactive      = errors.New("the chart account is deactivated")
	ErrParentNotFound       = errors.New("the parent account does not exist")
	ErrInvalidAccountType   = errors.New("the account type is not valid")
	ErrAccountReferenced    = errors.New("the chart account is referenced by journal entries and can only be deactivated")
	ErrNotPostable          = errors.New("transactions of this category are not posted to the ledger")
	ErrNoTargetAccount      = errors.New("the transaction has no resolved target account")
	ErrDuplicateTransaction = errors.New("a transaction with this FITID has already been posted for the account")
	ErrUnbalancedEntry      = errors.New("journal entry debits and credits are not equal")
)

// Account is an entry in the chart of accounts.
type Account struct {
	ID          uuid.UUID         `json:"id"`
	Code        string            `json:"code" example:"4000"`
	Name        string            `json:"name" example:"Sales"`
	Type        types.AccountType `json:"type" example:"REVENUE"`
	ParentID    *uuid.UUID        `json:"parentId"`
	Active      bool              `json:"active" example:"true"`
	Description string            `json:"description"`
}

// Line is one side of a journal entry. Amount is always positive, the
// direction is carried by Side.
type Line struct {
	AccountID uuid.UUID
	Amount    decimal.Decimal
	Side      types.Side
}

// Entry is a balanced journal entry. Entries are created by posting only
// and are never edited afterwards, except to flip Reconciled.
type Entry struct {
	ID                uuid.UUID
	Date              time.Time
	Description       string
	Lines             []Line
	BankTransactionID *uuid.UUID
	Reconciled        bool
}

// Balanced reports whether the sum of debit lines equals the sum of credit
// lines.
func (e Entry) Balanced() bool {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range e.Lines {
		if l.Side == types.SideDebit {
			debit = debit.Add(l.Amount)
		} else {
			credit = credit.Add(l.Amount)
		}
	}

	return debit.Equal(credit)
}

// FitIDRef locates a posted FITID for restoring the dedup index.
type FitIDRef struct {
	BankAccountID uuid.UUID
	FitID         string
}

// Transaction is a classified bank transaction ready for posting.
type Transaction struct {
	ID             uuid.UUID
	BankAccountID  uuid.UUID
	FitID          string
	Amount         decimal.Decimal
	DatePosted     time.Time
	Name           string
	Category       types.Category
	ChartAccountID *uuid.UUID
}

// Ledger owns the chart of accounts and the journal. Posting is the only
// mutating operation besides account management, all report methods are
// pure queries.
type Ledger struct {
	accounts map[uuid.UUID]Account
	order    []uuid.UUID
	entries  []Entry
	posted   map[uuid.UUID]map[string]bool
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{
		accounts: make(map[uuid.UUID]Account),
		posted:   make(map[uuid.UUID]map[string]bool),
	}
}

// AddAccount adds an account to the chart of accounts.
func (l *Ledger) AddAccount(a Account) error {
	if !a.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAccountType, a.Type)
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}

	if _, ok := l.accounts[a.ID]; ok {
		return ErrAccountExists
	}

	// The parent is only used for report grouping, it may have any type.
	if a.ParentID != nil {
		if _, ok := l.accounts[*a.ParentID]; !ok {
			return ErrParentNotFound
		}
	}

	l.accounts[a.ID] = a
	l.order = append(l.order, a.ID)
	return nil
}

// Account returns the account with the given ID.
func (l *Ledger) Account(id uuid.UUID) (Account, error) {
	a, ok := l.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return a, nil
}

// Accounts returns all accounts in the order they were added.
func (l *Ledger) Accounts() []Account {
	accounts := make([]Account, 0, len(l.order))
	for _, id := range l.order {
		accounts = append(accounts, l.accounts[id])
	}
	return accounts
}

// DeactivateAccount marks an account as inactive. Accounts are never hard
// deleted once transactions reference them, deactivation is the only way to
// retire them.
func (l *Ledger) DeactivateAccount(id uuid.UUID) error {
	a, ok := l.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}

	a.Active = false
	l.accounts[id] = a
	return nil
}

// LoadEntries seeds the journal with entries restored from storage, in the
// order given. Entries that reference a bank transaction also restore the
// FITID dedup index when the FITID is supplied in the fitIDs map, keyed by
// bank transaction ID.
func (l *Ledger) LoadEntries(entries []Entry, fitIDs map[uuid.UUID]FitIDRef) {
	for _, e := range entries {
		l.entries = append(l.entries, e)

		if e.BankTransactionID == nil {
			continue
		}
		if ref, ok := fitIDs[*e.BankTransactionID]; ok {
			if l.posted[ref.BankAccountID] == nil {
				l.posted[ref.BankAccountID] = make(map[string]bool)
			}
			l.posted[ref.BankAccountID][ref.FitID] = true
		}
	}
}

// Entries returns all journal entries in posting order.
func (l *Ledger) Entries() []Entry {
	return l.entries
}

// HasPosted reports whether a transaction with the FITID has been posted
// for the bank account.
func (l *Ledger) HasPosted(bankAccountID uuid.UUID, fitID string) bool {
	return l.posted[bankAccountID][fitID]
}

// MarkReconciled flips the Reconciled flag for the entry referencing the
// given bank transaction. This is the only permitted mutation of an entry
// after creation.
func (l *Ledger) MarkReconciled(bankTransactionID uuid.UUID) {
	for i := range l.entries {
		if l.entries[i].BankTransactionID != nil && *l.entries[i].BankTransactionID == bankTransactionID {
			l.entries[i].Reconciled = true
		}
	}
}
