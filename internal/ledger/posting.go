package ledger

import (
	"errors"
	"fmt"

	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
)

// Problem reports a transaction that could not be posted during a batch.
type Problem struct {
	FitID string
	Err   error
}

// BatchResult is the outcome of posting a batch of transactions.
type BatchResult struct {
	Entries  []Entry
	Problems []Problem
}

// Post constructs and records a balanced two-line journal entry for a
// classified bank transaction. bankChartID is the chart account that
// represents the bank or credit account itself.
//
// The sign convention depends on the type of the bank chart account:
//
//	asset, amount >= 0: debit bank, credit target (money in)
//	asset, amount < 0:  debit target, credit bank (money out)
//	liability, amount > 0:  debit target, credit bank (a charge)
//	liability, amount <= 0: debit bank, credit target (a payment)
//
// Both lines carry the absolute amount.
func (l *Ledger) Post(t Transaction, bankChartID uuid.UUID) (Entry, error) {
	entry, err := l.prepare(t, bankChartID)
	if err != nil {
		return Entry{}, err
	}

	l.record(t, entry)
	return entry, nil
}

// PostBatch posts a batch of transactions atomically: either every postable
// transaction in the batch is recorded, or none are. Per-transaction
// failures are collected in the result, only the balancing invariant
// violation aborts the batch.
func (l *Ledger) PostBatch(transactions []Transaction, bankChartID uuid.UUID) (BatchResult, error) {
	var result BatchResult

	// Stage all entries before recording anything so that a fatal error
	// leaves the ledger untouched.
	staged := make([]Transaction, 0, len(transactions))
	stagedFitIDs := make(map[uuid.UUID]map[string]bool)

	for _, t := range transactions {
		// Duplicates within the batch count as duplicates, too
		if stagedFitIDs[t.BankAccountID][t.FitID] {
			result.Problems = append(result.Problems, Problem{FitID: t.FitID, Err: ErrDuplicateTransaction})
			continue
		}

		entry, err := l.prepare(t, bankChartID)
		if err != nil {
			// A transaction that would produce an unbalanced entry means the
			// posting logic itself is defective. Nothing is recorded.
			if isFatal(err) {
				return BatchResult{}, err
			}

			result.Problems = append(result.Problems, Problem{FitID: t.FitID, Err: err})
			continue
		}

		staged = append(staged, t)
		if stagedFitIDs[t.BankAccountID] == nil {
			stagedFitIDs[t.BankAccountID] = make(map[string]bool)
		}
		stagedFitIDs[t.BankAccountID][t.FitID] = true
		result.Entries = append(result.Entries, entry)
	}

	for i, t := range staged {
		l.record(t, result.Entries[i])
	}

	return result, nil
}

// prepare validates a transaction and builds its journal entry without
// mutating the ledger.
func (l *Ledger) prepare(t Transaction, bankChartID uuid.UUID) (Entry, error) {
	if !t.Category.Postable() {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotPostable, t.Category)
	}

	if t.ChartAccountID == nil {
		return Entry{}, ErrNoTargetAccount
	}

	if l.HasPosted(t.BankAccountID, t.FitID) {
		return Entry{}, fmt.Errorf("%w: %s", ErrDuplicateTransaction, t.FitID)
	}

	bank, ok := l.accounts[bankChartID]
	if !ok {
		return Entry{}, fmt.Errorf("bank account: %w", ErrAccountNotFound)
	}

	target, ok := l.accounts[*t.ChartAccountID]
	if !ok {
		return Entry{}, fmt.Errorf("target account: %w", ErrAccountNotFound)
	}

	amount := t.Amount.Abs()

	var debitID, creditID uuid.UUID
	switch bank.Type {
	case types.AccountTypeLiability:
		if t.Amount.IsPositive() {
			// A charge increases the liability
			debitID, creditID = target.ID, bank.ID
		} else {
			// A payment decreases it
			debitID, creditID = bank.ID, target.ID
		}
	default:
		if t.Amount.IsNegative() {
			// Money out decreases the asset
			debitID, creditID = target.ID, bank.ID
		} else {
			// Money in increases it
			debitID, creditID = bank.ID, target.ID
		}
	}

	txnID := t.ID
	entry := Entry{
		ID:          uuid.New(),
		Date:        t.DatePosted,
		Description: t.Name,
		Lines: []Line{
			{AccountID: debitID, Amount: amount, Side: types.SideDebit},
			{AccountID: creditID, Amount: amount, Side: types.SideCredit},
		},
		BankTransactionID: &txnID,
	}

	// This must never fail. If it does, the construction above is broken.
	if !entry.Balanced() {
		return Entry{}, ErrUnbalancedEntry
	}

	return entry, nil
}

// record commits a prepared entry to the journal.
func (l *Ledger) record(t Transaction, entry Entry) {
	if l.posted[t.BankAccountID] == nil {
		l.posted[t.BankAccountID] = make(map[string]bool)
	}
	l.posted[t.BankAccountID][t.FitID] = true
	l.entries = append(l.entries, entry)
}

// isFatal reports whether an error must abort a whole batch.
func isFatal(err error) bool {
	return errors.Is(err, ErrUnbalancedEntry)
}
