package models

import (
	"errors"

	"github.com/finbooks/backend/internal/ledger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LoadLedger rebuilds the in-memory ledger from the stored chart of
// accounts and journal.
func LoadLedger(db *gorm.DB) (*ledger.Ledger, error) {
	var accounts []ChartAccount
	if err := db.Order("code ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}

	book := ledger.New()

	// Parents have to be added before their children, the code order does
	// not guarantee that
	pending := accounts
	for len(pending) > 0 {
		var remaining []ChartAccount
		for _, a := range pending {
			err := book.AddAccount(a.ForLedger())
			if errors.Is(err, ledger.ErrParentNotFound) {
				remaining = append(remaining, a)
				continue
			}
			if err != nil {
				return nil, err
			}
		}

		if len(remaining) == len(pending) {
			return nil, ledger.ErrParentNotFound
		}
		pending = remaining
	}

	var entries []JournalEntry
	err := db.Preload("Lines").Order("date ASC, created_at ASC").Find(&entries).Error
	if err != nil {
		return nil, err
	}

	var transactions []BankTransaction
	if err := db.Find(&transactions).Error; err != nil {
		return nil, err
	}

	fitIDs := make(map[uuid.UUID]ledger.FitIDRef, len(transactions))
	for _, t := range transactions {
		fitIDs[t.ID] = ledger.FitIDRef{BankAccountID: t.BankAccountID, FitID: t.FitID}
	}

	converted := make([]ledger.Entry, 0, len(entries))
	for _, e := range entries {
		converted = append(converted, e.ForLedger())
	}
	book.LoadEntries(converted, fitIDs)

	return book, nil
}
