package models

import (
	"strings"
	"time"

	"github.com/finbooks/backend/internal/reconcile"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BankAccount represents a physical bank or credit account statements are
// imported for. The raw account number is never stored: AccountIDHash is a
// SHA256 hash used for dedup lookups during imports, AccountIDMasked is
// the display form revealing only the last four characters.
type BankAccount struct {
	DefaultModel
	Name               string          `json:"name" example:"Business Checking"`
	BankID             string          `json:"bankId" example:"021000021"` // Routing number of the bank
	AccountIDHash      string          `json:"-" gorm:"index"`             // SHA256 hash of the raw account number
	AccountIDMasked    string          `json:"accountIdMasked" example:"******7890"`
	AccountType        string          `json:"accountType" example:"CHECKING"` // OFX account type
	Currency           string          `json:"currency" example:"USD"`
	ChartAccountID     *uuid.UUID      `json:"chartAccountId"` // Chart account representing this bank account in the ledger
	ChartAccount       *ChartAccount   `json:"-"`
	OpeningBalance     decimal.Decimal `json:"openingBalance" gorm:"type:DECIMAL(20,8)" example:"1000.00"`
	OpeningBalanceDate *time.Time      `json:"openingBalanceDate"`
	Archived           bool            `json:"archived" example:"false"`
}

// Liability reports whether the account is a liability from the bank's
// point of view, i.e. a credit card or a credit line.
func (a BankAccount) Liability() bool {
	return a.AccountType == "CREDITCARD" || a.AccountType == "CREDITLINE"
}

// BeforeSave trims whitespace from all strings.
func (a *BankAccount) BeforeSave(_ *gorm.DB) error {
	a.Name = strings.TrimSpace(a.Name)
	a.BankID = strings.TrimSpace(a.BankID)
	a.AccountIDHash = strings.TrimSpace(a.AccountIDHash)

	return nil
}

// Transactions returns all transactions for this account, ordered by
// posting date.
func (a BankAccount) Transactions(db *gorm.DB) ([]BankTransaction, error) {
	var transactions []BankTransaction

	err := db.
		Where(&BankTransaction{BankAccountID: a.ID}).
		Order("date_posted ASC").
		Find(&transactions).Error

	return transactions, err
}

// ForReconciliation converts the account for the reconciliation engine.
func (a BankAccount) ForReconciliation() reconcile.Account {
	account := reconcile.Account{
		ID:             a.ID,
		Name:           a.Name,
		OpeningBalance: a.OpeningBalance,
	}

	if a.OpeningBalanceDate != nil {
		account.OpeningBalanceDate = *a.OpeningBalanceDate
	}

	return account
}
