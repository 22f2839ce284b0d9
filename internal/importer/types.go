// Package importer orchestrates statement imports: it resolves the parsed
// statement against existing resources, previews the outcome, and commits
// all created resources in one database transaction.
package importer

import (
	"github.com/finbooks/backend/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionPreview is used to preview transactions that will be imported
// to allow for editing.
type TransactionPreview struct {
	Transaction             models.BankTransaction `json:"transaction"`
	DuplicateTransactionIDs []uuid.UUID            `json:"duplicateTransactionIds"`                                    // IDs of transactions that this transaction duplicates
	MatchRuleID             *uuid.UUID             `json:"matchRuleId" example:"042d101d-f1de-4403-9295-59dc0ea58677"` // ID of the mapping rule that was applied to this transaction preview
	SubcategoryName         string                 `json:"subcategoryName,omitempty" example:"Office"`
}

// AccountPreview is the bank account a statement will be imported into.
type AccountPreview struct {
	Account models.BankAccount `json:"account"`
	Exists  bool               `json:"exists" example:"true"` // False when the import will create the account
}

// StatementPreview is the dry-run result of an import.
type StatementPreview struct {
	Account       AccountPreview       `json:"account"`
	Transactions  []TransactionPreview `json:"transactions"`
	LedgerBalance *decimal.Decimal     `json:"ledgerBalance,omitempty" example:"1150.00"` // Bank-reported balance, when the statement carries one
	Matched       int                  `json:"matched" example:"40"`
	Unmatched     int                  `json:"unmatched" example:"2"`
	Duplicates    int                  `json:"duplicates" example:"3"`
	Warnings      []string             `json:"warnings"`
}

// Result is the outcome of a committed import.
type Result struct {
	Import       models.StatementImport   `json:"import"`
	Transactions []models.BankTransaction `json:"transactions"`
	Posted       int                      `json:"posted" example:"38"` // Journal entries created
	Skipped      []string                 `json:"skipped"`             // FITIDs that were not posted to the journal and why
}
