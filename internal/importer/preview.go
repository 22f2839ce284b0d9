package importer

import (
	"errors"
	"fmt"

	"github.com/finbooks/backend/internal/importer/helpers"
	"github.com/finbooks/backend/internal/importer/parser/ofx"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/rules"
	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Preview resolves a parsed statement against the database without creating
// anything: which bank account the statement belongs to, which transactions
// are duplicates of already imported ones, and what the mapping rules would
// assign.
func Preview(db *gorm.DB, statement ofx.Statement) (StatementPreview, error) {
	account, exists, err := resolveAccount(db, statement.Account)
	if err != nil {
		return StatementPreview{}, err
	}

	preview := StatementPreview{
		Account: AccountPreview{Account: account, Exists: exists},
	}

	if statement.LedgerBalance != nil {
		balance := statement.LedgerBalance.Amount
		preview.LedgerBalance = &balance
	}

	duplicates, err := duplicateIDs(db, account, statement.Transactions)
	if err != nil {
		return StatementPreview{}, err
	}

	ruleset, err := models.EngineRules(db)
	if err != nil {
		return StatementPreview{}, err
	}

	result := rules.Apply(forEngine(statement.Transactions), ruleset)
	preview.Matched = result.Matched
	preview.Unmatched = result.Unmatched
	preview.Warnings = result.Warnings

	for _, t := range statement.Transactions {
		assignment := result.Assignments[t.FitID]
		item := TransactionPreview{
			Transaction:             buildTransaction(account, t, assignment),
			DuplicateTransactionIDs: duplicates[t.FitID],
			MatchRuleID:             assignment.RuleID,
			SubcategoryName:         assignment.SubcategoryName,
		}

		preview.Duplicates += len(item.DuplicateTransactionIDs)
		preview.Transactions = append(preview.Transactions, item)
	}

	return preview, nil
}

// resolveAccount finds the bank account a statement belongs to by the hash
// of its raw account number. When no account exists yet, a candidate is
// returned for the import to create.
func resolveAccount(db *gorm.DB, header ofx.Account) (models.BankAccount, bool, error) {
	hash := helpers.Sha256String(header.AccountID)

	var account models.BankAccount
	err := db.First(&account, "account_id_hash = ?", hash).Error
	if err == nil {
		return account, true, nil
	}

	if !errors.Is(err, models.ErrResourceNotFound) {
		return models.BankAccount{}, false, err
	}

	masked := helpers.MaskAccountID(header.AccountID)
	return models.BankAccount{
		Name:            fmt.Sprintf("%s %s", header.AccountType, masked),
		BankID:          header.BankID,
		AccountIDHash:   hash,
		AccountIDMasked: masked,
		AccountType:     header.AccountType,
		Currency:        header.Currency,
	}, false, nil
}

// duplicateIDs returns, per FITID, the IDs of already imported transactions
// the statement would duplicate.
func duplicateIDs(db *gorm.DB, account models.BankAccount, transactions []ofx.Transaction) (map[string][]uuid.UUID, error) {
	duplicates := make(map[string][]uuid.UUID)
	if account.ID == uuid.Nil {
		return duplicates, nil
	}

	fitIDs := make([]string, 0, len(transactions))
	for _, t := range transactions {
		fitIDs = append(fitIDs, t.FitID)
	}

	var existing []models.BankTransaction
	err := db.
		Where("bank_account_id = ?", account.ID).
		Where("fit_id IN ?", fitIDs).
		Find(&existing).Error
	if err != nil {
		return nil, err
	}

	for _, t := range existing {
		duplicates[t.FitID] = append(duplicates[t.FitID], t.ID)
	}

	return duplicates, nil
}

// forEngine converts statement transactions for the rule engine.
func forEngine(transactions []ofx.Transaction) []rules.Transaction {
	converted := make([]rules.Transaction, 0, len(transactions))
	for _, t := range transactions {
		converted = append(converted, rules.Transaction{
			FitID: t.FitID,
			Name:  t.Name,
			Memo:  t.Memo,
		})
	}
	return converted
}

// buildTransaction builds the persisted form of a statement transaction
// with the rule assignment applied.
func buildTransaction(account models.BankAccount, t ofx.Transaction, assignment rules.Assignment) models.BankTransaction {
	transaction := models.BankTransaction{
		BankAccountID:   account.ID,
		FitID:           t.FitID,
		Amount:          t.Amount,
		DatePosted:      t.DatePosted,
		Name:            t.Name,
		Memo:            t.Memo,
		CheckNum:        t.CheckNum,
		RefNum:          t.RefNum,
		Category:        assignment.Category,
		ChartAccountID:  assignment.ChartAccountID,
		RevenueSourceID: assignment.RevenueSourceID,
	}

	if assignment.Category == "" {
		transaction.Category = types.CategoryUncategorized
	}

	return transaction
}
