package importer

import (
	"fmt"

	"github.com/finbooks/backend/internal/importer/parser/ofx"
	"github.com/finbooks/backend/internal/ledger"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/rules"
	"gorm.io/gorm"
)

// Create commits a parsed statement: the bank account (when new), the
// import record, all non-duplicate transactions with their rule
// assignments, and the journal entries for postable transactions.
//
// Everything happens in one database transaction so that a failure rolls
// back all created resources.
func Create(db *gorm.DB, statement ofx.Statement, fileHash string) (Result, error) {
	tx := db.Begin()

	account, exists, err := resolveAccount(tx, statement.Account)
	if err != nil {
		tx.Rollback()
		return Result{}, err
	}

	if !exists {
		if err := tx.Create(&account).Error; err != nil {
			tx.Rollback()
			return Result{}, err
		}
	}

	duplicates, err := duplicateIDs(tx, account, statement.Transactions)
	if err != nil {
		tx.Rollback()
		return Result{}, err
	}

	ruleset, err := models.EngineRules(tx)
	if err != nil {
		tx.Rollback()
		return Result{}, err
	}
	assignments := rules.Apply(forEngine(statement.Transactions), ruleset)

	stmtImport := models.StatementImport{
		BankAccountID: account.ID,
		FileHash:      fileHash,
		DateStart:     statement.DateStart,
		DateEnd:       statement.DateEnd,
	}
	if err := tx.Create(&stmtImport).Error; err != nil {
		tx.Rollback()
		return Result{}, err
	}

	result := Result{Import: stmtImport}

	for _, t := range statement.Transactions {
		if len(duplicates[t.FitID]) > 0 {
			stmtImport.DuplicateCount++
			continue
		}

		assignment := assignments.Assignments[t.FitID]
		transaction := buildTransaction(account, t, assignment)
		transaction.StatementImportID = &stmtImport.ID

		if err := tx.Create(&transaction).Error; err != nil {
			tx.Rollback()
			return Result{}, err
		}

		stmtImport.TransactionCount++
		if assignment.RuleID != nil {
			stmtImport.MatchedCount++
		}

		result.Transactions = append(result.Transactions, transaction)
	}

	posted, skipped, err := post(tx, account, result.Transactions)
	if err != nil {
		tx.Rollback()
		return Result{}, err
	}
	result.Posted = posted
	result.Skipped = skipped

	err = tx.Model(&stmtImport).Updates(map[string]any{
		"transaction_count": stmtImport.TransactionCount,
		"duplicate_count":   stmtImport.DuplicateCount,
		"matched_count":     stmtImport.MatchedCount,
	}).Error
	if err != nil {
		tx.Rollback()
		return Result{}, err
	}

	result.Import = stmtImport
	tx.Commit()
	return result, nil
}

// post builds journal entries for the created transactions. Transactions
// that cannot post, e.g. because no rule resolved a target account, are
// skipped and reported, they do not fail the import.
func post(tx *gorm.DB, account models.BankAccount, transactions []models.BankTransaction) (int, []string, error) {
	if len(transactions) == 0 {
		return 0, nil, nil
	}

	// Without a chart account representing the bank account there is
	// nothing to post against
	if account.ChartAccountID == nil {
		skipped := make([]string, 0, len(transactions))
		for _, t := range transactions {
			skipped = append(skipped, fmt.Sprintf("%s: bank account is not linked to a chart account", t.FitID))
		}
		return 0, skipped, nil
	}

	book, err := models.LoadLedger(tx)
	if err != nil {
		return 0, nil, err
	}

	batch := make([]ledger.Transaction, 0, len(transactions))
	for _, t := range transactions {
		batch = append(batch, t.ForLedger())
	}

	outcome, err := book.PostBatch(batch, *account.ChartAccountID)
	if err != nil {
		return 0, nil, err
	}

	for _, entry := range outcome.Entries {
		persisted := models.EntryFromLedger(entry)
		if err := tx.Create(&persisted).Error; err != nil {
			return 0, nil, err
		}
	}

	skipped := make([]string, 0, len(outcome.Problems))
	for _, p := range outcome.Problems {
		skipped = append(skipped, fmt.Sprintf("%s: %s", p.FitID, p.Err))
	}

	return len(outcome.Entries), skipped, nil
}
