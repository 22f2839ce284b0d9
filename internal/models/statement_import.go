package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// StatementImport records one committed statement import for auditing.
type StatementImport struct {
	DefaultModel
	BankAccountID    uuid.UUID   `json:"bankAccountId"`
	BankAccount      BankAccount `json:"-"`
	FileHash         string      `json:"-" gorm:"index"` // SHA256 of the raw statement file
	DateStart        time.Time   `json:"dateStart"`
	DateEnd          time.Time   `json:"dateEnd"`
	TransactionCount int         `json:"transactionCount" example:"42"` // Transactions created by this import
	DuplicateCount   int         `json:"duplicateCount" example:"3"`    // Transactions skipped as already imported
	MatchedCount     int         `json:"matchedCount" example:"40"`     // Transactions a mapping rule matched
}

// AfterFind updates the timestamps to use UTC as timezone, not +0000.
func (i *StatementImport) AfterFind(_ *gorm.DB) error {
	i.DateStart = i.DateStart.In(time.UTC)
	i.DateEnd = i.DateEnd.In(time.UTC)
	return nil
}
