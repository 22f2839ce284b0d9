package models

import (
	"strings"

	"github.com/finbooks/backend/internal/ledger"
	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChartAccount is one entry of the chart of accounts, the category buckets
// transactions post against.
type ChartAccount struct {
	DefaultModel
	Code        string            `json:"code" gorm:"uniqueIndex:chart_account_code" example:"4000"` // Account code, unique
	Name        string            `json:"name" example:"Sales"`                                      // Name of the account
	Type        types.AccountType `json:"type" example:"REVENUE"`                                    // Accounting type
	ParentID    *uuid.UUID        `json:"parentId"`                                                  // Parent account for report grouping
	Parent      *ChartAccount     `json:"-"`
	Active      bool              `json:"active" example:"true"` // Deactivated accounts are kept for history
	Description string            `json:"description" example:"Revenue from product sales"`
}

// BeforeSave trims whitespace from all strings.
func (a *ChartAccount) BeforeSave(_ *gorm.DB) error {
	a.Code = strings.TrimSpace(a.Code)
	a.Name = strings.TrimSpace(a.Name)
	a.Description = strings.TrimSpace(a.Description)

	return nil
}

// BeforeCreate verifies references to other resources.
func (a *ChartAccount) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	// The parent is only used for report grouping and may have any type,
	// but it has to exist
	if a.ParentID != nil {
		return tx.First(&ChartAccount{}, "id = ?", *a.ParentID).Error
	}

	return nil
}

// BeforeDelete blocks hard deletion of accounts that transactions or
// journal lines reference. Those accounts can only be deactivated.
func (a *ChartAccount) BeforeDelete(tx *gorm.DB) error {
	var count int64

	err := tx.Model(&BankTransaction{}).Where("chart_account_id = ?", a.ID).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrChartAccountStillReferenced
	}

	err = tx.Model(&JournalLine{}).Where("chart_account_id = ?", a.ID).Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrChartAccountStillReferenced
	}

	return nil
}

// ForLedger converts the chart account for the ledger engine.
func (a ChartAccount) ForLedger() ledger.Account {
	return ledger.Account{
		ID:          a.ID,
		Code:        a.Code,
		Name:        a.Name,
		Type:        a.Type,
		ParentID:    a.ParentID,
		Active:      a.Active,
		Description: a.Description,
	}
}
