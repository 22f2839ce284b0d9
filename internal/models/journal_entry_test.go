package models_test

import (
	"time"

	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/shopspring/decimal"
)

func (suite *TestSuiteStandard) journalAccounts() (models.ChartAccount, models.ChartAccount) {
	checking := suite.createTestChartAccount(models.ChartAccount{Code: "1000", Name: "Checking", Type: types.AccountTypeAsset})
	office := suite.createTestChartAccount(models.ChartAccount{Code: "5000", Name: "Office", Type: types.AccountTypeExpense})
	return checking, office
}

func (suite *TestSuiteStandard) TestJournalEntryCreate() {
	checking, office := suite.journalAccounts()

	entry := suite.createTestJournalEntry(models.JournalEntry{
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Office supplies",
		Lines: []models.JournalLine{
			{ChartAccountID: office.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideDebit},
			{ChartAccountID: checking.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideCredit},
		},
	})

	var reread models.JournalEntry
	err := models.DB.Preload("Lines").First(&reread, "id = ?", entry.ID).Error
	suite.Require().NoError(err)
	suite.Assert().Len(reread.Lines, 2)
	suite.Assert().False(reread.Reconciled)
}

func (suite *TestSuiteStandard) TestJournalEntryTooFewLines() {
	_, office := suite.journalAccounts()

	err := models.DB.Create(&models.JournalEntry{
		Date: time.Now(),
		Lines: []models.JournalLine{
			{ChartAccountID: office.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideDebit},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrJournalEntryTooFewLines)
}

func (suite *TestSuiteStandard) TestJournalEntryUnbalanced() {
	checking, office := suite.journalAccounts()

	err := models.DB.Create(&models.JournalEntry{
		Date: time.Now(),
		Lines: []models.JournalLine{
			{ChartAccountID: office.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideDebit},
			{ChartAccountID: checking.ID, Amount: decimal.RequireFromString("49.99"), Side: types.SideCredit},
		},
	}).Error
	suite.Assert().ErrorIs(err, models.ErrJournalEntryUnbalanced)
}

func (suite *TestSuiteStandard) TestJournalEntryImmutable() {
	checking, office := suite.journalAccounts()

	entry := suite.createTestJournalEntry(models.JournalEntry{
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Office supplies",
		Lines: []models.JournalLine{
			{ChartAccountID: office.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideDebit},
			{ChartAccountID: checking.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideCredit},
		},
	})

	err := models.DB.Model(&entry).Updates(models.JournalEntry{Description: "Changed"}).Error
	suite.Assert().ErrorIs(err, models.ErrJournalEntryImmutable)
}

func (suite *TestSuiteStandard) TestJournalEntryReconciledFlip() {
	checking, office := suite.journalAccounts()

	entry := suite.createTestJournalEntry(models.JournalEntry{
		Date: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Lines: []models.JournalLine{
			{ChartAccountID: office.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideDebit},
			{ChartAccountID: checking.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideCredit},
		},
	})

	// Flipping the Reconciled flag is the only permitted change
	err := models.DB.Model(&entry).Update("Reconciled", true).Error
	suite.Assert().NoError(err)
}

func (suite *TestSuiteStandard) TestJournalEntryConversionRoundTrip() {
	checking, office := suite.journalAccounts()

	entry := suite.createTestJournalEntry(models.JournalEntry{
		Date:        time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Description: "Office supplies",
		Lines: []models.JournalLine{
			{ChartAccountID: office.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideDebit},
			{ChartAccountID: checking.ID, Amount: decimal.RequireFromString("50.00"), Side: types.SideCredit},
		},
	})

	converted := entry.ForLedger()
	suite.Require().Len(converted.Lines, 2)
	suite.Assert().True(converted.Balanced())

	back := models.EntryFromLedger(converted)
	suite.Assert().Equal(entry.ID, back.ID)
	suite.Assert().Equal(entry.Description, back.Description)
	suite.Assert().Len(back.Lines, 2)
}
