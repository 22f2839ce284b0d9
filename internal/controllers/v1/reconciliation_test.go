package v1_test

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/finbooks/backend/internal/controllers/v1"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/finbooks/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// setupReconciliationAccount creates a bank account with a 1000.00 opening
// balance at the end of 2023 and a single 200.00 payment in January 2024.
func (suite *TestSuiteStandard) setupReconciliationAccount() v1.BankAccountResponse {
	openingDate := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	account := suite.createTestBankAccount(v1.BankAccountCreate{
		OpeningBalance:     decimal.NewFromInt(1000),
		OpeningBalanceDate: &openingDate,
	})

	_ = suite.createTestTransaction(models.BankTransaction{
		BankAccountID: account.Data.ID,
		Amount:        decimal.NewFromInt(200),
		DatePosted:    time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Name:          "ACME CONSULTING PAYMENT",
	})

	return account
}

func (suite *TestSuiteStandard) TestReconcileBalanced() {
	account := suite.setupReconciliationAccount()

	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/reconciliations", v1.ReconciliationCreate{
		BankAccountID:    account.Data.ID,
		AsOf:             time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		ActualBalance:    decimal.NewFromInt(1200),
		CreateAdjustment: true,
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.ReconciliationRunResponse
	suite.decodeResponse(&recorder, &response)

	assert.True(suite.T(), response.Data.Discrepancy.IsZero())
	assert.Nil(suite.T(), response.Data.Adjustment)

	// Zero-adjustment runs still leave an audit record
	assert.True(suite.T(), response.Data.Record.ExpectedBalance.Equal(decimal.NewFromInt(1200)))
	assert.Nil(suite.T(), response.Data.Record.AdjustmentTransactionID)
}

func (suite *TestSuiteStandard) TestReconcileWithAdjustment() {
	account := suite.setupReconciliationAccount()

	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/reconciliations", v1.ReconciliationCreate{
		BankAccountID:    account.Data.ID,
		AsOf:             time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		ActualBalance:    decimal.NewFromFloat(1195.50),
		CreateAdjustment: true,
		Notes:            "January bank statement",
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.ReconciliationRunResponse
	suite.decodeResponse(&recorder, &response)

	assert.True(suite.T(), response.Data.Discrepancy.Equal(decimal.NewFromFloat(-4.50)))
	assert.Equal(suite.T(), "January bank statement", response.Data.Record.Notes)

	assert.NotNil(suite.T(), response.Data.Adjustment)
	assert.Equal(suite.T(), types.CategoryAdjustment, response.Data.Adjustment.Category)
	assert.Equal(suite.T(), fmt.Sprintf("ADJ-%s-20240131", account.Data.ID), response.Data.Adjustment.FitID)
	assert.Equal(suite.T(), response.Data.Adjustment.ID, *response.Data.Record.AdjustmentTransactionID)

	// The adjustment is a real transaction on the account
	var transaction models.BankTransaction
	err := models.DB.First(&transaction, "id = ?", response.Data.Adjustment.ID).Error
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), transaction.Amount.Equal(decimal.NewFromFloat(-4.50)))
}

func (suite *TestSuiteStandard) TestReconcileIdempotent() {
	account := suite.setupReconciliationAccount()

	create := v1.ReconciliationCreate{
		BankAccountID:    account.Data.ID,
		AsOf:             time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		ActualBalance:    decimal.NewFromInt(1150),
		CreateAdjustment: true,
	}

	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/reconciliations", create)
	assertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	// The adjustment transaction absorbed the discrepancy, the second run
	// reconciles cleanly and must not create another one
	recorder = test.Request(suite.router, suite.T(), http.MethodPost, "/v1/reconciliations", create)
	assertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.ReconciliationRunResponse
	suite.decodeResponse(&recorder, &response)
	assert.True(suite.T(), response.Data.Discrepancy.IsZero())
	assert.Nil(suite.T(), response.Data.Adjustment)

	var count int64
	_ = models.DB.Model(&models.BankTransaction{}).Where("category = ?", types.CategoryAdjustment).Count(&count).Error
	assert.Equal(suite.T(), int64(1), count)
}

func (suite *TestSuiteStandard) TestReconcileValidation() {
	account := suite.createTestBankAccount(v1.BankAccountCreate{})

	// The as-of date is required
	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/reconciliations", v1.ReconciliationCreate{
		BankAccountID: account.Data.ID,
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	// Accounts without an opening balance date cannot be reconciled
	recorder = test.Request(suite.router, suite.T(), http.MethodPost, "/v1/reconciliations", v1.ReconciliationCreate{
		BankAccountID: account.Data.ID,
		AsOf:          time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetReconciliations() {
	account := suite.setupReconciliationAccount()

	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/reconciliations", v1.ReconciliationCreate{
		BankAccountID: account.Data.ID,
		AsOf:          time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		ActualBalance: decimal.NewFromInt(1200),
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	recorder = test.Request(suite.router, suite.T(), http.MethodGet, fmt.Sprintf("/v1/reconciliations?bankAccountId=%s", account.Data.ID), "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ReconciliationListResponse
	suite.decodeResponse(&recorder, &response)
	assert.Len(suite.T(), response.Data, 1)

	recorder = test.Request(suite.router, suite.T(), http.MethodGet, "/v1/reconciliations?bankAccountId=not-a-uuid", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}
