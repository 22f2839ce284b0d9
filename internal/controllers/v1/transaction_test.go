package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/finbooks/backend/internal/controllers/v1"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/finbooks/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestGetTransactions() {
	account := suite.createTestBankAccount(v1.BankAccountCreate{})

	_ = suite.createTestTransaction(models.BankTransaction{
		BankAccountID: account.Data.ID,
		Name:          "ACME CONSULTING PAYMENT",
		Amount:        decimal.NewFromInt(200),
		DatePosted:    time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC),
		Category:      types.CategoryRevenue,
	})
	_ = suite.createTestTransaction(models.BankTransaction{
		BankAccountID: account.Data.ID,
		Name:          "STAPLES OFFICE SUPPLIES",
		Amount:        decimal.NewFromInt(-50),
		DatePosted:    time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		Category:      types.CategoryExpense,
	})

	tests := []struct {
		name  string
		query string
		count int
	}{
		{"No filter", "", 2},
		{"Category", "category=revenue", 1},
		{"From date", "fromDate=2024-02-01", 1},
		{"Until date is inclusive", "untilDate=2024-02-05", 2},
		{"Amount floor", "amountMoreOrEqual=0", 1},
		{"Amount ceiling", "amountLessOrEqual=-10", 1},
		{"Bank account", fmt.Sprintf("bankAccount=%s", account.Data.ID), 2},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(suite.router, t, http.MethodGet, fmt.Sprintf("/v1/transactions?%s", tt.query), "")
			assertHTTPStatus(t, &recorder, http.StatusOK)

			var response v1.TransactionListResponse
			suite.decodeResponse(&recorder, &response)
			assert.Len(t, response.Data, tt.count)
		})
	}
}

func (suite *TestSuiteStandard) TestGetTransactionsNewestFirst() {
	account := suite.createTestBankAccount(v1.BankAccountCreate{})

	older := suite.createTestTransaction(models.BankTransaction{
		BankAccountID: account.Data.ID,
		DatePosted:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	newer := suite.createTestTransaction(models.BankTransaction{
		BankAccountID: account.Data.ID,
		DatePosted:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
	})

	recorder := test.Request(suite.router, suite.T(), http.MethodGet, "/v1/transactions", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.TransactionListResponse
	suite.decodeResponse(&recorder, &response)
	assert.Equal(suite.T(), newer.ID, response.Data[0].ID)
	assert.Equal(suite.T(), older.ID, response.Data[1].ID)
}

func (suite *TestSuiteStandard) TestGetTransactionsInvalidQuery() {
	tests := []string{
		"bankAccount=not-a-uuid",
		"fromDate=12-31-2024",
		"amountMoreOrEqual=lots",
	}

	for _, query := range tests {
		suite.T().Run(query, func(t *testing.T) {
			recorder := test.Request(suite.router, t, http.MethodGet, fmt.Sprintf("/v1/transactions?%s", query), "")
			assertHTTPStatus(t, &recorder, http.StatusBadRequest)
		})
	}
}

func (suite *TestSuiteStandard) TestUpdateTransactionCategory() {
	account := suite.createTestBankAccount(v1.BankAccountCreate{})
	chartAccount := suite.createTestChartAccount(models.ChartAccount{Type: types.AccountTypeExpense})

	transaction := suite.createTestTransaction(models.BankTransaction{
		BankAccountID: account.Data.ID,
		Name:          "UNKNOWN VENDOR",
	})
	assert.Equal(suite.T(), types.CategoryUncategorized, transaction.Category)

	recorder := test.Request(suite.router, suite.T(), http.MethodPatch, fmt.Sprintf("/v1/transactions/%s", transaction.ID), map[string]any{
		"category":       types.CategoryExpense,
		"chartAccountId": chartAccount.Data.ID,
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var updated models.BankTransaction
	err := models.DB.First(&updated, "id = ?", transaction.ID).Error
	assert.Nil(suite.T(), err)
	assert.Equal(suite.T(), types.CategoryExpense, updated.Category)
	assert.Equal(suite.T(), chartAccount.Data.ID, *updated.ChartAccountID)
}

func (suite *TestSuiteStandard) TestUpdateTransactionIgnored() {
	account := suite.createTestBankAccount(v1.BankAccountCreate{})
	transaction := suite.createTestTransaction(models.BankTransaction{BankAccountID: account.Data.ID})

	recorder := test.Request(suite.router, suite.T(), http.MethodPatch, fmt.Sprintf("/v1/transactions/%s", transaction.ID), map[string]any{
		"ignored": true,
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var updated models.BankTransaction
	err := models.DB.First(&updated, "id = ?", transaction.ID).Error
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), updated.Ignored)
}

func (suite *TestSuiteStandard) TestTransactionNotFound() {
	recorder := test.Request(suite.router, suite.T(), http.MethodGet, "/v1/transactions/2fd9b179-786d-4d8d-b691-52cc3d8d4dd1", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusNotFound)
}
