package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/finbooks/backend/internal/controllers/v1"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/finbooks/backend/test"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestChartAccountsNoDB() {
	suite.CloseDB()

	recorder := test.Request(suite.router, suite.T(), http.MethodGet, "/v1/chart-accounts", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}

func (suite *TestSuiteStandard) TestOptionsChartAccount() {
	recorder := test.Request(suite.router, suite.T(), http.MethodOptions, "/v1/chart-accounts", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, POST", recorder.Header().Get("allow"))

	account := suite.createTestChartAccount(models.ChartAccount{})
	recorder = test.Request(suite.router, suite.T(), http.MethodOptions, fmt.Sprintf("/v1/chart-accounts/%s", account.Data.ID), "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
	assert.Equal(suite.T(), "OPTIONS, GET, PATCH, DELETE", recorder.Header().Get("allow"))
}

func (suite *TestSuiteStandard) TestCreateChartAccount() {
	account := suite.createTestChartAccount(models.ChartAccount{
		Code: "4000",
		Name: "Sales",
		Type: types.AccountTypeRevenue,
	})

	assert.Equal(suite.T(), "4000", account.Data.Code)
	assert.Equal(suite.T(), types.AccountTypeRevenue, account.Data.Type)
	assert.True(suite.T(), account.Data.Active)
}

func (suite *TestSuiteStandard) TestCreateChartAccountDuplicateCode() {
	_ = suite.createTestChartAccount(models.ChartAccount{Code: "4000"})

	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/chart-accounts", models.ChartAccount{Code: "4000", Type: types.AccountTypeRevenue})
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	assert.Equal(suite.T(), models.ErrAccountCodeNotUnique.Error(), test.DecodeError(suite.T(), recorder.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestCreateChartAccountBrokenJSON() {
	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/chart-accounts", `{ "code": "broken`)
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestGetChartAccounts() {
	_ = suite.createTestChartAccount(models.ChartAccount{Code: "5000", Type: types.AccountTypeExpense})
	_ = suite.createTestChartAccount(models.ChartAccount{Code: "1000", Type: types.AccountTypeAsset})

	recorder := test.Request(suite.router, suite.T(), http.MethodGet, "/v1/chart-accounts", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ChartAccountListResponse
	suite.decodeResponse(&recorder, &response)

	// The list is ordered by code
	assert.Len(suite.T(), response.Data, 2)
	assert.Equal(suite.T(), "1000", response.Data[0].Code)

	recorder = test.Request(suite.router, suite.T(), http.MethodGet, "/v1/chart-accounts?type=ASSET", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	suite.decodeResponse(&recorder, &response)
	assert.Len(suite.T(), response.Data, 1)
}

func (suite *TestSuiteStandard) TestGetChartAccount() {
	account := suite.createTestChartAccount(models.ChartAccount{})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing account", account.Data.ID.String(), http.StatusOK},
		{"Unknown ID", uuid.NewString(), http.StatusNotFound},
		{"Not parseable as UUID", "not-a-uuid", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(suite.router, t, http.MethodGet, fmt.Sprintf("/v1/chart-accounts/%s", tt.id), "")
			assertHTTPStatus(t, &recorder, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestUpdateChartAccount() {
	account := suite.createTestChartAccount(models.ChartAccount{Name: "Ofice"})

	recorder := test.Request(suite.router, suite.T(), http.MethodPatch, fmt.Sprintf("/v1/chart-accounts/%s", account.Data.ID), map[string]any{
		"name": "Office",
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ChartAccountResponse
	suite.decodeResponse(&recorder, &response)
	assert.Equal(suite.T(), "Office", response.Data.Name)
}

func (suite *TestSuiteStandard) TestDeactivateChartAccount() {
	account := suite.createTestChartAccount(models.ChartAccount{})

	// A PATCH with "active": false has to stick even though false is the
	// zero value
	recorder := test.Request(suite.router, suite.T(), http.MethodPatch, fmt.Sprintf("/v1/chart-accounts/%s", account.Data.ID), map[string]any{
		"active": false,
	})
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var updated models.ChartAccount
	err := models.DB.First(&updated, "id = ?", account.Data.ID).Error
	assert.Nil(suite.T(), err)
	assert.False(suite.T(), updated.Active)
}

func (suite *TestSuiteStandard) TestDeleteChartAccount() {
	account := suite.createTestChartAccount(models.ChartAccount{})

	recorder := test.Request(suite.router, suite.T(), http.MethodDelete, fmt.Sprintf("/v1/chart-accounts/%s", account.Data.ID), "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestDeleteChartAccountReferenced() {
	chartAccount := suite.createTestChartAccount(models.ChartAccount{})
	bankAccount := suite.createTestBankAccount(v1.BankAccountCreate{})

	chartAccountID := chartAccount.Data.ID
	_ = suite.createTestTransaction(models.BankTransaction{
		BankAccountID:  bankAccount.Data.ID,
		ChartAccountID: &chartAccountID,
		Category:       types.CategoryExpense,
	})

	recorder := test.Request(suite.router, suite.T(), http.MethodDelete, fmt.Sprintf("/v1/chart-accounts/%s", chartAccount.Data.ID), "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
	assert.Equal(suite.T(), models.ErrChartAccountStillReferenced.Error(), test.DecodeError(suite.T(), recorder.Body.Bytes()))
}
