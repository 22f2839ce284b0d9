package v1_test

import (
	"fmt"
	"net/http"
	"time"

	v1 "github.com/finbooks/backend/internal/controllers/v1"
	"github.com/finbooks/backend/internal/forecast"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/finbooks/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// setupRevenueHistory creates three months of revenue, growing 10% per
// month.
func (suite *TestSuiteStandard) setupRevenueHistory() {
	account := suite.createTestBankAccount(v1.BankAccountCreate{})

	amounts := []int64{1000, 1100, 1210}
	for i, amount := range amounts {
		_ = suite.createTestTransaction(models.BankTransaction{
			BankAccountID: account.Data.ID,
			Amount:        decimal.NewFromInt(amount),
			DatePosted:    time.Date(2024, time.Month(i+1), 15, 0, 0, 0, 0, time.UTC),
			Category:      types.CategoryRevenue,
		})
	}
}

func (suite *TestSuiteStandard) TestForecastDefaults() {
	suite.setupRevenueHistory()

	recorder := test.Request(suite.router, suite.T(), http.MethodGet, "/v1/forecast/revenue", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ForecastResponse
	suite.decodeResponse(&recorder, &response)

	// Three periods with the simple method by default
	assert.Len(suite.T(), response.Data.Estimates, 3)
	for _, estimate := range response.Data.Estimates {
		assert.Equal(suite.T(), forecast.MethodSimple, estimate.Method)
	}

	// The simple method is the plain mean of the last three months
	mean := decimal.NewFromFloat(1103.33)
	assert.True(suite.T(), response.Data.Estimates[0].Value.Equal(mean), "estimate is %s", response.Data.Estimates[0].Value)

	assert.True(suite.T(), response.Data.Stats.Sum.Equal(decimal.NewFromInt(3310)))
	assert.False(suite.T(), response.Data.Seasonal)
}

func (suite *TestSuiteStandard) TestForecastMethods() {
	suite.setupRevenueHistory()

	for _, method := range []string{"simple", "weighted", "exponential", "linear"} {
		recorder := test.Request(suite.router, suite.T(), http.MethodGet, fmt.Sprintf("/v1/forecast/revenue?method=%s&periods=2", method), "")
		assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

		var response v1.ForecastResponse
		suite.decodeResponse(&recorder, &response)
		assert.Len(suite.T(), response.Data.Estimates, 2)
	}
}

func (suite *TestSuiteStandard) TestForecastUnknownMethod() {
	suite.setupRevenueHistory()

	recorder := test.Request(suite.router, suite.T(), http.MethodGet, "/v1/forecast/revenue?method=crystalball", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestForecastNoRevenue() {
	recorder := test.Request(suite.router, suite.T(), http.MethodGet, "/v1/forecast/revenue", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestForecastByRevenueSource() {
	suite.setupRevenueHistory()

	source := models.RevenueSource{Name: "Consulting"}
	err := models.DB.Create(&source).Error
	assert.Nil(suite.T(), err)

	account := suite.createTestBankAccount(v1.BankAccountCreate{Name: "Second", AccountID: "777"})
	sourceID := source.ID
	_ = suite.createTestTransaction(models.BankTransaction{
		BankAccountID:   account.Data.ID,
		Amount:          decimal.NewFromInt(500),
		DatePosted:      time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
		Category:        types.CategoryRevenue,
		RevenueSourceID: &sourceID,
	})

	recorder := test.Request(suite.router, suite.T(), http.MethodGet, fmt.Sprintf("/v1/forecast/revenue?revenueSourceId=%s&periods=1", source.ID), "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ForecastResponse
	suite.decodeResponse(&recorder, &response)

	// Only the single consulting payment feeds the series
	assert.True(suite.T(), response.Data.Stats.Sum.Equal(decimal.NewFromInt(500)))
	assert.True(suite.T(), response.Data.Estimates[0].Value.Equal(decimal.NewFromInt(500)))
}
