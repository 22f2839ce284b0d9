package v1_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	v1 "github.com/finbooks/backend/internal/controllers/v1"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/finbooks/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const statementFile = `OFXHEADER:100
DATA:OFXSGML
VERSION:102

<OFX>
<BANKMSGSRSV1>
<STMTTRNRS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>021000021
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101
<DTEND>20240131
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240110
<TRNAMT>200.00
<FITID>TXN-001
<NAME>ACME CONSULTING PAYMENT
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115
<TRNAMT>-50.00
<FITID>TXN-002
<NAME>STAPLES OFFICE SUPPLIES
</STMTTRN>
</BANKTRANLIST>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

// statementUpload builds the multipart body for a statement upload.
func (suite *TestSuiteStandard) statementUpload(content, filename string) (*bytes.Buffer, map[string]string) {
	body := new(bytes.Buffer)

	mw := multipart.NewWriter(body)
	w, err := mw.CreateFormFile("file", filename)
	if err != nil {
		require.FailNowf(suite.T(), "form file could not be created", "%v", err)
	}

	_, err = strings.NewReader(content).WriteTo(w)
	if err != nil {
		require.FailNowf(suite.T(), "form file could not be written", "%v", err)
	}
	mw.Close()

	return body, map[string]string{"Content-Type": mw.FormDataContentType()}
}

// setupImportScenario creates the chart accounts, the mapping rules, and the
// linked bank account the import endpoints operate on.
func (suite *TestSuiteStandard) setupImportScenario() {
	checking := suite.createTestChartAccount(models.ChartAccount{Code: "1000", Name: "Checking", Type: types.AccountTypeAsset})
	sales := suite.createTestChartAccount(models.ChartAccount{Code: "4000", Name: "Sales", Type: types.AccountTypeRevenue})
	office := suite.createTestChartAccount(models.ChartAccount{Code: "5000", Name: "Office", Type: types.AccountTypeExpense})

	salesID := sales.Data.ID
	officeID := office.Data.ID
	_ = suite.createTestMappingRule(models.MappingRule{Pattern: "ACME", Category: types.CategoryRevenue, ChartAccountID: &salesID, Priority: 10})
	_ = suite.createTestMappingRule(models.MappingRule{Pattern: "STAPLES", Category: types.CategoryExpense, ChartAccountID: &officeID, Priority: 5})

	checkingID := checking.Data.ID
	openingDate := time.Date(2023, 12, 31, 0, 0, 0, 0, time.UTC)
	_ = suite.createTestBankAccount(v1.BankAccountCreate{
		Name:               "Business Checking",
		BankID:             "021000021",
		AccountID:          "1234567890",
		ChartAccountID:     &checkingID,
		OpeningBalance:     decimal.NewFromInt(1000),
		OpeningBalanceDate: &openingDate,
	})
}

func (suite *TestSuiteStandard) TestImportPreview() {
	suite.setupImportScenario()

	body, headers := suite.statementUpload(statementFile, "january.ofx")
	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/import/ofx", body, headers)
	assertHTTPStatus(suite.T(), &recorder, http.StatusOK)

	var response v1.ImportPreviewResponse
	suite.decodeResponse(&recorder, &response)

	assert.True(suite.T(), response.Data.Account.Exists)
	assert.Len(suite.T(), response.Data.Transactions, 2)
	assert.Equal(suite.T(), 2, response.Data.Matched)
	assert.Equal(suite.T(), 0, response.Data.Duplicates)

	// A preview does not create anything
	var count int64
	_ = models.DB.Model(&models.BankTransaction{}).Count(&count).Error
	assert.Equal(suite.T(), int64(0), count)
}

func (suite *TestSuiteStandard) TestImportCommit() {
	suite.setupImportScenario()

	body, headers := suite.statementUpload(statementFile, "january.ofx")
	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/import/ofx/commit", body, headers)
	assertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.ImportResultResponse
	suite.decodeResponse(&recorder, &response)

	assert.Equal(suite.T(), 2, response.Data.Import.TransactionCount)
	assert.Equal(suite.T(), 2, response.Data.Posted)

	var count int64
	_ = models.DB.Model(&models.BankTransaction{}).Count(&count).Error
	assert.Equal(suite.T(), int64(2), count)
}

func (suite *TestSuiteStandard) TestImportCommitIdempotent() {
	suite.setupImportScenario()

	body, headers := suite.statementUpload(statementFile, "january.ofx")
	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/import/ofx/commit", body, headers)
	assertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	// The same statement again only yields duplicates
	body, headers = suite.statementUpload(statementFile, "january.ofx")
	recorder = test.Request(suite.router, suite.T(), http.MethodPost, "/v1/import/ofx/commit", body, headers)
	assertHTTPStatus(suite.T(), &recorder, http.StatusCreated)

	var response v1.ImportResultResponse
	suite.decodeResponse(&recorder, &response)
	assert.Equal(suite.T(), 0, response.Data.Import.TransactionCount)
	assert.Equal(suite.T(), 2, response.Data.Import.DuplicateCount)

	var count int64
	_ = models.DB.Model(&models.BankTransaction{}).Count(&count).Error
	assert.Equal(suite.T(), int64(2), count)
}

func (suite *TestSuiteStandard) TestImportWrongSuffix() {
	body, headers := suite.statementUpload(statementFile, "january.csv")
	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/import/ofx", body, headers)
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestImportNoFile() {
	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/import/ofx", "")
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
}

func (suite *TestSuiteStandard) TestImportParseErrorsAccumulate() {
	// Two defects at once: a missing FITID and an unparseable amount. Both
	// have to be reported.
	broken := strings.Replace(statementFile, "<FITID>TXN-001\n", "", 1)
	broken = strings.Replace(broken, "-50.00", "fifty", 1)

	body, headers := suite.statementUpload(broken, "broken.ofx")
	recorder := test.Request(suite.router, suite.T(), http.MethodPost, "/v1/import/ofx", body, headers)
	assertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	var response v1.ImportParseError
	err := json.NewDecoder(recorder.Body).Decode(&response)
	assert.Nil(suite.T(), err)
	assert.Len(suite.T(), response.Errors, 2)
}
