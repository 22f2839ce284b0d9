package v1

import (
	"net/http"
	"time"

	"github.com/finbooks/backend/internal/httputil"
	"github.com/finbooks/backend/internal/importer/helpers"
	"github.com/finbooks/backend/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BankAccountListResponse struct {
	Data []models.BankAccount `json:"data"`
}

type BankAccountResponse struct {
	Data models.BankAccount `json:"data"`
}

// BankAccountCreate is the request body for creating a bank account. The
// raw account number is accepted once, hashed and masked, and never stored.
type BankAccountCreate struct {
	Name               string          `json:"name" example:"Business Checking"`
	BankID             string          `json:"bankId" example:"021000021"`
	AccountID          string          `json:"accountId" example:"1234567890"` // Raw account number, only its hash and mask are stored
	AccountType        string          `json:"accountType" example:"CHECKING"`
	Currency           string          `json:"currency" example:"USD"`
	ChartAccountID     *uuid.UUID      `json:"chartAccountId"`
	OpeningBalance     decimal.Decimal `json:"openingBalance" example:"1000.00"`
	OpeningBalanceDate *time.Time      `json:"openingBalanceDate"`
}

// BankAccountEditable are the fields a PATCH may change.
type BankAccountEditable struct {
	Name               *string          `json:"name"`
	ChartAccountID     *uuid.UUID       `json:"chartAccountId"`
	OpeningBalance     *decimal.Decimal `json:"openingBalance"`
	OpeningBalanceDate *time.Time       `json:"openingBalanceDate"`
	Archived           *bool            `json:"archived"`
}

func (e BankAccountEditable) updates() map[string]any {
	u := make(map[string]any)
	if e.Name != nil {
		u["name"] = *e.Name
	}
	if e.ChartAccountID != nil {
		u["chart_account_id"] = *e.ChartAccountID
	}
	if e.OpeningBalance != nil {
		u["opening_balance"] = *e.OpeningBalance
	}
	if e.OpeningBalanceDate != nil {
		u["opening_balance_date"] = *e.OpeningBalanceDate
	}
	if e.Archived != nil {
		u["archived"] = *e.Archived
	}
	return u
}

// RegisterBankAccountRoutes registers the routes for bank accounts with the
// RouterGroup that is passed.
func RegisterBankAccountRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsBankAccountList)
		r.GET("", GetBankAccounts)
		r.POST("", CreateBankAccount)
	}

	{
		r.OPTIONS("/:id", OptionsBankAccountDetail)
		r.GET("/:id", GetBankAccount)
		r.PATCH("/:id", UpdateBankAccount)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BankAccounts
// @Success		204
// @Router			/v1/bank-accounts [options]
func OptionsBankAccountList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			BankAccounts
// @Success		204
// @Param			id	path	string	true	"ID of the account"
// @Router			/v1/bank-accounts/{id} [options]
func OptionsBankAccountDetail(c *gin.Context) {
	httputil.OptionsGetPatch(c)
}

// @Summary		Create bank account
// @Description	Creates a new bank account. The raw account number is hashed and masked, it is never stored.
// @Tags			BankAccounts
// @Produce		json
// @Success		201		{object}	BankAccountResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			account	body		BankAccountCreate	true	"Bank account"
// @Router			/v1/bank-accounts [post]
func CreateBankAccount(c *gin.Context) {
	var data BankAccountCreate

	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	account := models.BankAccount{
		Name:               data.Name,
		BankID:             data.BankID,
		AccountIDHash:      helpers.Sha256String(data.AccountID),
		AccountIDMasked:    helpers.MaskAccountID(data.AccountID),
		AccountType:        data.AccountType,
		Currency:           data.Currency,
		ChartAccountID:     data.ChartAccountID,
		OpeningBalance:     data.OpeningBalance,
		OpeningBalanceDate: data.OpeningBalanceDate,
	}

	if err := models.DB.Create(&account).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusCreated, BankAccountResponse{Data: account})
}

// @Summary		List bank accounts
// @Description	Returns all bank accounts
// @Tags			BankAccounts
// @Produce		json
// @Success		200	{object}	BankAccountListResponse
// @Failure		500	{object}	httputil.HTTPError
// @Param			archived	query	bool	false	"Filter by archival state"
// @Router			/v1/bank-accounts [get]
func GetBankAccounts(c *gin.Context) {
	var filter struct {
		Archived *bool `form:"archived"`
	}
	if err := c.Bind(&filter); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	q := models.DB.Order("name ASC")
	if filter.Archived != nil {
		q = q.Where("archived = ?", *filter.Archived)
	}

	var accounts []models.BankAccount
	if err := q.Find(&accounts).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, BankAccountListResponse{Data: accounts})
}

// @Summary		Get bank account
// @Description	Returns a specific bank account
// @Tags			BankAccounts
// @Produce		json
// @Success		200	{object}	BankAccountResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the account"
// @Router			/v1/bank-accounts/{id} [get]
func GetBankAccount(c *gin.Context) {
	account, err := getBankAccountResource(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, BankAccountResponse{Data: account})
}

// @Summary		Update bank account
// @Description	Updates a bank account. Only values to be updated need to be specified. Accounts are archived, never deleted.
// @Tags			BankAccounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	BankAccountResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Param			id		path		string				true	"ID of the account"
// @Param			account	body		BankAccountEditable	true	"Bank account"
// @Router			/v1/bank-accounts/{id} [patch]
func UpdateBankAccount(c *gin.Context) {
	account, err := getBankAccountResource(c)
	if err != nil {
		return
	}

	var data BankAccountEditable
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := models.DB.Model(&account).Updates(data.updates()).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, BankAccountResponse{Data: account})
}

// getBankAccountResource verifies that the bank account from the URL
// parameters exists and returns it.
func getBankAccountResource(c *gin.Context) (models.BankAccount, error) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return models.BankAccount{}, err
	}

	var account models.BankAccount
	if err := models.DB.First(&account, "id = ?", id).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return models.BankAccount{}, err
	}

	return account, nil
}
