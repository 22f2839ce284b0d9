package v1

import (
	"net/http"
	"time"

	"github.com/finbooks/backend/internal/httputil"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionListResponse struct {
	Data []models.BankTransaction `json:"data"`
}

type TransactionResponse struct {
	Data models.BankTransaction `json:"data"`
}

type TransactionQueryFilter struct {
	BankAccountID     string `form:"bankAccount"`       // Filter by bank account ID
	Category          string `form:"category"`          // Filter by category
	FromDate          string `form:"fromDate"`          // Transactions posted on or after this date (YYYY-MM-DD)
	UntilDate         string `form:"untilDate"`         // Transactions posted on or before this date (YYYY-MM-DD)
	AmountMoreOrEqual string `form:"amountMoreOrEqual"` // Amount more than or equal to this
	AmountLessOrEqual string `form:"amountLessOrEqual"` // Amount less than or equal to this
	Ignored           *bool  `form:"ignored"`           // Filter by the ignored flag
}

// TransactionEditable are the re-categorization fields a PATCH may change.
// Everything else on a transaction is what the bank reported and stays
// untouched.
type TransactionEditable struct {
	Category        *types.Category `json:"category"`
	ChartAccountID  *uuid.UUID      `json:"chartAccountId"`
	RevenueSourceID *uuid.UUID      `json:"revenueSourceId"`
	Ignored         *bool           `json:"ignored"`
}

func (e TransactionEditable) updates() map[string]any {
	u := make(map[string]any)
	if e.Category != nil {
		u["category"] = *e.Category
	}
	if e.ChartAccountID != nil {
		u["chart_account_id"] = *e.ChartAccountID
	}
	if e.RevenueSourceID != nil {
		u["revenue_source_id"] = *e.RevenueSourceID
	}
	if e.Ignored != nil {
		u["ignored"] = *e.Ignored
	}
	return u
}

// RegisterTransactionRoutes registers the routes for transactions with the
// RouterGroup that is passed.
func RegisterTransactionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsTransactionList)
		r.GET("", GetTransactions)
	}

	{
		r.OPTIONS("/:id", OptionsTransactionDetail)
		r.GET("/:id", GetTransaction)
		r.PATCH("/:id", UpdateTransaction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Router			/v1/transactions [options]
func OptionsTransactionList(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transactions
// @Success		204
// @Param			id	path	string	true	"ID of the transaction"
// @Router			/v1/transactions/{id} [options]
func OptionsTransactionDetail(c *gin.Context) {
	httputil.OptionsGetPatch(c)
}

// @Summary		List transactions
// @Description	Returns transactions, newest first
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionListResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		500	{object}	httputil.HTTPError
// @Param			bankAccount			query	string	false	"Filter by bank account ID"
// @Param			category			query	string	false	"Filter by category"
// @Param			fromDate			query	string	false	"Transactions posted on or after this date (YYYY-MM-DD)"
// @Param			untilDate			query	string	false	"Transactions posted on or before this date (YYYY-MM-DD)"
// @Param			amountMoreOrEqual	query	string	false	"Amount more than or equal to this"
// @Param			amountLessOrEqual	query	string	false	"Amount less than or equal to this"
// @Param			ignored				query	bool	false	"Filter by the ignored flag"
// @Router			/v1/transactions [get]
func GetTransactions(c *gin.Context) {
	var filter TransactionQueryFilter
	if err := c.Bind(&filter); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	q := models.DB.Order("date_posted DESC")

	if filter.BankAccountID != "" {
		id, err := uuid.Parse(filter.BankAccountID)
		if err != nil {
			httputil.NewError(c, http.StatusBadRequest, httputil.ErrInvalidUUID)
			return
		}
		q = q.Where("bank_account_id = ?", id)
	}

	if filter.Category != "" {
		q = q.Where("category = ?", filter.Category)
	}

	if filter.FromDate != "" {
		from, err := time.Parse("2006-01-02", filter.FromDate)
		if err != nil {
			httputil.NewError(c, http.StatusBadRequest, err)
			return
		}
		q = q.Where("date_posted >= ?", from)
	}

	if filter.UntilDate != "" {
		until, err := time.Parse("2006-01-02", filter.UntilDate)
		if err != nil {
			httputil.NewError(c, http.StatusBadRequest, err)
			return
		}
		// The whole day counts
		q = q.Where("date_posted < ?", until.AddDate(0, 0, 1))
	}

	if filter.AmountMoreOrEqual != "" {
		amount, err := decimal.NewFromString(filter.AmountMoreOrEqual)
		if err != nil {
			httputil.NewError(c, http.StatusBadRequest, err)
			return
		}
		q = q.Where("amount >= ?", amount)
	}

	if filter.AmountLessOrEqual != "" {
		amount, err := decimal.NewFromString(filter.AmountLessOrEqual)
		if err != nil {
			httputil.NewError(c, http.StatusBadRequest, err)
			return
		}
		q = q.Where("amount <= ?", amount)
	}

	if filter.Ignored != nil {
		q = q.Where("ignored = ?", *filter.Ignored)
	}

	var transactions []models.BankTransaction
	if err := q.Find(&transactions).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, TransactionListResponse{Data: transactions})
}

// @Summary		Get transaction
// @Description	Returns a specific transaction
// @Tags			Transactions
// @Produce		json
// @Success		200	{object}	TransactionResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the transaction"
// @Router			/v1/transactions/{id} [get]
func GetTransaction(c *gin.Context) {
	transaction, err := getTransactionResource(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: transaction})
}

// @Summary		Re-categorize transaction
// @Description	Updates the categorization of a transaction. The bank-reported fields cannot be changed.
// @Tags			Transactions
// @Accept			json
// @Produce		json
// @Success		200			{object}	TransactionResponse
// @Failure		400			{object}	httputil.HTTPError
// @Failure		404			{object}	httputil.HTTPError
// @Param			id			path		string				true	"ID of the transaction"
// @Param			transaction	body		TransactionEditable	true	"Fields to update"
// @Router			/v1/transactions/{id} [patch]
func UpdateTransaction(c *gin.Context) {
	transaction, err := getTransactionResource(c)
	if err != nil {
		return
	}

	var data TransactionEditable
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := models.DB.Model(&transaction).Updates(data.updates()).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, TransactionResponse{Data: transaction})
}

// getTransactionResource verifies that the transaction from the URL
// parameters exists and returns it.
func getTransactionResource(c *gin.Context) (models.BankTransaction, error) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return models.BankTransaction{}, err
	}

	var transaction models.BankTransaction
	if err := models.DB.First(&transaction, "id = ?", id).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return models.BankTransaction{}, err
	}

	return transaction, nil
}
