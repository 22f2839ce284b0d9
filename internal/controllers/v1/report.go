package v1

import (
	"net/http"
	"time"

	"github.com/finbooks/backend/internal/httputil"
	"github.com/finbooks/backend/internal/ledger"
	"github.com/finbooks/backend/internal/models"
	"github.com/gin-gonic/gin"
)

type BalanceSheetResponse struct {
	Data ledger.BalanceSheet `json:"data"`
}

type CashFlowResponse struct {
	Data ledger.CashFlow `json:"data"`
}

type ProfitAndLossResponse struct {
	Data ledger.ProfitAndLoss `json:"data"`
}

// ReportPeriodQuery selects the reporting period. A zero month means the
// whole year.
type ReportPeriodQuery struct {
	Year  int `form:"year" example:"2024"`
	Month int `form:"month" example:"1"`
}

// RegisterReportRoutes registers the routes for reports with the
// RouterGroup that is passed.
func RegisterReportRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/balance-sheet", OptionsReport)
		r.GET("/balance-sheet", GetBalanceSheet)

		r.OPTIONS("/cash-flow", OptionsReport)
		r.GET("/cash-flow", GetCashFlow)

		r.OPTIONS("/profit-loss", OptionsReport)
		r.GET("/profit-loss", GetProfitAndLoss)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reports
// @Success		204
// @Router			/v1/reports/balance-sheet [options]
func OptionsReport(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Balance sheet
// @Description	Returns the balance sheet over the full journal. Zero-balance accounts are omitted from the breakdown but included in the totals.
// @Tags			Reports
// @Produce		json
// @Success		200	{object}	BalanceSheetResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/reports/balance-sheet [get]
func GetBalanceSheet(c *gin.Context) {
	book, err := models.LoadLedger(models.DB)
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, BalanceSheetResponse{Data: book.BalanceSheet()})
}

// @Summary		Cash flow
// @Description	Returns the cash flow for a year or a specific month. Inflow is money debited to asset accounts, outflow money credited from them.
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	CashFlowResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			year	query		int	true	"Year to report on"
// @Param			month	query		int	false	"Month to report on, the whole year when omitted"
// @Router			/v1/reports/cash-flow [get]
func GetCashFlow(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}

	book, err := models.LoadLedger(models.DB)
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, CashFlowResponse{
		Data: book.CashFlow(period.Year, time.Month(period.Month)),
	})
}

// @Summary		Profit and loss
// @Description	Returns revenue, expenses and the net result for a year or a specific month
// @Tags			Reports
// @Produce		json
// @Success		200		{object}	ProfitAndLossResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			year	query		int	true	"Year to report on"
// @Param			month	query		int	false	"Month to report on, the whole year when omitted"
// @Router			/v1/reports/profit-loss [get]
func GetProfitAndLoss(c *gin.Context) {
	period, ok := bindPeriod(c)
	if !ok {
		return
	}

	book, err := models.LoadLedger(models.DB)
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, ProfitAndLossResponse{
		Data: book.ProfitAndLoss(period.Year, time.Month(period.Month)),
	})
}

func bindPeriod(c *gin.Context) (ReportPeriodQuery, bool) {
	var period ReportPeriodQuery
	if err := c.Bind(&period); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return ReportPeriodQuery{}, false
	}

	if period.Year == 0 {
		httputil.NewError(c, http.StatusBadRequest, errYearNotSetInQuery)
		return ReportPeriodQuery{}, false
	}

	if period.Month < 0 || period.Month > 12 {
		httputil.NewError(c, http.StatusBadRequest, errMonthOutOfRange)
		return ReportPeriodQuery{}, false
	}

	return period, true
}
