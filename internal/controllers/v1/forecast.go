package v1

import (
	"net/http"

	"github.com/finbooks/backend/internal/forecast"
	"github.com/finbooks/backend/internal/httputil"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ForecastResponse struct {
	Data forecast.Result `json:"data"`
}

// ForecastQuery selects the forecast horizon and method. Periods defaults
// to 3, the method to simple.
type ForecastQuery struct {
	Periods         int    `form:"periods"`
	Method          string `form:"method"`
	RevenueSourceID string `form:"revenueSourceId"`
}

// RegisterForecastRoutes registers the routes for forecasts with the
// RouterGroup that is passed.
func RegisterForecastRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("/revenue", OptionsForecastRevenue)
		r.GET("/revenue", GetRevenueForecast)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Forecast
// @Success		204
// @Router			/v1/forecast/revenue [options]
func OptionsForecastRevenue(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Revenue forecast
// @Description	Projects future monthly revenue from the historical revenue transactions, optionally restricted to one revenue source
// @Tags			Forecast
// @Produce		json
// @Success		200				{object}	ForecastResponse
// @Failure		400				{object}	httputil.HTTPError
// @Failure		500				{object}	httputil.HTTPError
// @Param			periods			query		int		false	"Number of months to project, defaults to 3"
// @Param			method			query		string	false	"Forecast method: simple, weighted, exponential or linear. Defaults to simple"
// @Param			revenueSourceId	query		string	false	"Restrict the series to one revenue source"
// @Router			/v1/forecast/revenue [get]
func GetRevenueForecast(c *gin.Context) {
	var query ForecastQuery
	if err := c.Bind(&query); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	if query.Periods == 0 {
		query.Periods = 3
	}

	method := forecast.Method(query.Method)
	if query.Method == "" {
		method = forecast.MethodSimple
	}

	var revenueSourceID *uuid.UUID
	if query.RevenueSourceID != "" {
		id, err := uuid.Parse(query.RevenueSourceID)
		if err != nil {
			httputil.NewError(c, http.StatusBadRequest, httputil.ErrInvalidUUID)
			return
		}
		revenueSourceID = &id
	}

	totals, err := models.MonthlyRevenue(models.DB, revenueSourceID)
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	if len(totals) == 0 {
		httputil.NewError(c, http.StatusBadRequest, errForecastNoRevenue)
		return
	}

	series := make([]forecast.Point, 0, len(totals))
	for _, t := range totals {
		period, err := types.ParseMonth(t.Period)
		if err != nil {
			httputil.NewError(c, http.StatusInternalServerError, err)
			return
		}

		series = append(series, forecast.Point{Period: period, Total: t.Total})
	}

	result, err := forecast.Forecast(series, query.Periods, method)
	if err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	c.JSON(http.StatusOK, ForecastResponse{Data: result})
}
