package v1

import (
	"errors"
	"net/http"

	"github.com/finbooks/backend/internal/models"
)

// status returns the appropriate status for a database error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

// Import errors
var (
	errNoFilePost      = errors.New("you must send a file to this endpoint")
	errWrongFileSuffix = errors.New("this endpoint only supports files of the following types")
	errStatementParse  = errors.New("the statement could not be parsed")
)

// Report errors
var (
	errYearNotSetInQuery = errors.New("the year query parameter must be set")
	errMonthOutOfRange   = errors.New("the month query parameter must be between 1 and 12")
)

// Forecast errors
var (
	errForecastNoRevenue = errors.New("there are no revenue transactions to forecast from")
)

// Reconciliation errors
var (
	errAsOfNotSet          = errors.New("the asOf date must be set")
	errOpeningBalanceUnset = errors.New("the bank account has no opening balance date, set it before reconciling")
)
