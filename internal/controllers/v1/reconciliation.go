package v1

import (
	"net/http"
	"time"

	"github.com/finbooks/backend/internal/httputil"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/reconcile"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ReconciliationListResponse struct {
	Data []models.Reconciliation `json:"data"`
}

type ReconciliationRunResponse struct {
	Data ReconciliationRun `json:"data"`
}

// ReconciliationRun is the outcome of one reconciliation run: the persisted
// audit record, the discrepancy, and the adjustment transaction when one
// was created.
type ReconciliationRun struct {
	Record      models.Reconciliation   `json:"record"`
	Discrepancy decimal.Decimal         `json:"discrepancy" example:"0"`
	Adjustment  *models.BankTransaction `json:"adjustment"`
}

// ReconciliationCreate is the request body for a reconciliation run.
type ReconciliationCreate struct {
	BankAccountID    uuid.UUID       `json:"bankAccountId" example:"d99076b5-6fcb-4ba1-a7ff-69d63b74dfbc"`
	AsOf             time.Time       `json:"asOf" example:"2024-02-29T00:00:00Z"` // Date the actual balance was reported for
	ActualBalance    decimal.Decimal `json:"actualBalance" example:"1150.00"`     // Balance the bank reports
	CreateAdjustment bool            `json:"createAdjustment" example:"true"`     // Create a corrective transaction for a non-zero discrepancy
	Notes            string          `json:"notes,omitempty"`
}

type ReconciliationQueryFilter struct {
	BankAccountID string `form:"bankAccountId"`
}

// RegisterReconciliationRoutes registers the routes for reconciliations
// with the RouterGroup that is passed.
func RegisterReconciliationRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsReconciliationList)
		r.GET("", GetReconciliations)
		r.POST("", CreateReconciliation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Reconciliations
// @Success		204
// @Router			/v1/reconciliations [options]
func OptionsReconciliationList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		List reconciliations
// @Description	Returns all reconciliation records, newest first
// @Tags			Reconciliations
// @Produce		json
// @Success		200				{object}	ReconciliationListResponse
// @Failure		400				{object}	httputil.HTTPError
// @Failure		500				{object}	httputil.HTTPError
// @Param			bankAccountId	query		string	false	"Filter by bank account ID"
// @Router			/v1/reconciliations [get]
func GetReconciliations(c *gin.Context) {
	var filter ReconciliationQueryFilter
	if err := c.Bind(&filter); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	query := models.DB.Order("reconciled_date DESC, created_at DESC")

	if filter.BankAccountID != "" {
		id, err := uuid.Parse(filter.BankAccountID)
		if err != nil {
			httputil.NewError(c, http.StatusBadRequest, httputil.ErrInvalidUUID)
			return
		}
		query = query.Where("bank_account_id = ?", id)
	}

	var reconciliations []models.Reconciliation
	if err := query.Find(&reconciliations).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, ReconciliationListResponse{Data: reconciliations})
}

// @Summary		Reconcile a bank account
// @Description	Compares the reported balance against the balance derived from the opening balance and all transactions up to the as-of date. A non-zero discrepancy optionally creates a corrective transaction. The audit record is created in every case. Re-running for the same account and date never duplicates the adjustment.
// @Tags			Reconciliations
// @Accept			json
// @Produce		json
// @Success		201				{object}	ReconciliationRunResponse
// @Failure		400				{object}	httputil.HTTPError
// @Failure		404				{object}	httputil.HTTPError
// @Failure		500				{object}	httputil.HTTPError
// @Param			reconciliation	body		ReconciliationCreate	true	"Reconciliation run"
// @Router			/v1/reconciliations [post]
func CreateReconciliation(c *gin.Context) {
	var create ReconciliationCreate
	if err := httputil.BindData(c, &create); err != nil {
		return
	}

	if create.AsOf.IsZero() {
		httputil.NewError(c, http.StatusBadRequest, errAsOfNotSet)
		return
	}

	var account models.BankAccount
	if err := models.DB.First(&account, "id = ?", create.BankAccountID).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	if account.OpeningBalanceDate == nil {
		httputil.NewError(c, http.StatusBadRequest, errOpeningBalanceUnset)
		return
	}

	transactions, err := account.Transactions(models.DB)
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	forEngine := make([]reconcile.Transaction, 0, len(transactions))
	for _, t := range transactions {
		forEngine = append(forEngine, t.ForReconciliation())
	}

	result := reconcile.Reconcile(account.ForReconciliation(), forEngine, create.AsOf, create.ActualBalance, create.CreateAdjustment)
	if create.Notes != "" {
		result.Record.Notes = create.Notes
	}

	run := ReconciliationRun{Discrepancy: result.Discrepancy}

	tx := models.DB.Begin()

	if result.Adjustment != nil {
		adjustment := models.BankTransaction{
			DefaultModel:  models.DefaultModel{ID: result.Adjustment.ID},
			BankAccountID: account.ID,
			FitID:         result.Adjustment.FitID,
			Amount:        result.Adjustment.Amount,
			DatePosted:    result.Adjustment.DatePosted,
			Name:          result.Adjustment.Name,
			Category:      result.Adjustment.Category,
		}

		if err := tx.Create(&adjustment).Error; err != nil {
			tx.Rollback()
			httputil.NewError(c, status(err), err)
			return
		}

		run.Adjustment = &adjustment
	}

	record := models.RecordFromEngine(result.Record)
	if err := tx.Create(&record).Error; err != nil {
		tx.Rollback()
		httputil.NewError(c, status(err), err)
		return
	}

	if err := tx.Commit().Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	run.Record = record
	c.JSON(http.StatusCreated, ReconciliationRunResponse{Data: run})
}
