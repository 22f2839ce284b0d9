package v1

import (
	"net/http"

	"github.com/finbooks/backend/internal/httputil"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChartAccountListResponse struct {
	Data []models.ChartAccount `json:"data"`
}

type ChartAccountResponse struct {
	Data models.ChartAccount `json:"data"`
}

type ChartAccountQueryFilter struct {
	Type   string `form:"type"`   // Filter by accounting type
	Active *bool  `form:"active"` // Filter by active state
}

// ChartAccountEditable are the fields a PATCH may change. Pointers
// distinguish "unset" from zero values so that Active can be switched off.
type ChartAccountEditable struct {
	Code        *string            `json:"code"`
	Name        *string            `json:"name"`
	Type        *types.AccountType `json:"type"`
	ParentID    *uuid.UUID         `json:"parentId"`
	Active      *bool              `json:"active"`
	Description *string            `json:"description"`
}

func (e ChartAccountEditable) updates() map[string]any {
	u := make(map[string]any)
	if e.Code != nil {
		u["code"] = *e.Code
	}
	if e.Name != nil {
		u["name"] = *e.Name
	}
	if e.Type != nil {
		u["type"] = *e.Type
	}
	if e.ParentID != nil {
		u["parent_id"] = *e.ParentID
	}
	if e.Active != nil {
		u["active"] = *e.Active
	}
	if e.Description != nil {
		u["description"] = *e.Description
	}
	return u
}

// RegisterChartAccountRoutes registers the routes for the chart of accounts
// with the RouterGroup that is passed.
func RegisterChartAccountRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsChartAccountList)
		r.GET("", GetChartAccounts)
		r.POST("", CreateChartAccount)
	}

	{
		r.OPTIONS("/:id", OptionsChartAccountDetail)
		r.GET("/:id", GetChartAccount)
		r.PATCH("/:id", UpdateChartAccount)
		r.DELETE("/:id", DeleteChartAccount)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ChartAccounts
// @Success		204
// @Router			/v1/chart-accounts [options]
func OptionsChartAccountList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			ChartAccounts
// @Success		204
// @Param			id	path	string	true	"ID of the account"
// @Router			/v1/chart-accounts/{id} [options]
func OptionsChartAccountDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create account
// @Description	Creates a new entry in the chart of accounts
// @Tags			ChartAccounts
// @Produce		json
// @Success		201		{object}	ChartAccountResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			account	body		models.ChartAccount	true	"Account"
// @Router			/v1/chart-accounts [post]
func CreateChartAccount(c *gin.Context) {
	var data models.ChartAccount

	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := models.DB.Create(&data).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusCreated, ChartAccountResponse{Data: data})
}

// @Summary		List accounts
// @Description	Returns the chart of accounts
// @Tags			ChartAccounts
// @Produce		json
// @Success		200	{object}	ChartAccountListResponse
// @Failure		500	{object}	httputil.HTTPError
// @Param			type	query	string	false	"Filter by accounting type"
// @Param			active	query	bool	false	"Filter by active state"
// @Router			/v1/chart-accounts [get]
func GetChartAccounts(c *gin.Context) {
	var filter ChartAccountQueryFilter
	if err := c.Bind(&filter); err != nil {
		httputil.NewError(c, http.StatusBadRequest, err)
		return
	}

	q := models.DB.Order("code ASC")
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Active != nil {
		q = q.Where("active = ?", *filter.Active)
	}

	var accounts []models.ChartAccount
	if err := q.Find(&accounts).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, ChartAccountListResponse{Data: accounts})
}

// @Summary		Get account
// @Description	Returns a specific entry of the chart of accounts
// @Tags			ChartAccounts
// @Produce		json
// @Success		200	{object}	ChartAccountResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the account"
// @Router			/v1/chart-accounts/{id} [get]
func GetChartAccount(c *gin.Context) {
	account, err := getChartAccountResource(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, ChartAccountResponse{Data: account})
}

// @Summary		Update account
// @Description	Updates an account. Only values to be updated need to be specified.
// @Tags			ChartAccounts
// @Accept			json
// @Produce		json
// @Success		200		{object}	ChartAccountResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Param			id		path		string				true	"ID of the account"
// @Param			account	body		models.ChartAccount	true	"Account"
// @Router			/v1/chart-accounts/{id} [patch]
func UpdateChartAccount(c *gin.Context) {
	account, err := getChartAccountResource(c)
	if err != nil {
		return
	}

	var data ChartAccountEditable
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := models.DB.Model(&account).Updates(data.updates()).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, ChartAccountResponse{Data: account})
}

// @Summary		Delete account
// @Description	Deletes an account. Accounts referenced by transactions or journal lines cannot be deleted, only deactivated.
// @Tags			ChartAccounts
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the account"
// @Router			/v1/chart-accounts/{id} [delete]
func DeleteChartAccount(c *gin.Context) {
	account, err := getChartAccountResource(c)
	if err != nil {
		return
	}

	if err := models.DB.Delete(&account).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusNoContent, gin.H{})
}

// getChartAccountResource verifies that the account from the URL parameters
// exists and returns it.
func getChartAccountResource(c *gin.Context) (models.ChartAccount, error) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return models.ChartAccount{}, err
	}

	var account models.ChartAccount
	if err := models.DB.First(&account, "id = ?", id).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return models.ChartAccount{}, err
	}

	return account, nil
}
