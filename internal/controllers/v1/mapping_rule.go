package v1

import (
	"net/http"

	"github.com/finbooks/backend/internal/httputil"
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/rules"
	"github.com/finbooks/backend/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MappingRuleListResponse struct {
	Data []models.MappingRule `json:"data"`
}

type MappingRuleResponse struct {
	Data models.MappingRule `json:"data"`
}

// RuleTestRequest is a batch of sample transactions to run the active rule
// set against.
type RuleTestRequest struct {
	Transactions []rules.Transaction `json:"transactions"`
}

type RuleTestResponse struct {
	Data rules.Result `json:"data"`
}

// MappingRuleEditable are the fields a PATCH may change.
type MappingRuleEditable struct {
	Pattern         *string           `json:"pattern"`
	MatchField      *types.MatchField `json:"matchField"`
	MatchType       *types.MatchType  `json:"matchType"`
	Category        *types.Category   `json:"category"`
	ChartAccountID  *uuid.UUID        `json:"chartAccountId"`
	SubcategoryName *string           `json:"subcategoryName"`
	RevenueSourceID *uuid.UUID        `json:"revenueSourceId"`
	Priority        *int              `json:"priority"`
	Active          *bool             `json:"active"`
}

func (e MappingRuleEditable) updates() map[string]any {
	u := make(map[string]any)
	if e.Pattern != nil {
		u["pattern"] = *e.Pattern
	}
	if e.MatchField != nil {
		u["match_field"] = *e.MatchField
	}
	if e.MatchType != nil {
		u["match_type"] = *e.MatchType
	}
	if e.Category != nil {
		u["category"] = *e.Category
	}
	if e.ChartAccountID != nil {
		u["chart_account_id"] = *e.ChartAccountID
	}
	if e.SubcategoryName != nil {
		u["subcategory_name"] = *e.SubcategoryName
	}
	if e.RevenueSourceID != nil {
		u["revenue_source_id"] = *e.RevenueSourceID
	}
	if e.Priority != nil {
		u["priority"] = *e.Priority
	}
	if e.Active != nil {
		u["active"] = *e.Active
	}
	return u
}

// RegisterMappingRuleRoutes registers the routes for mapping rules with the
// RouterGroup that is passed.
func RegisterMappingRuleRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsMappingRuleList)
		r.GET("", GetMappingRules)
		r.POST("", CreateMappingRule)
	}

	{
		r.OPTIONS("/test", OptionsMappingRuleTest)
		r.POST("/test", TestMappingRules)
	}

	{
		r.OPTIONS("/:id", OptionsMappingRuleDetail)
		r.GET("/:id", GetMappingRule)
		r.PATCH("/:id", UpdateMappingRule)
		r.DELETE("/:id", DeleteMappingRule)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MappingRules
// @Success		204
// @Router			/v1/mapping-rules [options]
func OptionsMappingRuleList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MappingRules
// @Success		204
// @Router			/v1/mapping-rules/test [options]
func OptionsMappingRuleTest(c *gin.Context) {
	httputil.OptionsPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			MappingRules
// @Success		204
// @Param			id	path	string	true	"ID of the rule"
// @Router			/v1/mapping-rules/{id} [options]
func OptionsMappingRuleDetail(c *gin.Context) {
	httputil.OptionsGetPatchDelete(c)
}

// @Summary		Create mapping rule
// @Description	Creates a new mapping rule
// @Tags			MappingRules
// @Produce		json
// @Success		201		{object}	MappingRuleResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		500		{object}	httputil.HTTPError
// @Param			rule	body		models.MappingRule	true	"Rule"
// @Router			/v1/mapping-rules [post]
func CreateMappingRule(c *gin.Context) {
	var data models.MappingRule

	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := models.DB.Create(&data).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusCreated, MappingRuleResponse{Data: data})
}

// @Summary		List mapping rules
// @Description	Returns all mapping rules in evaluation order
// @Tags			MappingRules
// @Produce		json
// @Success		200	{object}	MappingRuleListResponse
// @Failure		500	{object}	httputil.HTTPError
// @Router			/v1/mapping-rules [get]
func GetMappingRules(c *gin.Context) {
	var ruleList []models.MappingRule
	err := models.DB.Order("priority DESC, created_at ASC").Find(&ruleList).Error
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, MappingRuleListResponse{Data: ruleList})
}

// @Summary		Test mapping rules
// @Description	Runs the rule set against sample transactions and returns the assignments and match statistics without changing anything
// @Tags			MappingRules
// @Accept			json
// @Produce		json
// @Success		200				{object}	RuleTestResponse
// @Failure		400				{object}	httputil.HTTPError
// @Failure		500				{object}	httputil.HTTPError
// @Param			transactions	body		RuleTestRequest	true	"Sample transactions"
// @Router			/v1/mapping-rules/test [post]
func TestMappingRules(c *gin.Context) {
	var request RuleTestRequest
	if err := httputil.BindData(c, &request); err != nil {
		return
	}

	ruleset, err := models.EngineRules(models.DB)
	if err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, RuleTestResponse{Data: rules.Apply(request.Transactions, ruleset)})
}

// @Summary		Get mapping rule
// @Description	Returns a specific mapping rule
// @Tags			MappingRules
// @Produce		json
// @Success		200	{object}	MappingRuleResponse
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the rule"
// @Router			/v1/mapping-rules/{id} [get]
func GetMappingRule(c *gin.Context) {
	rule, err := getMappingRuleResource(c)
	if err != nil {
		return
	}

	c.JSON(http.StatusOK, MappingRuleResponse{Data: rule})
}

// @Summary		Update mapping rule
// @Description	Updates a mapping rule. Only values to be updated need to be specified.
// @Tags			MappingRules
// @Accept			json
// @Produce		json
// @Success		200		{object}	MappingRuleResponse
// @Failure		400		{object}	httputil.HTTPError
// @Failure		404		{object}	httputil.HTTPError
// @Param			id		path		string				true	"ID of the rule"
// @Param			rule	body		MappingRuleEditable	true	"Rule"
// @Router			/v1/mapping-rules/{id} [patch]
func UpdateMappingRule(c *gin.Context) {
	rule, err := getMappingRuleResource(c)
	if err != nil {
		return
	}

	var data MappingRuleEditable
	if err := httputil.BindData(c, &data); err != nil {
		return
	}

	if err := models.DB.Model(&rule).Updates(data.updates()).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusOK, MappingRuleResponse{Data: rule})
}

// @Summary		Delete mapping rule
// @Description	Deletes a mapping rule. Existing transaction categorizations are kept.
// @Tags			MappingRules
// @Success		204
// @Failure		400	{object}	httputil.HTTPError
// @Failure		404	{object}	httputil.HTTPError
// @Param			id	path	string	true	"ID of the rule"
// @Router			/v1/mapping-rules/{id} [delete]
func DeleteMappingRule(c *gin.Context) {
	rule, err := getMappingRuleResource(c)
	if err != nil {
		return
	}

	if err := models.DB.Delete(&rule).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return
	}

	c.JSON(http.StatusNoContent, gin.H{})
}

// getMappingRuleResource verifies that the rule from the URL parameters
// exists and returns it.
func getMappingRuleResource(c *gin.Context) (models.MappingRule, error) {
	id, err := httputil.ParseID(c, "id")
	if err != nil {
		return models.MappingRule{}, err
	}

	var rule models.MappingRule
	if err := models.DB.First(&rule, "id = ?", id).Error; err != nil {
		httputil.NewError(c, status(err), err)
		return models.MappingRule{}, err
	}

	return rule, nil
}
