package models

import (
	"strings"

	"github.com/finbooks/backend/internal/rules"
	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MappingRule assigns a category and target chart account to transactions
// whose name or memo matches the pattern. Rules are evaluated in descending
// priority, the first match wins.
type MappingRule struct {
	DefaultModel
	Pattern         string           `json:"pattern" example:"AMAZON*"`   // Pattern to match against
	MatchField      types.MatchField `json:"matchField" example:"name"`   // Which transaction field to match
	MatchType       types.MatchType  `json:"matchType" example:"glob"`    // How to match the pattern
	Category        types.Category   `json:"category" example:"expense"`  // Category assigned on match
	ChartAccountID  *uuid.UUID       `json:"chartAccountId"`              // Target account for posting
	ChartAccount    *ChartAccount    `json:"-"`
	SubcategoryName string           `json:"subcategoryName,omitempty" example:"Office"`
	RevenueSourceID *uuid.UUID       `json:"revenueSourceId"` // Only meaningful for revenue rules
	RevenueSource   *RevenueSource   `json:"-"`
	Priority        int              `json:"priority" example:"10"` // Higher priority rules are checked first
	Active          bool             `json:"active" example:"true"`
}

// BeforeSave trims whitespace and verifies that postable categories carry a
// target chart account.
func (r *MappingRule) BeforeSave(_ *gorm.DB) error {
	r.Pattern = strings.TrimSpace(r.Pattern)
	r.SubcategoryName = strings.TrimSpace(r.SubcategoryName)

	if r.MatchField == "" {
		r.MatchField = types.MatchFieldName
	}
	if r.MatchType == "" {
		r.MatchType = types.MatchTypeContains
	}

	if (r.Category == types.CategoryRevenue || r.Category == types.CategoryExpense) && r.ChartAccountID == nil {
		return ErrRuleChartAccountMissing
	}

	return nil
}

// ForEngine converts the rule for the rule engine.
func (r MappingRule) ForEngine() rules.Rule {
	return rules.Rule{
		ID:              r.ID,
		Pattern:         r.Pattern,
		MatchField:      r.MatchField,
		MatchType:       r.MatchType,
		Category:        r.Category,
		ChartAccountID:  r.ChartAccountID,
		SubcategoryName: r.SubcategoryName,
		RevenueSourceID: r.RevenueSourceID,
		Priority:        r.Priority,
		Active:          r.Active,
	}
}

// EngineRules returns all rules for the engine, including inactive ones.
// The engine filters on Active itself so that rule test previews can report
// on rules that are switched off. Rules with equal priority tie-break by
// creation order, the engine's stable sort keeps that order.
func EngineRules(db *gorm.DB) ([]rules.Rule, error) {
	var stored []MappingRule
	if err := db.Order("priority DESC, created_at ASC").Find(&stored).Error; err != nil {
		return nil, err
	}

	converted := make([]rules.Rule, 0, len(stored))
	for _, r := range stored {
		converted = append(converted, r.ForEngine())
	}

	return converted, nil
}
