// Package rules implements the categorization rule engine. It assigns an
// accounting category and a target chart account to raw bank transactions
// by applying an ordered, prioritized set of pattern rules.
//
// The engine is a pure function over its inputs, it never reads or mutates
// ledger state.
package rules

import (
	"fmt"
	"strings"

	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// Transaction is the subset of a raw bank transaction the engine inspects.
type Transaction struct {
	FitID string `json:"fitId" example:"TXN-2024-001"`
	Name  string `json:"name" example:"STAPLES OFFICE SUPPLIES"`
	Memo  string `json:"memo,omitempty"`
}

// Rule is a single pattern-to-category mapping rule.
type Rule struct {
	ID              uuid.UUID
	Pattern         string
	MatchField      types.MatchField
	MatchType       types.MatchType
	Category        types.Category
	ChartAccountID  *uuid.UUID
	SubcategoryName string
	RevenueSourceID *uuid.UUID
	Priority        int
	Active          bool
}

// Assignment is the categorization result for one transaction.
type Assignment struct {
	Category        types.Category `json:"category" example:"expense"`
	ChartAccountID  *uuid.UUID     `json:"chartAccountId"`
	SubcategoryName string         `json:"subcategoryName,omitempty" example:"Office"`
	RevenueSourceID *uuid.UUID     `json:"revenueSourceId"`
	RuleID          *uuid.UUID     `json:"ruleId"`
}

// Result is the outcome of applying a rule set to a batch of transactions.
// It carries the per-rule hit counts and matched/unmatched totals so that a
// human operator can judge rule quality before committing an import.
type Result struct {
	Assignments map[string]Assignment `json:"assignments"`
	RuleHits    map[uuid.UUID]int     `json:"ruleHits"`
	Matched     int                   `json:"matched" example:"40"`
	Unmatched   int                   `json:"unmatched" example:"2"`
	Warnings    []string              `json:"warnings"`
}

// Apply scans the rules in descending priority order for every transaction.
// The first matching rule determines the assignment. Transactions no rule
// matches are assigned the uncategorized category and flagged in the
// warning list, they are never silently dropped.
func Apply(transactions []Transaction, ruleset []Rule) Result {
	result := Result{
		Assignments: make(map[string]Assignment, len(transactions)),
		RuleHits:    make(map[uuid.UUID]int),
	}

	// Evaluation order is by descending priority. The sort is stable so
	// that rules with equal priority keep their given order.
	active := make([]Rule, 0, len(ruleset))
	for _, r := range ruleset {
		if r.Active {
			active = append(active, r)
		}
	}
	slices.SortStableFunc(active, func(a, b Rule) int {
		return b.Priority - a.Priority
	})

	for _, t := range transactions {
		rule, ok := match(t, active)
		if !ok {
			result.Assignments[t.FitID] = Assignment{Category: types.CategoryUncategorized}
			result.Unmatched++
			result.Warnings = append(result.Warnings, fmt.Sprintf("no rule matches transaction %q (%s)", t.Name, t.FitID))
			continue
		}

		result.Assignments[t.FitID] = assignment(rule)
		result.RuleHits[rule.ID]++
		result.Matched++
	}

	return result
}

// match returns the first rule that matches the transaction.
func match(t Transaction, active []Rule) (Rule, bool) {
	for _, r := range active {
		if matchesField(r, t) {
			return r, true
		}
	}
	return Rule{}, false
}

// assignment builds the assignment a matching rule produces. Transfers and
// ignored transactions never post to the ledger, so chart account
// resolution is short-circuited for them. Revenue sources are only relevant
// for revenue.
func assignment(r Rule) Assignment {
	ruleID := r.ID
	a := Assignment{
		Category: r.Category,
		RuleID:   &ruleID,
	}

	switch r.Category {
	case types.CategoryTransfer, types.CategoryIgnore:
		return a
	}

	a.ChartAccountID = r.ChartAccountID
	a.SubcategoryName = r.SubcategoryName

	if r.Category == types.CategoryRevenue {
		a.RevenueSourceID = r.RevenueSourceID
	}

	return a
}

func matchesField(r Rule, t Transaction) bool {
	switch r.MatchField {
	case types.MatchFieldName:
		return matches(r, t.Name)
	case types.MatchFieldMemo:
		return matches(r, t.Memo)
	default:
		return matches(r, t.Name) || matches(r, t.Memo)
	}
}

// matches performs the comparison for a single field value. All match
// types are case-insensitive.
func matches(r Rule, value string) bool {
	pattern := strings.ToLower(r.Pattern)
	value = strings.ToLower(value)

	switch r.MatchType {
	case types.MatchTypeExact:
		return value == pattern
	case types.MatchTypePrefix:
		return strings.HasPrefix(value, pattern)
	case types.MatchTypeSuffix:
		return strings.HasSuffix(value, pattern)
	case types.MatchTypeGlob:
		return glob.Glob(pattern, value)
	default:
		return strings.Contains(value, pattern)
	}
}
