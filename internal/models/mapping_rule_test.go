package models_test

import (
	"github.com/finbooks/backend/internal/models"
	"github.com/finbooks/backend/internal/types"
)

func (suite *TestSuiteStandard) TestMappingRuleDefaults() {
	rule := suite.createTestMappingRule(models.MappingRule{
		Pattern:  "  AMAZON*  ",
		Category: types.CategoryIgnore,
		Active:   true,
	})

	suite.Assert().Equal("AMAZON*", rule.Pattern)
	suite.Assert().Equal(types.MatchFieldName, rule.MatchField)
	suite.Assert().Equal(types.MatchTypeContains, rule.MatchType)
}

func (suite *TestSuiteStandard) TestMappingRuleChartAccountRequired() {
	for _, category := range []types.Category{types.CategoryRevenue, types.CategoryExpense} {
		err := models.DB.Create(&models.MappingRule{
			Pattern:  "ACME",
			Category: category,
			Active:   true,
		}).Error
		suite.Assert().ErrorIs(err, models.ErrRuleChartAccountMissing, "category %s", category)
	}

	// Transfer and ignore rules do not post, no chart account needed
	for _, category := range []types.Category{types.CategoryTransfer, types.CategoryIgnore} {
		_ = suite.createTestMappingRule(models.MappingRule{
			Pattern:  "ACME",
			Category: category,
			Active:   true,
		})
	}
}

func (suite *TestSuiteStandard) TestMappingRuleForEngine() {
	account := suite.createTestChartAccount(models.ChartAccount{Code: "5000", Name: "Office", Type: types.AccountTypeExpense})

	rule := suite.createTestMappingRule(models.MappingRule{
		Pattern:        "STAPLES",
		MatchField:     types.MatchFieldBoth,
		MatchType:      types.MatchTypePrefix,
		Category:       types.CategoryExpense,
		ChartAccountID: &account.ID,
		Priority:       10,
		Active:         true,
	})

	converted := rule.ForEngine()
	suite.Assert().Equal(rule.ID, converted.ID)
	suite.Assert().Equal(types.MatchFieldBoth, converted.MatchField)
	suite.Assert().Equal(account.ID, *converted.ChartAccountID)
	suite.Assert().Equal(10, converted.Priority)
}

func (suite *TestSuiteStandard) TestEngineRules() {
	account := suite.createTestChartAccount(models.ChartAccount{Code: "5000", Name: "Office", Type: types.AccountTypeExpense})

	_ = suite.createTestMappingRule(models.MappingRule{Pattern: "A", Category: types.CategoryExpense, ChartAccountID: &account.ID, Active: true})
	_ = suite.createTestMappingRule(models.MappingRule{Pattern: "B", Category: types.CategoryExpense, ChartAccountID: &account.ID, Active: false})

	rules, err := models.EngineRules(models.DB)
	suite.Require().NoError(err)

	// Inactive rules are included, the engine filters on Active itself
	suite.Assert().Len(rules, 2)
}

func (suite *TestSuiteStandard) TestEngineRulesOrder() {
	account := suite.createTestChartAccount(models.ChartAccount{Code: "5000", Name: "Office", Type: types.AccountTypeExpense})

	low := suite.createTestMappingRule(models.MappingRule{Pattern: "C", Category: types.CategoryExpense, ChartAccountID: &account.ID, Priority: 1, Active: true})
	first := suite.createTestMappingRule(models.MappingRule{Pattern: "A", Category: types.CategoryExpense, ChartAccountID: &account.ID, Priority: 10, Active: true})
	second := suite.createTestMappingRule(models.MappingRule{Pattern: "B", Category: types.CategoryExpense, ChartAccountID: &account.ID, Priority: 10, Active: true})

	rules, err := models.EngineRules(models.DB)
	suite.Require().NoError(err)
	suite.Require().Len(rules, 3)

	// Descending priority, equal priorities in creation order
	suite.Assert().Equal(first.ID, rules[0].ID)
	suite.Assert().Equal(second.ID, rules[1].ID)
	suite.Assert().Equal(low.ID, rules[2].ID)
}
