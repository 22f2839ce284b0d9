package ledger

import (
	"time"

	"github.com/finbooks/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountBalance is the signed balance of one chart account.
type AccountBalance struct {
	Account Account         `json:"account"`
	Balance decimal.Decimal `json:"balance" example:"625.00"`
}

// BalanceSheetGroup groups accounts under their parent for display.
// Accounts without a parent form their own group.
type BalanceSheetGroup struct {
	Name     string           `json:"name" example:"Office"`
	Accounts []AccountBalance `json:"accounts"`
	Total    decimal.Decimal  `json:"total" example:"100.00"`
}

// BalanceSheet is the result of the balance sheet query.
type BalanceSheet struct {
	Assets      decimal.Decimal     `json:"assets" example:"700.00"`
	Liabilities decimal.Decimal     `json:"liabilities" example:"75.00"`
	Equity      decimal.Decimal     `json:"equity" example:"625.00"`
	Groups      []BalanceSheetGroup `json:"groups"`
}

// CashFlow is the result of the cash flow query for a period.
type CashFlow struct {
	Year        int             `json:"year" example:"2024"`
	Month       time.Month      `json:"month" example:"1"`
	Inflows     decimal.Decimal `json:"inflows" example:"200.00"`
	Outflows    decimal.Decimal `json:"outflows" example:"50.00"`
	NetCashFlow decimal.Decimal `json:"netCashFlow" example:"150.00"`
}

// ProfitAndLoss is the result of the profit and loss query for a period.
type ProfitAndLoss struct {
	Year     int             `json:"year" example:"2024"`
	Month    time.Month      `json:"month" example:"1"`
	Revenue  decimal.Decimal `json:"revenue" example:"200.00"`
	Expenses decimal.Decimal `json:"expenses" example:"50.00"`
	Net      decimal.Decimal `json:"net" example:"150.00"`
}

// balance returns the signed balance of an account, following the standard
// accounting sign convention: debits minus credits for debit-normal account
// types, the negated sum for credit-normal types.
//
// When filter is non-nil, only lines of entries it accepts are summed.
func (l *Ledger) balance(a Account, filter func(Entry) bool) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range l.entries {
		if filter != nil && !filter(e) {
			continue
		}

		for _, line := range e.Lines {
			if line.AccountID != a.ID {
				continue
			}

			if line.Side == types.SideDebit {
				sum = sum.Add(line.Amount)
			} else {
				sum = sum.Sub(line.Amount)
			}
		}
	}

	if !a.Type.DebitNormal() {
		return sum.Neg()
	}

	return sum
}

// inPeriod returns an entry filter for a year and optional month. A zero
// month selects the whole year.
func inPeriod(year int, month time.Month) func(Entry) bool {
	return func(e Entry) bool {
		if e.Date.Year() != year {
			return false
		}
		return month == 0 || e.Date.Month() == month
	}
}

// BalanceSheet computes the balance sheet over the full ledger state.
//
// Zero-balance accounts are omitted from the group breakdown, but their
// balances still count towards the totals. The additivity
// assets - liabilities == equity holds exactly.
func (l *Ledger) BalanceSheet() BalanceSheet {
	result := BalanceSheet{
		Assets:      decimal.Zero,
		Liabilities: decimal.Zero,
	}

	// Group key is the parent ID for child accounts, the account's own ID
	// otherwise. Iterate in chart order so the output is stable.
	groups := make(map[uuid.UUID]*BalanceSheetGroup)
	var groupOrder []uuid.UUID

	for _, id := range l.order {
		a := l.accounts[id]
		if !a.Active {
			continue
		}

		balance := l.balance(a, nil)

		switch a.Type {
		case types.AccountTypeAsset:
			result.Assets = result.Assets.Add(balance)
		case types.AccountTypeLiability:
			result.Liabilities = result.Liabilities.Add(balance)
		}

		if balance.IsZero() {
			continue
		}

		key := a.ID
		name := a.Name
		if a.ParentID != nil {
			key = *a.ParentID
			if parent, ok := l.accounts[key]; ok {
				name = parent.Name
			}
		}

		group, ok := groups[key]
		if !ok {
			group = &BalanceSheetGroup{Name: name, Total: decimal.Zero}
			groups[key] = group
			groupOrder = append(groupOrder, key)
		}

		group.Accounts = append(group.Accounts, AccountBalance{Account: a, Balance: balance})
		group.Total = group.Total.Add(balance)
	}

	for _, key := range groupOrder {
		result.Groups = append(result.Groups, *groups[key])
	}

	result.Equity = result.Assets.Sub(result.Liabilities)
	return result
}

// CashFlow partitions journal lines touching asset accounts into inflows
// (debits to cash) and outflows (credits from cash) for the given year and
// optional month. A zero month selects the whole year.
func (l *Ledger) CashFlow(year int, month time.Month) CashFlow {
	result := CashFlow{
		Year:     year,
		Month:    month,
		Inflows:  decimal.Zero,
		Outflows: decimal.Zero,
	}

	filter := inPeriod(year, month)
	for _, e := range l.entries {
		if !filter(e) {
			continue
		}

		for _, line := range e.Lines {
			a, ok := l.accounts[line.AccountID]
			if !ok || a.Type != types.AccountTypeAsset {
				continue
			}

			if line.Side == types.SideDebit {
				result.Inflows = result.Inflows.Add(line.Amount)
			} else {
				result.Outflows = result.Outflows.Add(line.Amount)
			}
		}
	}

	result.NetCashFlow = result.Inflows.Sub(result.Outflows)
	return result
}

// ProfitAndLoss sums the balances of revenue and expense accounts for the
// given year and optional month. A zero month selects the whole year.
func (l *Ledger) ProfitAndLoss(year int, month time.Month) ProfitAndLoss {
	result := ProfitAndLoss{
		Year:     year,
		Month:    month,
		Revenue:  decimal.Zero,
		Expenses: decimal.Zero,
	}

	filter := inPeriod(year, month)
	for _, id := range l.order {
		a := l.accounts[id]
		if !a.Active {
			continue
		}

		switch a.Type {
		case types.AccountTypeRevenue:
			result.Revenue = result.Revenue.Add(l.balance(a, filter))
		case types.AccountTypeExpense:
			result.Expenses = result.Expenses.Add(l.balance(a, filter))
		}
	}

	result.Net = result.Revenue.Sub(result.Expenses)
	return result
}
