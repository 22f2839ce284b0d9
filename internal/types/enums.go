package types

// AccountType is the accounting type of a chart of accounts entry.
type AccountType string

const (
	AccountTypeAsset     AccountType = "ASSET"
	AccountTypeLiability AccountType = "LIABILITY"
	AccountTypeEquity    AccountType = "EQUITY"
	AccountTypeRevenue   AccountType = "REVENUE"
	AccountTypeExpense   AccountType = "EXPENSE"
)

// Valid reports whether the account type is one of the known types.
func (t AccountType) Valid() bool {
	switch t {
	case AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense:
		return true
	}
	return false
}

// DebitNormal reports whether balances of this account type grow with debits.
// Asset and expense accounts are debit-normal, all others are credit-normal.
func (t AccountType) DebitNormal() bool {
	return t == AccountTypeAsset || t == AccountTypeExpense
}

// Category is the classification of a bank transaction.
type Category string

const (
	CategoryRevenue       Category = "revenue"
	CategoryExpense       Category = "expense"
	CategoryTransfer      Category = "transfer"
	CategoryIgnore        Category = "ignore"
	CategoryUncategorized Category = "uncategorized"
	CategoryAdjustment    Category = "adjustment"
)

// Valid reports whether the category is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRevenue, CategoryExpense, CategoryTransfer, CategoryIgnore, CategoryUncategorized, CategoryAdjustment:
		return true
	}
	return false
}

// Postable reports whether transactions of this category result in journal
// entries. Transfers and ignored transactions never post to the ledger,
// uncategorized transactions are held back until a human categorizes them.
func (c Category) Postable() bool {
	switch c {
	case CategoryTransfer, CategoryIgnore, CategoryUncategorized:
		return false
	}
	return true
}

// Side is the side of a journal line.
type Side string

const (
	SideDebit  Side = "DEBIT"
	SideCredit Side = "CREDIT"
)

// Valid reports whether the side is debit or credit.
func (s Side) Valid() bool {
	return s == SideDebit || s == SideCredit
}

// MatchField selects which transaction fields a mapping rule inspects.
type MatchField string

const (
	MatchFieldName MatchField = "name"
	MatchFieldMemo MatchField = "memo"
	MatchFieldBoth MatchField = "both"
)

// Valid reports whether the match field is one of the known fields.
func (f MatchField) Valid() bool {
	switch f {
	case MatchFieldName, MatchFieldMemo, MatchFieldBoth:
		return true
	}
	return false
}

// MatchType is the comparison a mapping rule performs.
type MatchType string

const (
	MatchTypeContains MatchType = "contains"
	MatchTypeExact    MatchType = "exact"
	MatchTypePrefix   MatchType = "prefix"
	MatchTypeSuffix   MatchType = "suffix"
	MatchTypeGlob     MatchType = "glob"
)

// Valid reports whether the match type is one of the known types.
func (t MatchType) Valid() bool {
	switch t {
	case MatchTypeContains, MatchTypeExact, MatchTypePrefix, MatchTypeSuffix, MatchTypeGlob:
		return true
	}
	return false
}

// FlowType partitions transactions into money in and money out.
type FlowType string

const (
	FlowTypeInflow  FlowType = "inflow"
	FlowTypeOutflow FlowType = "outflow"
)
