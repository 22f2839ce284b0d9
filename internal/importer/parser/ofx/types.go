package ofx

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is the account header of a statement.
type Account struct {
	BankID      string
	AccountID   string
	AccountType string
	Currency    string
}

// Liability reports whether the account is a liability from the bank's
// point of view, i.e. a credit card or a credit line.
func (a Account) Liability() bool {
	return a.AccountType == AccountTypeCreditCard || a.AccountType == AccountTypeCreditLine
}

// Transaction is one raw statement transaction.
type Transaction struct {
	FitID      string
	Type       string
	Amount     decimal.Decimal
	DatePosted time.Time
	Name       string
	Memo       string
	CheckNum   string
	RefNum     string
}

// Balance is the bank-reported ledger balance of the statement.
type Balance struct {
	Amount decimal.Decimal
	AsOf   time.Time
}

// Statement is the parsed content of one OFX statement file.
type Statement struct {
	Account       Account
	Transactions  []Transaction
	DateStart     time.Time
	DateEnd       time.Time
	LedgerBalance *Balance
}

// Account types the parser accepts. CREDITCARD is implied by a CCACCTFROM
// aggregate when the statement does not carry an explicit ACCTTYPE.
const (
	AccountTypeChecking    = "CHECKING"
	AccountTypeSavings     = "SAVINGS"
	AccountTypeMoneyMarket = "MONEYMRKT"
	AccountTypeCreditLine  = "CREDITLINE"
	AccountTypeCreditCard  = "CREDITCARD"
)

func validAccountType(t string) bool {
	switch t {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeMoneyMarket, AccountTypeCreditLine, AccountTypeCreditCard:
		return true
	}
	return false
}
