// Package ofx parses OFX 1.x (SGML) bank and credit card statements.
//
// The dialect in the wild is messy: leaf tags may or may not be closed,
// tag case varies, values carry stray whitespace, and the file may or may
// not start with the OFXHEADER key-value block. The parser tolerates all of
// this and validates the result as a whole, returning every problem it
// finds instead of stopping at the first one.
package ofx

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// Parse reads an OFX statement. It returns the parsed statement and a list
// of validation errors. The statement is only usable when the error list is
// empty.
func Parse(r io.Reader) (Statement, []error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Statement{}, []error{fmt.Errorf("could not read statement: %w", err)}
	}

	p := &parser{}
	p.run(stripHeader(string(raw)))

	return p.statement, p.validate()
}

type parser struct {
	statement Statement
	errs      []error

	stack []string
	txn   *Transaction

	sawBankAccount   bool
	sawCreditAccount bool
	acctType         string
}

// stripHeader removes the OFXHEADER key:value block that precedes the first
// tag in OFX 1.x files. Files that start directly with <OFX> pass through
// unchanged.
func stripHeader(s string) string {
	if i := strings.Index(s, "<"); i > 0 {
		return s[i:]
	}
	return s
}

// run walks the tag stream. Splitting on "<" yields one segment per tag,
// with the tag's value (if any) trailing after ">". Values never contain an
// unescaped "<", so this holds for multi-line values as well.
func (p *parser) run(body string) {
	for _, segment := range strings.Split(body, "<") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		end := strings.Index(segment, ">")
		if end < 0 {
			continue
		}

		name := strings.ToUpper(strings.TrimSpace(segment[:end]))
		value := unescape(strings.TrimSpace(segment[end+1:]))

		if strings.HasPrefix(name, "/") {
			p.close(name[1:])
			continue
		}

		if value == "" {
			p.open(name)
			continue
		}

		p.leaf(name, value)
	}

	// Unterminated trailing transaction block
	if p.txn != nil {
		p.endTransaction()
	}
}

func (p *parser) open(name string) {
	switch name {
	case "STMTTRN":
		if p.txn != nil {
			p.endTransaction()
		}
		p.txn = &Transaction{}
	case "BANKACCTFROM":
		p.sawBankAccount = true
	case "CCACCTFROM":
		p.sawCreditAccount = true
	}

	p.stack = append(p.stack, name)
}

func (p *parser) close(name string) {
	if name == "STMTTRN" && p.txn != nil {
		p.endTransaction()
	}

	// Pop to the matching aggregate. Close tags for unclosed leaves are not
	// on the stack and are simply ignored.
	for i := len(p.stack) - 1; i >= 0; i-- {
		if p.stack[i] == name {
			p.stack = p.stack[:i]
			return
		}
	}
}

func (p *parser) in(name string) bool {
	for _, s := range p.stack {
		if s == name {
			return true
		}
	}
	return false
}

func (p *parser) leaf(name, value string) {
	if p.txn != nil {
		p.transactionLeaf(name, value)
		return
	}

	switch {
	case name == "CURDEF":
		p.statement.Account.Currency = value
	case p.in("BANKACCTFROM") || p.in("CCACCTFROM"):
		switch name {
		case "BANKID":
			p.statement.Account.BankID = value
		case "ACCTID":
			p.statement.Account.AccountID = value
		case "ACCTTYPE":
			p.acctType = strings.ToUpper(value)
		}
	case p.in("BANKTRANLIST"):
		switch name {
		case "DTSTART":
			p.statement.DateStart = p.date(name, value)
		case "DTEND":
			p.statement.DateEnd = p.date(name, value)
		}
	case p.in("LEDGERBAL"):
		switch name {
		case "BALAMT":
			amount, err := decimal.NewFromString(value)
			if err != nil {
				p.errs = append(p.errs, fmt.Errorf("ledger balance %q could not be parsed as a decimal", value))
				return
			}
			if p.statement.LedgerBalance == nil {
				p.statement.LedgerBalance = &Balance{}
			}
			p.statement.LedgerBalance.Amount = amount
		case "DTASOF":
			if p.statement.LedgerBalance == nil {
				p.statement.LedgerBalance = &Balance{}
			}
			p.statement.LedgerBalance.AsOf = p.date(name, value)
		}
	}
}

func (p *parser) transactionLeaf(name, value string) {
	switch name {
	case "FITID":
		p.txn.FitID = value
	case "TRNTYPE":
		p.txn.Type = strings.ToUpper(value)
	case "TRNAMT":
		amount, err := decimal.NewFromString(value)
		if err != nil {
			p.errs = append(p.errs, fmt.Errorf("transaction amount %q could not be parsed as a decimal", value))
			return
		}
		p.txn.Amount = amount
	case "DTPOSTED":
		p.txn.DatePosted = p.date(name, value)
	case "NAME", "PAYEE":
		p.txn.Name = value
	case "MEMO":
		p.txn.Memo = value
	case "CHECKNUM":
		p.txn.CheckNum = value
	case "REFNUM":
		p.txn.RefNum = value
	}
}

func (p *parser) endTransaction() {
	p.statement.Transactions = append(p.statement.Transactions, *p.txn)
	p.txn = nil
}

// date parses OFX timestamps. Accepted forms are date-only (YYYYMMDD) and
// date-time (YYYYMMDDHHMMSS, with optional fractional seconds and a
// [gmt offset:TZ] suffix, both of which are ignored).
func (p *parser) date(field, value string) time.Time {
	if i := strings.Index(value, "["); i >= 0 {
		value = value[:i]
	}
	value = strings.TrimSpace(value)

	var layout string
	switch {
	case len(value) >= 14:
		layout, value = "20060102150405", value[:14]
	case len(value) >= 8:
		layout, value = "20060102", value[:8]
	default:
		p.errs = append(p.errs, fmt.Errorf("%s value %q is not a valid OFX date", field, value))
		return time.Time{}
	}

	t, err := time.Parse(layout, value)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s value %q is not a valid OFX date", field, value))
		return time.Time{}
	}

	return t.UTC()
}

// validate checks structural completeness of the parsed statement and
// returns all problems found.
func (p *parser) validate() []error {
	errs := p.errs

	account := &p.statement.Account

	if account.AccountID == "" {
		errs = append(errs, fmt.Errorf("the statement does not contain an account ID"))
	}

	// Credit card statements carry no bank ID, bank statements must
	if p.sawBankAccount && account.BankID == "" {
		errs = append(errs, fmt.Errorf("the statement does not contain a bank ID"))
	}

	if !p.sawBankAccount && !p.sawCreditAccount {
		errs = append(errs, fmt.Errorf("the statement does not contain an account block"))
	}

	switch {
	case p.acctType != "":
		if !validAccountType(p.acctType) {
			errs = append(errs, fmt.Errorf("%q is not a known account type", p.acctType))
		}
		account.AccountType = p.acctType
	case p.sawCreditAccount:
		account.AccountType = AccountTypeCreditCard
	case p.sawBankAccount:
		errs = append(errs, fmt.Errorf("the statement does not contain an account type"))
	}

	if account.Currency == "" {
		errs = append(errs, fmt.Errorf("the statement does not contain a currency"))
	} else if _, err := currency.ParseISO(account.Currency); err != nil {
		errs = append(errs, fmt.Errorf("%q is not a valid ISO 4217 currency", account.Currency))
	}

	if len(p.statement.Transactions) == 0 {
		errs = append(errs, fmt.Errorf("the statement does not contain any transactions"))
	}

	seen := make(map[string]bool)
	for i, t := range p.statement.Transactions {
		if t.FitID == "" {
			errs = append(errs, fmt.Errorf("transaction %d does not have a FITID", i+1))
			continue
		}

		if seen[t.FitID] {
			errs = append(errs, fmt.Errorf("the FITID %q appears more than once in the statement", t.FitID))
		}
		seen[t.FitID] = true

		if t.DatePosted.IsZero() {
			errs = append(errs, fmt.Errorf("transaction %q does not have a posting date", t.FitID))
		}
	}

	// Derive the date range from the transactions when the statement does
	// not declare one.
	if p.statement.DateStart.IsZero() || p.statement.DateEnd.IsZero() {
		for _, t := range p.statement.Transactions {
			if t.DatePosted.IsZero() {
				continue
			}
			if p.statement.DateStart.IsZero() || t.DatePosted.Before(p.statement.DateStart) {
				p.statement.DateStart = t.DatePosted
			}
			if p.statement.DateEnd.IsZero() || t.DatePosted.After(p.statement.DateEnd) {
				p.statement.DateEnd = t.DatePosted
			}
		}
	}

	return errs
}

// unescape decodes the SGML entities OFX files use in values.
var unescaper = strings.NewReplacer("&lt;", "<", "&gt;", ">", "&amp;", "&")

func unescape(s string) string {
	return unescaper.Replace(s)
}
