package models

import (
	"errors"
)

var (
	ErrGeneral          = errors.New("an error occurred on the server during your request")
	ErrResourceNotFound = errors.New("there is no")

	ErrAccountCodeNotUnique        = errors.New("the account code must be unique")
	ErrTransactionFitIDNotUnique   = errors.New("a transaction with this FITID already exists for the account")
	ErrRuleChartAccountMissing     = errors.New("mapping rules for revenue and expense need a chart account")
	ErrReconciliationImmutable     = errors.New("reconciliation records cannot be changed after creation")
	ErrJournalEntryImmutable       = errors.New("journal entries cannot be changed after creation")
	ErrJournalEntryUnbalanced      = errors.New("journal entry debits and credits are not equal")
	ErrJournalEntryTooFewLines     = errors.New("a journal entry needs at least two lines")
	ErrChartAccountStillReferenced = errors.New("the chart account is referenced by transactions and can only be deactivated")
)
