package wire

// ResultCode is the 8-bit outcome of a single Account or Transfer event.
// Zero is always success; every other value classifies exactly one
// precondition failure. The numbering follows the binary-era table from
// the wire protocol this package implements — see SPEC_FULL.md ("canonical
// error table") for why the JSON-era numbering was not used instead.
type ResultCode uint8

const (
	ResultOK ResultCode = 0

	// Chain-level (§4.4).
	ResultLinkedEventFailed    ResultCode = 1
	ResultLinkedEventChainOpen ResultCode = 2

	// Schema violations.
	ResultTransferIDMustNotBeZero       ResultCode = 5
	ResultAccountIDMustNotBeZero        ResultCode = 6
	ResultFlagsAreMutuallyExclusive     ResultCode = 8
	ResultDebitsPendingMustBeZero       ResultCode = 9
	ResultDebitsPostedMustBeZero        ResultCode = 10
	ResultCreditsPendingMustBeZero      ResultCode = 11
	ResultCreditsPostedMustBeZero       ResultCode = 12
	ResultLedgerMustNotBeZero           ResultCode = 13
	ResultCodeMustNotBeZero             ResultCode = 14
	ResultImportedTimestampMustNotBeZero ResultCode = 18

	// Existence / referential.
	ResultAccountExists              ResultCode = 21
	ResultExistsWithDifferentFlags   ResultCode = 29
	ResultInvalidDataSize            ResultCode = 32
	ResultPendingIDRequired          ResultCode = 33
	ResultPendingTransferNotFound    ResultCode = 34
	ResultPendingTransferNotPending  ResultCode = 35
	ResultPendingTransferAlreadyVoided ResultCode = 36
	ResultPendingTransferAlreadyPosted ResultCode = 37
	ResultDebitAccountNotFound       ResultCode = 38
	ResultCreditAccountNotFound      ResultCode = 39
	ResultAccountsMustBeDifferent    ResultCode = 40
	ResultExceedsCredits             ResultCode = 42
	ResultExceedsDebits              ResultCode = 43
	ResultTransferExists             ResultCode = 46

	ResultTransferMustHaveSameLedgerAsAccounts ResultCode = 52
	ResultDebitAccountClosed                   ResultCode = 59
	ResultCreditAccountClosed                  ResultCode = 60

	// Extensions beyond the literal §6 table, distinguishing the
	// mismatch cases §6 says an implementation SHOULD separate out of
	// pending_transfer_not_found.
	ResultPendingTransferHasDifferentDebitAccountID  ResultCode = 171
	ResultPendingTransferHasDifferentCreditAccountID ResultCode = 172
	ResultPendingTransferHasDifferentAmount          ResultCode = 173
)

// String gives a short lowercase_snake_case name, matching how the source's
// error tables render result codes in logs and JSON responses.
func (r ResultCode) String() string {
	switch r {
	case ResultOK:
		return "ok"
	case ResultLinkedEventFailed:
		return "linked_event_failed"
	case ResultLinkedEventChainOpen:
		return "linked_event_chain_open"
	case ResultTransferIDMustNotBeZero:
		return "id_must_not_be_zero"
	case ResultAccountIDMustNotBeZero:
		return "id_must_not_be_zero"
	case ResultFlagsAreMutuallyExclusive:
		return "flags_are_mutually_exclusive"
	case ResultDebitsPendingMustBeZero:
		return "debits_pending_must_be_zero"
	case ResultDebitsPostedMustBeZero:
		return "debits_posted_must_be_zero"
	case ResultCreditsPendingMustBeZero:
		return "credits_pending_must_be_zero"
	case ResultCreditsPostedMustBeZero:
		return "credits_posted_must_be_zero"
	case ResultLedgerMustNotBeZero:
		return "ledger_must_not_be_zero"
	case ResultCodeMustNotBeZero:
		return "code_must_not_be_zero"
	case ResultImportedTimestampMustNotBeZero:
		return "imported_event_timestamp_must_not_be_zero"
	case ResultAccountExists:
		return "exists"
	case ResultExistsWithDifferentFlags:
		return "exists_with_different_flags"
	case ResultInvalidDataSize:
		return "invalid_data_size"
	case ResultPendingIDRequired:
		return "pending_id_required"
	case ResultPendingTransferNotFound:
		return "pending_transfer_not_found"
	case ResultPendingTransferNotPending:
		return "pending_transfer_not_pending"
	case ResultPendingTransferAlreadyVoided:
		return "pending_transfer_already_voided"
	case ResultPendingTransferAlreadyPosted:
		return "pending_transfer_already_posted"
	case ResultDebitAccountNotFound:
		return "debit_account_not_found"
	case ResultCreditAccountNotFound:
		return "credit_account_not_found"
	case ResultAccountsMustBeDifferent:
		return "accounts_must_be_different"
	case ResultExceedsCredits:
		return "exceeds_credits"
	case ResultExceedsDebits:
		return "exceeds_debits"
	case ResultTransferExists:
		return "exists"
	case ResultTransferMustHaveSameLedgerAsAccounts:
		return "transfer_must_have_the_same_ledger_as_accounts"
	case ResultDebitAccountClosed:
		return "debit_account_closed"
	case ResultCreditAccountClosed:
		return "credit_account_closed"
	case ResultPendingTransferHasDifferentDebitAccountID:
		return "pending_transfer_has_different_debit_account_id"
	case ResultPendingTransferHasDifferentCreditAccountID:
		return "pending_transfer_has_different_credit_account_id"
	case ResultPendingTransferHasDifferentAmount:
		return "pending_transfer_has_different_amount"
	default:
		return "unknown"
	}
}
