package wire

// AccountFlags is the bitfield at Account offset 118.
type AccountFlags uint16

const (
	AccountLinked                      AccountFlags = 0x01
	AccountDebitsMustNotExceedCredits  AccountFlags = 0x02
	AccountCreditsMustNotExceedDebits  AccountFlags = 0x04
	AccountHistory                     AccountFlags = 0x08
	AccountImported                    AccountFlags = 0x10
	AccountClosed                      AccountFlags = 0x20
)

func (f AccountFlags) Has(bit AccountFlags) bool { return f&bit != 0 }

// TransferFlags is the bitfield at Transfer offset 118.
type TransferFlags uint16

const (
	TransferLinked         TransferFlags = 0x0001
	TransferPending        TransferFlags = 0x0002
	TransferPostPending    TransferFlags = 0x0004
	TransferVoidPending    TransferFlags = 0x0008
	TransferBalancingDebit TransferFlags = 0x0010
	TransferBalancingCredit TransferFlags = 0x0020
	TransferImported       TransferFlags = 0x0100
)

func (f TransferFlags) Has(bit TransferFlags) bool { return f&bit != 0 }

// FilterFlags is the bitfield at AccountFilter offset 68.
type FilterFlags uint32

const (
	FilterDebits   FilterFlags = 0x01
	FilterCredits  FilterFlags = 0x02
	FilterReversed FilterFlags = 0x04
)

func (f FilterFlags) Has(bit FilterFlags) bool { return f&bit != 0 }
