package cis2

import (
	"fmt"

	"github.com/ccd-network/ccdkit/pkg/serial"
	"github.com/ccd-network/ccdkit/pkg/transaction"
	"github.com/ccd-network/ccdkit/pkg/types"
	"github.com/lightningnetwork/lnd/fn/v2"
)

const (
	transferEntrypoint       = "transfer"
	updateOperatorEntrypoint = "updateOperator"
	balanceOfEntrypoint      = "balanceOf"
)

// Transfer moves Amount of TokenID from From to To.
type Transfer struct {
	TokenID TokenID
	Amount  TokenAmount
	From    Address
	To      Receiver
	Data    AdditionalData
}

func (t Transfer) SerializeInto(buf *serial.Buffer) int {
	n := t.TokenID.SerializeInto(buf)
	n += t.Amount.SerializeInto(buf)
	n += t.From.SerializeInto(buf)
	n += t.To.SerializeInto(buf)
	return n + t.Data.SerializeInto(buf)
}

func ReadTransfer(c *serial.Cursor) fn.Option[Transfer] {
	var (
		t  Transfer
		ok bool
	)
	mark := c.Offset()
	fail := func() fn.Option[Transfer] {
		c.Seek(mark)
		return fn.None[Transfer]()
	}
	if t.TokenID, ok = serial.Get(ReadTokenID(c)); !ok {
		return fail()
	}
	if t.Amount, ok = serial.Get(ReadTokenAmount(c)); !ok {
		return fail()
	}
	if t.From, ok = serial.Get(ReadAddress(c)); !ok {
		return fail()
	}
	if t.To, ok = serial.Get(ReadReceiver(c)); !ok {
		return fail()
	}
	if t.Data, ok = serial.Get(ReadAdditionalData(c)); !ok {
		return fail()
	}
	return fn.Some(t)
}

// TransferParameter is the parameter of the transfer entrypoint.
type TransferParameter []Transfer

func (p TransferParameter) SerializeInto(buf *serial.Buffer) int {
	return serial.PutListLE(buf, serial.Width16, p)
}

func ReadTransferParameter(c *serial.Cursor) fn.Option[TransferParameter] {
	return fn.MapOption(func(ts []Transfer) TransferParameter {
		return TransferParameter(ts)
	})(serial.ReadListLE(c, serial.Width16, ReadTransfer))
}

// Parameter checks the size of the encoded transfers.
func (p TransferParameter) Parameter() (types.Parameter, error) {
	return types.ParameterFrom(p)
}

// OperatorUpdate adds or removes an operator of the sender.
type OperatorUpdate struct {
	Add      bool
	Operator Address
}

func (u OperatorUpdate) SerializeInto(buf *serial.Buffer) int {
	return buf.PutBool(u.Add) + u.Operator.SerializeInto(buf)
}

// UpdateOperatorParameter is the parameter of the updateOperator
// entrypoint.
type UpdateOperatorParameter []OperatorUpdate

func (p UpdateOperatorParameter) SerializeInto(buf *serial.Buffer) int {
	return serial.PutListLE(buf, serial.Width16, p)
}

// BalanceOfQuery asks for the balance of one token of one owner.
type BalanceOfQuery struct {
	TokenID TokenID
	Address Address
}

func (q BalanceOfQuery) SerializeInto(buf *serial.Buffer) int {
	return q.TokenID.SerializeInto(buf) + q.Address.SerializeInto(buf)
}

// BalanceOfParameter is the parameter of the balanceOf entrypoint.
type BalanceOfParameter []BalanceOfQuery

func (p BalanceOfParameter) SerializeInto(buf *serial.Buffer) int {
	return serial.PutListLE(buf, serial.Width16, p)
}

// DecodeBalanceOfResponse decodes the return value of balanceOf, one amount
// per query.
func DecodeBalanceOfResponse(data []byte) ([]TokenAmount, error) {
	return serial.Deserialize(data, "balanceOf response", func(c *serial.Cursor) fn.Option[[]TokenAmount] {
		return serial.ReadListLE(c, serial.Width16, ReadTokenAmount)
	})
}

// NewTransferTransaction builds the update invoking <contract>.transfer.
func NewTransferTransaction(
	sender types.AccountAddress, contract types.ContractAddress,
	name types.ContractName, transfers TransferParameter, maxEnergy types.Energy,
) (transaction.AccountTransaction, error) {
	return newUpdate(sender, contract, name, transferEntrypoint, transfers, maxEnergy)
}

// NewUpdateOperatorTransaction builds the update invoking
// <contract>.updateOperator.
func NewUpdateOperatorTransaction(
	sender types.AccountAddress, contract types.ContractAddress,
	name types.ContractName, updates UpdateOperatorParameter, maxEnergy types.Energy,
) (transaction.AccountTransaction, error) {
	return newUpdate(sender, contract, name, updateOperatorEntrypoint, updates, maxEnergy)
}

// BalanceOfReceiveName is the name to invoke when querying balances.
func BalanceOfReceiveName(name types.ContractName) (types.ReceiveName, error) {
	return name.ReceiveName(types.EntrypointNameUnchecked(balanceOfEntrypoint))
}

func newUpdate(
	sender types.AccountAddress, contract types.ContractAddress,
	name types.ContractName, entrypoint string, param serial.Serializer,
	maxEnergy types.Energy,
) (transaction.AccountTransaction, error) {
	receiveName, err := name.ReceiveName(types.EntrypointNameUnchecked(entrypoint))
	if err != nil {
		return transaction.AccountTransaction{}, err
	}
	message, err := types.ParameterFrom(param)
	if err != nil {
		return transaction.AccountTransaction{}, fmt.Errorf(
			"invalid %s parameter: %w", entrypoint, err,
		)
	}
	return transaction.NewUpdateContract(
		sender, 0, contract, receiveName, message, maxEnergy,
	), nil
}
