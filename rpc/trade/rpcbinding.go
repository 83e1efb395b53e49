// Package trade contains RPC wrappers for Themis Trade contract.
package trade

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/nspcc-dev/neo-go/pkg/core/transaction"
	"github.com/nspcc-dev/neo-go/pkg/neorpc/result"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/unwrap"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/stackitem"
)

// CreateOrderEvent represents "CreateOrder" event emitted by the contract.
type CreateOrderEvent struct {
	OrderID *big.Int
	BuyerID *big.Int
	Fee     *big.Int
}

// ConfirmOrderEvent represents "ConfirmOrder" event emitted by the contract.
type ConfirmOrderEvent struct {
	OrderID  *big.Int
	SellerID *big.Int
}

// UploadSecretEvent represents "UploadSecret" event emitted by the contract.
type UploadSecretEvent struct {
	OrderID   *big.Int
	ForUserID *big.Int
}

// VerifyResultEvent represents "VerifyResult" event emitted by the contract.
type VerifyResultEvent struct {
	OrderID   *big.Int
	Trustee   util.Uint160
	ForSeller bool
	ForBuyer  bool
}

// OrderResolvedEvent represents "OrderResolved" event emitted by the contract.
type OrderResolvedEvent struct {
	OrderID *big.Int
	Status  *big.Int
}

// ArbitrationEvent represents "Arbitration" event emitted by the contract.
type ArbitrationEvent struct {
	OrderID     *big.Int
	RequesterID *big.Int
}

// JudgeEvent represents "Judge" event emitted by the contract.
type JudgeEvent struct {
	OrderID  *big.Int
	WinnerID *big.Int
	Amount   *big.Int
}

// Invoker is used by ContractReader to call various safe methods.
type Invoker interface {
	Call(contract util.Uint160, operation string, params ...any) (*result.Invoke, error)
}

// Actor is used by Contract to call state-changing methods.
type Actor interface {
	Invoker

	MakeCall(contract util.Uint160, method string, params ...any) (*transaction.Transaction, error)
	MakeRun(script []byte) (*transaction.Transaction, error)
	MakeUnsignedCall(contract util.Uint160, method string, attrs []transaction.Attribute, params ...any) (*transaction.Transaction, error)
	MakeUnsignedRun(script []byte, attrs []transaction.Attribute) (*transaction.Transaction, error)
	SendCall(contract util.Uint160, method string, params ...any) (util.Uint256, uint32, error)
	SendRun(script []byte) (util.Uint256, uint32, error)
}

// ContractReader implements safe contract methods.
type ContractReader struct {
	invoker Invoker
	hash    util.Uint160
}

// Contract implements all contract methods.
type Contract struct {
	ContractReader
	actor Actor
	hash  util.Uint160
}

// NewReader creates an instance of ContractReader using provided contract hash and the given Invoker.
func NewReader(invoker Invoker, hash util.Uint160) *ContractReader {
	return &ContractReader{invoker, hash}
}

// New creates an instance of Contract using provided contract hash and the given Actor.
func New(actor Actor, hash util.Uint160) *Contract {
	return &Contract{ContractReader{actor, hash}, actor, hash}
}

// GetOrderBuyer invokes `getOrderBuyer` method of contract.
func (c *ContractReader) GetOrderBuyer(orderID *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getOrderBuyer", orderID))
}

// GetOrderFee invokes `getOrderFee` method of contract.
func (c *ContractReader) GetOrderFee(orderID *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getOrderFee", orderID))
}

// GetOrderSeller invokes `getOrderSeller` method of contract.
func (c *ContractReader) GetOrderSeller(orderID *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getOrderSeller", orderID))
}

// GetOrderStatus invokes `getOrderStatus` method of contract.
func (c *ContractReader) GetOrderStatus(orderID *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getOrderStatus", orderID))
}

// GetOrderTrustees invokes `getOrderTrustees` method of contract.
func (c *ContractReader) GetOrderTrustees(orderID *big.Int) ([]util.Uint160, error) {
	return unwrap.ArrayOfUint160(c.invoker.Call(c.hash, "getOrderTrustees", orderID))
}

// GetRequester invokes `getRequester` method of contract.
func (c *ContractReader) GetRequester(orderID *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getRequester", orderID))
}

// GetSecret invokes `getSecret` method of contract.
func (c *ContractReader) GetSecret(orderID *big.Int, trustee util.Uint160, forUserID *big.Int) ([]byte, error) {
	return unwrap.Bytes(c.invoker.Call(c.hash, "getSecret", orderID, trustee, forUserID))
}

// GetVerifyData invokes `getVerifyData` method of contract.
func (c *ContractReader) GetVerifyData(orderID *big.Int, forUserID *big.Int) ([]byte, error) {
	return unwrap.Bytes(c.invoker.Call(c.hash, "getVerifyData", orderID, forUserID))
}

// GetWinner invokes `getWinner` method of contract.
func (c *ContractReader) GetWinner(orderID *big.Int) (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "getWinner", orderID))
}

// HasVoted invokes `hasVoted` method of contract.
func (c *ContractReader) HasVoted(orderID *big.Int, trustee util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "hasVoted", orderID, trustee))
}

// IsArbitrator invokes `isArbitrator` method of contract.
func (c *ContractReader) IsArbitrator(addr util.Uint160) (bool, error) {
	return unwrap.Bool(c.invoker.Call(c.hash, "isArbitrator", addr))
}

// Version invokes `version` method of contract.
func (c *ContractReader) Version() (*big.Int, error) {
	return unwrap.BigInt(c.invoker.Call(c.hash, "version"))
}

// AddArbitrator creates a transaction invoking `addArbitrator` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) AddArbitrator(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "addArbitrator", addr)
}

// AddArbitratorTransaction creates a transaction invoking `addArbitrator` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) AddArbitratorTransaction(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "addArbitrator", addr)
}

// AddArbitratorUnsigned creates a transaction invoking `addArbitrator` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) AddArbitratorUnsigned(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "addArbitrator", nil, addr)
}

// Arbitrate creates a transaction invoking `arbitrate` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Arbitrate(orderID *big.Int, requesterID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "arbitrate", orderID, requesterID)
}

// ArbitrateTransaction creates a transaction invoking `arbitrate` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ArbitrateTransaction(orderID *big.Int, requesterID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "arbitrate", orderID, requesterID)
}

// ArbitrateUnsigned creates a transaction invoking `arbitrate` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ArbitrateUnsigned(orderID *big.Int, requesterID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "arbitrate", nil, orderID, requesterID)
}

// ConfirmTradeOrder creates a transaction invoking `confirmTradeOrder` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) ConfirmTradeOrder(orderID *big.Int, sellerID *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "confirmTradeOrder", orderID, sellerID)
}

// ConfirmTradeOrderTransaction creates a transaction invoking `confirmTradeOrder` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) ConfirmTradeOrderTransaction(orderID *big.Int, sellerID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "confirmTradeOrder", orderID, sellerID)
}

// ConfirmTradeOrderUnsigned creates a transaction invoking `confirmTradeOrder` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) ConfirmTradeOrderUnsigned(orderID *big.Int, sellerID *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "confirmTradeOrder", nil, orderID, sellerID)
}

// CreateNewTradeOrder creates a transaction invoking `createNewTradeOrder` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) CreateNewTradeOrder(orderID *big.Int, buyerID *big.Int, fee *big.Int) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "createNewTradeOrder", orderID, buyerID, fee)
}

// CreateNewTradeOrderTransaction creates a transaction invoking `createNewTradeOrder` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) CreateNewTradeOrderTransaction(orderID *big.Int, buyerID *big.Int, fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "createNewTradeOrder", orderID, buyerID, fee)
}

// CreateNewTradeOrderUnsigned creates a transaction invoking `createNewTradeOrder` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) CreateNewTradeOrderUnsigned(orderID *big.Int, buyerID *big.Int, fee *big.Int) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "createNewTradeOrder", nil, orderID, buyerID, fee)
}

// Judge creates a transaction invoking `judge` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Judge(orderID *big.Int, winnerID *big.Int, arbitrator util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "judge", orderID, winnerID, arbitrator)
}

// JudgeTransaction creates a transaction invoking `judge` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) JudgeTransaction(orderID *big.Int, winnerID *big.Int, arbitrator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "judge", orderID, winnerID, arbitrator)
}

// JudgeUnsigned creates a transaction invoking `judge` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) JudgeUnsigned(orderID *big.Int, winnerID *big.Int, arbitrator util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "judge", nil, orderID, winnerID, arbitrator)
}

// RemoveArbitrator creates a transaction invoking `removeArbitrator` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) RemoveArbitrator(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "removeArbitrator", addr)
}

// RemoveArbitratorTransaction creates a transaction invoking `removeArbitrator` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) RemoveArbitratorTransaction(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "removeArbitrator", addr)
}

// RemoveArbitratorUnsigned creates a transaction invoking `removeArbitrator` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) RemoveArbitratorUnsigned(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "removeArbitrator", nil, addr)
}

// SendVerifyResult creates a transaction invoking `sendVerifyResult` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) SendVerifyResult(orderID *big.Int, trustee util.Uint160, forSeller bool, forBuyer bool) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "sendVerifyResult", orderID, trustee, forSeller, forBuyer)
}

// SendVerifyResultTransaction creates a transaction invoking `sendVerifyResult` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) SendVerifyResultTransaction(orderID *big.Int, trustee util.Uint160, forSeller bool, forBuyer bool) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "sendVerifyResult", orderID, trustee, forSeller, forBuyer)
}

// SendVerifyResultUnsigned creates a transaction invoking `sendVerifyResult` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) SendVerifyResultUnsigned(orderID *big.Int, trustee util.Uint160, forSeller bool, forBuyer bool) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "sendVerifyResult", nil, orderID, trustee, forSeller, forBuyer)
}

// Update creates a transaction invoking `update` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) Update(nefFile []byte, manifest []byte, data any) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateTransaction creates a transaction invoking `update` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTransaction(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "update", nefFile, manifest, data)
}

// UpdateUnsigned creates a transaction invoking `update` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUnsigned(nefFile []byte, manifest []byte, data any) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "update", nil, nefFile, manifest, data)
}

// UpdateTrusteeContract creates a transaction invoking `updateTrusteeContract` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateTrusteeContract(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateTrusteeContract", addr)
}

// UpdateTrusteeContractTransaction creates a transaction invoking `updateTrusteeContract` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateTrusteeContractTransaction(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateTrusteeContract", addr)
}

// UpdateTrusteeContractUnsigned creates a transaction invoking `updateTrusteeContract` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateTrusteeContractUnsigned(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateTrusteeContract", nil, addr)
}

// UpdateUserContract creates a transaction invoking `updateUserContract` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UpdateUserContract(addr util.Uint160) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "updateUserContract", addr)
}

// UpdateUserContractTransaction creates a transaction invoking `updateUserContract` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UpdateUserContractTransaction(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "updateUserContract", addr)
}

// UpdateUserContractUnsigned creates a transaction invoking `updateUserContract` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UpdateUserContractUnsigned(addr util.Uint160) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "updateUserContract", nil, addr)
}

// UploadSecret creates a transaction invoking `uploadSecret` method of the contract.
// This transaction is signed and immediately sent to the network.
// The values returned are its hash, ValidUntilBlock value and error if any.
func (c *Contract) UploadSecret(orderID *big.Int, shards [][]byte, forUserID *big.Int, verifyData []byte) (util.Uint256, uint32, error) {
	return c.actor.SendCall(c.hash, "uploadSecret", orderID, shards, forUserID, verifyData)
}

// UploadSecretTransaction creates a transaction invoking `uploadSecret` method of the contract.
// This transaction is signed, but not sent to the network, instead it's
// returned to the caller.
func (c *Contract) UploadSecretTransaction(orderID *big.Int, shards [][]byte, forUserID *big.Int, verifyData []byte) (*transaction.Transaction, error) {
	return c.actor.MakeCall(c.hash, "uploadSecret", orderID, shards, forUserID, verifyData)
}

// UploadSecretUnsigned creates a transaction invoking `uploadSecret` method of the contract.
// This transaction is not signed, it's simply returned to the caller.
// Any fields of it that do not affect fees can be changed (ValidUntilBlock,
// Nonce), fee values (NetworkFee, SystemFee) can be increased as well.
func (c *Contract) UploadSecretUnsigned(orderID *big.Int, shards [][]byte, forUserID *big.Int, verifyData []byte) (*transaction.Transaction, error) {
	return c.actor.MakeUnsignedCall(c.hash, "uploadSecret", nil, orderID, shards, forUserID, verifyData)
}

// CreateOrderEventsFromApplicationLog retrieves a set of all emitted events
// with "CreateOrder" name from the provided [result.ApplicationLog].
func CreateOrderEventsFromApplicationLog(log *result.ApplicationLog) ([]*CreateOrderEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*CreateOrderEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "CreateOrder" {
				continue
			}
			event := new(CreateOrderEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize CreateOrderEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to CreateOrderEvent or
// returns an error if it's not possible to do to so.
func (e *CreateOrderEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.OrderID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderID: %w", err)
	}

	index++
	e.BuyerID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field BuyerID: %w", err)
	}

	index++
	e.Fee, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Fee: %w", err)
	}

	return nil
}

// ConfirmOrderEventsFromApplicationLog retrieves a set of all emitted events
// with "ConfirmOrder" name from the provided [result.ApplicationLog].
func ConfirmOrderEventsFromApplicationLog(log *result.ApplicationLog) ([]*ConfirmOrderEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ConfirmOrderEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "ConfirmOrder" {
				continue
			}
			event := new(ConfirmOrderEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ConfirmOrderEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ConfirmOrderEvent or
// returns an error if it's not possible to do to so.
func (e *ConfirmOrderEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.OrderID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderID: %w", err)
	}

	index++
	e.SellerID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field SellerID: %w", err)
	}

	return nil
}

// UploadSecretEventsFromApplicationLog retrieves a set of all emitted events
// with "UploadSecret" name from the provided [result.ApplicationLog].
func UploadSecretEventsFromApplicationLog(log *result.ApplicationLog) ([]*UploadSecretEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*UploadSecretEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "UploadSecret" {
				continue
			}
			event := new(UploadSecretEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize UploadSecretEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to UploadSecretEvent or
// returns an error if it's not possible to do to so.
func (e *UploadSecretEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.OrderID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderID: %w", err)
	}

	index++
	e.ForUserID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field ForUserID: %w", err)
	}

	return nil
}

// VerifyResultEventsFromApplicationLog retrieves a set of all emitted events
// with "VerifyResult" name from the provided [result.ApplicationLog].
func VerifyResultEventsFromApplicationLog(log *result.ApplicationLog) ([]*VerifyResultEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*VerifyResultEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "VerifyResult" {
				continue
			}
			event := new(VerifyResultEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize VerifyResultEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to VerifyResultEvent or
// returns an error if it's not possible to do to so.
func (e *VerifyResultEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 4 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.OrderID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderID: %w", err)
	}

	index++
	e.Trustee, err = func(item stackitem.Item) (util.Uint160, error) {
		b, err := item.TryBytes()
		if err != nil {
			return util.Uint160{}, err
		}
		u, err := util.Uint160DecodeBytesBE(b)
		if err != nil {
			return util.Uint160{}, err
		}
		return u, nil
	}(arr[index])
	if err != nil {
		return fmt.Errorf("field Trustee: %w", err)
	}

	index++
	e.ForSeller, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field ForSeller: %w", err)
	}

	index++
	e.ForBuyer, err = arr[index].TryBool()
	if err != nil {
		return fmt.Errorf("field ForBuyer: %w", err)
	}

	return nil
}

// OrderResolvedEventsFromApplicationLog retrieves a set of all emitted events
// with "OrderResolved" name from the provided [result.ApplicationLog].
func OrderResolvedEventsFromApplicationLog(log *result.ApplicationLog) ([]*OrderResolvedEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*OrderResolvedEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "OrderResolved" {
				continue
			}
			event := new(OrderResolvedEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize OrderResolvedEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to OrderResolvedEvent or
// returns an error if it's not possible to do to so.
func (e *OrderResolvedEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.OrderID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderID: %w", err)
	}

	index++
	e.Status, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Status: %w", err)
	}

	return nil
}

// ArbitrationEventsFromApplicationLog retrieves a set of all emitted events
// with "Arbitration" name from the provided [result.ApplicationLog].
func ArbitrationEventsFromApplicationLog(log *result.ApplicationLog) ([]*ArbitrationEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*ArbitrationEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Arbitration" {
				continue
			}
			event := new(ArbitrationEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize ArbitrationEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to ArbitrationEvent or
// returns an error if it's not possible to do to so.
func (e *ArbitrationEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 2 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.OrderID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderID: %w", err)
	}

	index++
	e.RequesterID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field RequesterID: %w", err)
	}

	return nil
}

// JudgeEventsFromApplicationLog retrieves a set of all emitted events
// with "Judge" name from the provided [result.ApplicationLog].
func JudgeEventsFromApplicationLog(log *result.ApplicationLog) ([]*JudgeEvent, error) {
	if log == nil {
		return nil, errors.New("nil application log")
	}

	var res []*JudgeEvent
	for i, ex := range log.Executions {
		for j, e := range ex.Events {
			if e.Name != "Judge" {
				continue
			}
			event := new(JudgeEvent)
			err := event.FromStackItem(e.Item)
			if err != nil {
				return nil, fmt.Errorf("failed to deserialize JudgeEvent from stackitem (execution #%d, event #%d): %w", i, j, err)
			}
			res = append(res, event)
		}
	}

	return res, nil
}

// FromStackItem converts provided [stackitem.Array] to JudgeEvent or
// returns an error if it's not possible to do to so.
func (e *JudgeEvent) FromStackItem(item *stackitem.Array) error {
	if item == nil {
		return errors.New("nil item")
	}
	arr, ok := item.Value().([]stackitem.Item)
	if !ok {
		return errors.New("not an array")
	}
	if len(arr) != 3 {
		return errors.New("wrong number of structure elements")
	}

	var (
		index = -1
		err   error
	)
	index++
	e.OrderID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field OrderID: %w", err)
	}

	index++
	e.WinnerID, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field WinnerID: %w", err)
	}

	index++
	e.Amount, err = arr[index].TryInteger()
	if err != nil {
		return fmt.Errorf("field Amount: %w", err)
	}

	return nil
}
