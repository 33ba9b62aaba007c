package coffer

import (
	"fmt"

	"github.com/iov-one/coffer/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are reported through the error return of the handler instead.
type DeliverResult struct {
	// Data is the machine readable outcome, for example the vault route
	// or the id of a submitted transaction.
	Data []byte
	Log  string
	// Tags are indexed by tendermint and make the transaction searchable.
	Tags []common.KVPair
}

// ToABCI builds the tendermint response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{Data: d.Data, Log: d.Log, Tags: d.Tags}
}

// CheckResult is the outcome of a transaction that passed CheckTx.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is reported to tendermint as the wanted gas.
	GasAllocated int64
}

// ToABCI builds the tendermint response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{Data: c.Data, Log: c.Log, GasWanted: c.GasAllocated}
}

// DeliverOrError picks the error response when err is set and the result
// response otherwise.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError is DeliverOrError for CheckTx.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError turns err into a failed DeliverTx response. Unregistered
// errors are redacted unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errorInfo("cannot deliver tx", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError turns err into a failed CheckTx response.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errorInfo("cannot check tx", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func errorInfo(stage string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, fmt.Sprintf("%s: %s", stage, log)
}
