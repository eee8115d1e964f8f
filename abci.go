package paystream

import (
	"fmt"

	"github.com/iov-one/paystream/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
)

// DeliverResult is the outcome of a successfully delivered transaction.
// Failures are reported as errors, never as a result.
type DeliverResult struct {
	// Data is the machine readable outcome, for example the id of a created
	// stream or the amount paid out.
	Data []byte
	// Log is a human readable note.
	Log string
	// Tags are indexed by tendermint and can be searched by clients.
	Tags []common.KVPair
	// GasUsed is reported back as is.
	GasUsed int64
}

// ToABCI converts the result into a tendermint response.
func (d DeliverResult) ToABCI() abci.ResponseDeliverTx {
	return abci.ResponseDeliverTx{
		Data:    d.Data,
		Log:     d.Log,
		Tags:    d.Tags,
		GasUsed: d.GasUsed,
	}
}

// CheckResult is the outcome of a transaction that passed the mempool
// check.
type CheckResult struct {
	Data []byte
	Log  string
	// GasAllocated is the cost the handler expects to charge in deliver.
	GasAllocated int64
}

// ToABCI converts the result into a tendermint response.
func (c CheckResult) ToABCI() abci.ResponseCheckTx {
	return abci.ResponseCheckTx{
		Data:      c.Data,
		Log:       c.Log,
		GasWanted: c.GasAllocated,
	}
}

// DeliverOrError returns the response for err if it is set and the
// response for result otherwise.
func DeliverOrError(result *DeliverResult, err error, debug bool) abci.ResponseDeliverTx {
	if err != nil {
		return DeliverTxError(err, debug)
	}
	return result.ToABCI()
}

// CheckOrError returns the response for err if it is set and the response
// for result otherwise.
func CheckOrError(result *CheckResult, err error, debug bool) abci.ResponseCheckTx {
	if err != nil {
		return CheckTxError(err, debug)
	}
	return result.ToABCI()
}

// DeliverTxError converts an error into a deliver response. Only
// registered errors expose their message unless debug is set.
func DeliverTxError(err error, debug bool) abci.ResponseDeliverTx {
	code, log := errorInfo("deliver", err, debug)
	return abci.ResponseDeliverTx{Code: code, Log: log}
}

// CheckTxError converts an error into a check response. Only registered
// errors expose their message unless debug is set.
func CheckTxError(err error, debug bool) abci.ResponseCheckTx {
	code, log := errorInfo("check", err, debug)
	return abci.ResponseCheckTx{Code: code, Log: log}
}

func errorInfo(phase string, err error, debug bool) (uint32, string) {
	code, log := errors.ABCIInfo(err, debug)
	if code == errors.SuccessABCICode {
		return code, log
	}
	return code, fmt.Sprintf("cannot %s tx: %s", phase, log)
}
