package app

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	abci "github.com/tendermint/tendermint/abci/types"
)

// BaseApp is a StoreApp that also runs transactions: CheckTx and DeliverTx
// decode the bytes and pass the tx to the handler stack.
type BaseApp struct {
	*StoreApp
	decoder coffer.TxDecoder
	handler coffer.Handler
	debug   bool
}

var _ abci.Application = BaseApp{}

// NewBaseApp returns the ABCI application. In debug mode internal error
// messages are not redacted from responses.
func NewBaseApp(store *StoreApp, decoder coffer.TxDecoder, handler coffer.Handler, debug bool) BaseApp {
	return BaseApp{
		StoreApp: store.WithDebug(debug),
		decoder:  decoder,
		handler:  handler,
		debug:    debug,
	}
}

func (b BaseApp) DeliverTx(txBytes []byte) abci.ResponseDeliverTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return coffer.DeliverTxError(err, b.debug)
	}
	res, err := b.handler.Deliver(b.txContext("deliver_tx", tx), b.DeliverStore(), tx)
	return coffer.DeliverOrError(res, err, b.debug)
}

func (b BaseApp) CheckTx(txBytes []byte) abci.ResponseCheckTx {
	tx, err := b.decode(txBytes)
	if err != nil {
		return coffer.CheckTxError(err, b.debug)
	}
	res, err := b.handler.Check(b.txContext("check_tx", tx), b.CheckStore(), tx)
	return coffer.CheckOrError(res, err, b.debug)
}

func (b BaseApp) txContext(call string, tx coffer.Tx) coffer.Context {
	return coffer.WithLogInfo(b.BlockContext(), "call", call, "path", coffer.GetPath(tx))
}

// decode turns a panicking decoder into an error.
func (b BaseApp) decode(txBytes []byte) (tx coffer.Tx, err error) {
	defer errors.Recover(&err)
	return b.decoder(txBytes)
}
