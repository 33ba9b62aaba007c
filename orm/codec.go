package orm

import (
	amino "github.com/tendermint/go-amino"
)

// cdc encodes the orm internal bookkeeping values, such as index
// reference lists. Models carry their own serialization.
var cdc = amino.NewCodec()
