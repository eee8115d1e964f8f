package paystream

import (
	"regexp"
	"time"

	"github.com/iov-one/paystream/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	// DefaultLogger is used for all block infos that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// BlockInfo describes the block a transaction is executed in. Its header
// time is the ledger clock: handlers never read the wall clock.
type BlockInfo struct {
	header  abci.Header
	chainID string
	logger  log.Logger
}

// NewBlockInfo creates a BlockInfo struct with current context of where it
// is being executed.
func NewBlockInfo(header abci.Header, chainID string, logger log.Logger) (BlockInfo, error) {
	if !IsValidChainID(chainID) {
		return BlockInfo{}, errors.Wrapf(errors.ErrInvalidInput, "chain id %q", chainID)
	}
	if logger == nil {
		logger = DefaultLogger
	}
	return BlockInfo{
		header:  header,
		chainID: chainID,
		logger:  logger,
	}, nil
}

func (b BlockInfo) Header() abci.Header {
	return b.header
}

func (b BlockInfo) ChainID() string {
	return b.chainID
}

func (b BlockInfo) Height() int64 {
	return b.header.Height
}

func (b BlockInfo) BlockTime() time.Time {
	return b.header.Time
}

// UnixTime returns the block time, which is "now" for every operation
// executed within this block.
func (b BlockInfo) UnixTime() UnixTime {
	return AsUnixTime(b.header.Time)
}

func (b BlockInfo) Logger() log.Logger {
	if b.logger == nil {
		return DefaultLogger
	}
	return b.logger
}

// WithLogInfo accepts keyvalue pairs, and returns another
// block info like this, after passing all the keyvals to the
// Logger
func (b BlockInfo) WithLogInfo(keyvals ...interface{}) BlockInfo {
	b.logger = b.Logger().With(keyvals...)
	return b
}
