package bank

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
)

// Controller is the functionality other extensions use to move value.
type Controller interface {
	Balance(db paystream.ReadOnlyKVStore, addr paystream.Address) (uint64, error)
	Credit(db paystream.KVStore, addr paystream.Address, amount uint64) error
	Debit(db paystream.KVStore, addr paystream.Address, amount uint64) error
	Move(db paystream.KVStore, src, dest paystream.Address, amount uint64) error
}

// BaseController keeps balances in the wallets bucket.
type BaseController struct {
	bucket orm.Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller over the wallets bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Balance returns the lamports held by given address. Unknown addresses
// hold nothing.
func (c BaseController) Balance(db paystream.ReadOnlyKVStore, addr paystream.Address) (uint64, error) {
	if err := addr.Validate(); err != nil {
		return 0, errors.Wrap(err, "address")
	}
	var w Wallet
	switch err := c.bucket.One(db, addr, &w); {
	case err == nil:
		return w.Lamports, nil
	case errors.ErrNotFound.Is(err):
		return 0, nil
	default:
		return 0, err
	}
}

// Credit adds lamports to given address.
func (c BaseController) Credit(db paystream.KVStore, addr paystream.Address, amount uint64) error {
	bal, err := c.Balance(db, addr)
	if err != nil {
		return err
	}
	if bal+amount < bal {
		return errors.Wrapf(errors.ErrOverflow, "credit %d to %s", amount, addr)
	}
	return c.bucket.Put(db, addr, &Wallet{Lamports: bal + amount})
}

// Debit removes lamports from given address. It fails if the balance is
// too low.
func (c BaseController) Debit(db paystream.KVStore, addr paystream.Address, amount uint64) error {
	bal, err := c.Balance(db, addr)
	if err != nil {
		return err
	}
	if bal < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, need %d", bal, amount)
	}
	return c.bucket.Put(db, addr, &Wallet{Lamports: bal - amount})
}

// Move transfers lamports between two addresses. Both balances are checked
// before anything is written.
func (c BaseController) Move(db paystream.KVStore, src, dest paystream.Address, amount uint64) error {
	if amount == 0 {
		return errors.Wrap(errors.ErrInvalidAmount, "zero transfer")
	}
	if src.Equals(dest) {
		_, err := c.Balance(db, src)
		return err
	}
	from, err := c.Balance(db, src)
	if err != nil {
		return err
	}
	if from < amount {
		return errors.Wrapf(errors.ErrInsufficientFunds, "balance %d, need %d", from, amount)
	}
	to, err := c.Balance(db, dest)
	if err != nil {
		return err
	}
	if to+amount < to {
		return errors.Wrapf(errors.ErrOverflow, "credit %d to %s", amount, dest)
	}
	if err := c.bucket.Put(db, src, &Wallet{Lamports: from - amount}); err != nil {
		return err
	}
	return c.bucket.Put(db, dest, &Wallet{Lamports: to + amount})
}
