package replenish

import "errors"

var (
	ErrReplenish = errors.New("replenishment failed")
	ErrStoreNil  = errors.New("replenish: store cannot be nil")
	ErrSourceNil = errors.New("replenish: topic source cannot be nil")
)
