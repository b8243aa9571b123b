package sim

import "errors"

var (
	// ErrInsufficientFunds rejects a buy the cash balance cannot cover,
	// commission included. The order has no effect.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares rejects a sell of more shares than are held.
	// The order has no effect.
	ErrInsufficientShares = errors.New("insufficient shares")

	// ErrInvalidConfig is fatal at construction or run start: commission
	// rate outside [0, 1], negative starting cash, missing provider.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidInterval is fatal at run start: end date not after start.
	ErrInvalidInterval = errors.New("end date must be after start date")

	// ErrPriceUnavailable means valuation found no resolvable price within
	// the bounded lookback window.
	ErrPriceUnavailable = errors.New("no resolvable price within lookback window")
)
