package ledger

import "errors"

var (
	ErrInvalidPrice        = errors.New("price must be greater than zero")
	ErrFeeMismatch         = errors.New("payment must be equal to listing fee")
	ErrFeeExceedsPrice     = errors.New("price must not be less than listing fee")
	ErrPriceMismatch       = errors.New("payment must be equal to asking price")
	ErrItemNotFound        = errors.New("item does not exist")
	ErrItemNotActive       = errors.New("item is not active")
	ErrUnsupportedRegistry = errors.New("registry does not support the required entrypoint")
	ErrRegistryMismatch    = errors.New("registry address does not match the listed item")
	ErrNotTokenOwner       = errors.New("caller does not own the token")
	ErrNotSeller           = errors.New("caller is not the seller")
	ErrSettlementFailed    = errors.New("settlement batch was rejected")
)
