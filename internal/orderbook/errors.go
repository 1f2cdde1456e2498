package orderbook

import "errors"

// ErrPriceOutOfRange is returned by callers that validate a price against
// PriceMax before indexing the book directly (the book itself trusts its
// caller and does not bounds-check on the hot path).
var ErrPriceOutOfRange = errors.New("orderbook: price out of range")
