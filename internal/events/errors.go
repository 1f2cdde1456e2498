package events

import "errors"

// ErrTooFewColumns is returned when a CSV row has fewer than the six
// LOBSTER columns (time, type, order_id, size, price, direction).
var ErrTooFewColumns = errors.New("events: row has too few columns")

// ErrEmptyFile is returned when the CSV input contains no data rows.
var ErrEmptyFile = errors.New("events: input file contains no rows")
