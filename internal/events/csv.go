package events

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

// FromCSVFile reads a LOBSTER-format message file and returns the parsed
// Event sequence in file order. The six columns are: time (fractional
// seconds), type, order_id, size magnitude, price, side. The parser trusts
// the numeric content of well-formed rows (spec Non-goal: handling
// malformed input is out of scope) but does reject structurally short rows.
func FromCSVFile(path string, logger *zap.Logger) ([]Event, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("events: read %s: %w", path, err)
	}

	if logger != nil {
		sum := blake2b.Sum256(raw)
		logger.Info("ingesting CSV file",
			zap.String("path", path),
			zap.Int("bytes", len(raw)),
			zap.String("blake2b_256", fmt.Sprintf("%x", sum)))
	}

	reader := csv.NewReader(bytes.NewReader(raw))
	// Column count is checked by parseRow, which reports ErrTooFewColumns.
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	var out []Event
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("events: row %d: %w", row, err)
		}

		ev, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("events: row %d: %w", row, err)
		}
		out = append(out, ev)
		row++
	}

	if len(out) == 0 {
		return nil, ErrEmptyFile
	}

	return out, nil
}

func parseRow(record []string) (Event, error) {
	if len(record) < 6 {
		return Event{}, ErrTooFewColumns
	}

	timeSeconds, err := strconv.ParseFloat(record[0], 64)
	if err != nil {
		return Event{}, fmt.Errorf("time column: %w", err)
	}

	typ, err := strconv.ParseUint(record[1], 10, 8)
	if err != nil {
		return Event{}, fmt.Errorf("type column: %w", err)
	}

	orderID, err := strconv.ParseUint(record[2], 10, 32)
	if err != nil {
		return Event{}, fmt.Errorf("order_id column: %w", err)
	}

	sizeMagnitude, err := strconv.ParseUint(record[3], 10, 16)
	if err != nil {
		return Event{}, fmt.Errorf("size column: %w", err)
	}

	price, err := strconv.ParseUint(record[4], 10, 32)
	if err != nil {
		return Event{}, fmt.Errorf("price column: %w", err)
	}

	side, err := strconv.ParseInt(record[5], 10, 8)
	if err != nil {
		return Event{}, fmt.Errorf("side column: %w", err)
	}

	return Event{
		Time:    uint32(timeSeconds),
		Type:    EventType(typ),
		OrderID: uint32(orderID),
		Size:    int32(sizeMagnitude) * int32(side),
		Price:   uint32(price),
	}, nil
}
