// Package csvstream converts between CSV records and ledger domain types.
//
// The decoder yields input events lazily in arrival order; the encoder renders
// account snapshots with fixed decimal precision.
package csvstream

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/go-petr/tx-ledger/internal/domain"
)

// Decoder reads transaction records from a CSV stream.
type Decoder struct {
	reader *csv.Reader
	row    int
}

// NewDecoder returns a decoder over r.
//
// An optional leading header row is skipped. The amount column may be absent
// or empty for dispute, resolve and chargeback records.
func NewDecoder(r io.Reader) *Decoder {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	return &Decoder{reader: reader}
}

// Next returns the next event in the stream.
//
// It returns io.EOF at end of stream. Records with an unrecognized type or an
// unparseable amount are reported with errors matching
// domain.ErrUnknownTransactionKind and domain.ErrInvalidAmount respectively;
// any other error means the source could not be read.
func (d *Decoder) Next() (domain.Event, error) {
	fields, err := d.reader.Read()
	if err != nil {
		return domain.Event{}, err
	}

	d.row++

	if d.row == 1 && len(fields) > 0 && strings.TrimSpace(fields[0]) == "type" {
		return d.Next()
	}

	if len(fields) < 3 {
		return domain.Event{}, fmt.Errorf("row %d: want at least 3 fields, got %d", d.row, len(fields))
	}

	kind := domain.EventKind(strings.TrimSpace(fields[0]))

	client, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return domain.Event{}, fmt.Errorf("row %d: parsing client id: %w", d.row, err)
	}

	tx, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return domain.Event{}, fmt.Errorf("row %d: parsing transaction id: %w", d.row, err)
	}

	event := domain.Event{
		Kind:     kind,
		ClientID: uint16(client),
		TxID:     uint32(tx),
	}

	switch kind {
	case domain.EventDeposit, domain.EventWithdrawal:
		if len(fields) < 4 || strings.TrimSpace(fields[3]) == "" {
			return domain.Event{}, fmt.Errorf("row %d: %w: missing amount", d.row, domain.ErrInvalidAmount)
		}

		amount, err := decimal.NewFromString(strings.TrimSpace(fields[3]))
		if err != nil {
			return domain.Event{}, fmt.Errorf("row %d: %w: %s", d.row, domain.ErrInvalidAmount, fields[3])
		}

		event.Amount = amount
	case domain.EventDispute, domain.EventResolve, domain.EventChargeback:
		// The amount column is ignored for dispute lifecycle records.
	default:
		return domain.Event{}, fmt.Errorf("row %d: %w: %q", d.row, domain.ErrUnknownTransactionKind, fields[0])
	}

	return event, nil
}
