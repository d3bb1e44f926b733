package csvstream

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/go-petr/tx-ledger/internal/domain"
)

// Precision is the number of decimal places used to render amounts.
const Precision = 4

// Encoder writes account snapshots as CSV rows.
type Encoder struct {
	writer *csv.Writer
}

// NewEncoder returns an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{writer: csv.NewWriter(w)}
}

// Encode writes a header row followed by one row per account.
//
// Amounts are rendered with fixed precision and total is derived from
// available and held, never taken from stored state.
func (e *Encoder) Encode(accounts []domain.Account) error {
	if err := e.writer.Write([]string{"client", "available", "held", "total", "locked"}); err != nil {
		return err
	}

	for _, account := range accounts {
		row := []string{
			strconv.FormatUint(uint64(account.ClientID), 10),
			account.Available.StringFixed(Precision),
			account.Held.StringFixed(Precision),
			account.Total().StringFixed(Precision),
			strconv.FormatBool(account.Locked),
		}

		if err := e.writer.Write(row); err != nil {
			return err
		}
	}

	e.writer.Flush()

	return e.writer.Error()
}
