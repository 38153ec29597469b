package backtest

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV renders the ledger as CSV for export and downstream reporting.
func (l *Ledger) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date", "position", "signal", "gross_pnl", "cost", "net_pnl", "equity", "segment"}); err != nil {
		return err
	}
	for _, r := range l.Rows {
		rec := []string{
			r.Date.Format("2006-01-02"),
			strconv.Itoa(int(r.Position)),
			strconv.Itoa(int(r.Signal)),
			strconv.FormatFloat(r.GrossPnL, 'g', -1, 64),
			strconv.FormatFloat(r.Cost, 'g', -1, 64),
			strconv.FormatFloat(r.NetPnL, 'g', -1, 64),
			strconv.FormatFloat(r.Equity, 'g', -1, 64),
			r.Segment,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
