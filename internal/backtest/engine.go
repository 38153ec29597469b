package backtest

import (
	"fmt"
	"math"
	"time"

	"golang-statarb/internal/series"
)

// Position is the spread position held on a given day. The sign convention
// follows the PnL formula directly: +1 shorts leg A and holds beta-weighted
// leg B, -1 is the mirror image.
type Position int

const (
	Flat        Position = 0
	ShortSpread Position = 1
	LongSpread  Position = -1
)

func (p Position) String() string {
	switch p {
	case ShortSpread:
		return "short_spread"
	case LongSpread:
		return "long_spread"
	default:
		return "flat"
	}
}

// Params configures a single engine run.
type Params struct {
	ZEntry             float64 `json:"z_entry"`
	ZExit              float64 `json:"z_exit"`
	ZStop              float64 `json:"z_stop"`
	TimeStopDays       int     `json:"time_stop_days"` // 0 disables the time stop
	PerTradeNotional   float64 `json:"per_trade_notional"`
	CommissionPerShare float64 `json:"commission_per_share"`
	SpreadBps          float64 `json:"spread_bps"`
	SlippageBps        float64 `json:"slippage_bps"`
	DollarNeutral      bool    `json:"dollar_neutral"`
}

func (p Params) validate() error {
	if p.ZEntry <= 0 {
		return fmt.Errorf("z_entry must be positive, got %g", p.ZEntry)
	}
	if p.ZExit < 0 || p.ZExit >= p.ZEntry {
		return fmt.Errorf("z_exit must be in [0, z_entry), got %g", p.ZExit)
	}
	if p.ZStop <= p.ZEntry {
		return fmt.Errorf("z_stop must exceed z_entry, got %g", p.ZStop)
	}
	if p.TimeStopDays < 0 {
		return fmt.Errorf("time stop must be >= 0, got %d", p.TimeStopDays)
	}
	if p.PerTradeNotional <= 0 {
		return fmt.Errorf("per-trade notional must be positive, got %g", p.PerTradeNotional)
	}
	if p.CommissionPerShare < 0 || p.SpreadBps < 0 || p.SlippageBps < 0 {
		return fmt.Errorf("costs must be non-negative")
	}
	return nil
}

// Row is one day of the trade ledger. Position is the position held during
// the day (the prior close's decision, one-day execution lag); Signal is the
// state decided at this day's close. Cost is signed negative.
type Row struct {
	Date     time.Time `json:"date"`
	Position Position  `json:"position"`
	Signal   Position  `json:"signal"`
	GrossPnL float64   `json:"gross_pnl"`
	Cost     float64   `json:"cost"`
	NetPnL   float64   `json:"net_pnl"`
	Equity   float64   `json:"equity"`
	Segment  string    `json:"segment,omitempty"`
}

// Ledger is the per-day output of a backtest, immutable once produced.
type Ledger struct {
	Rows []Row
}

// NetPnL extracts the net PnL column.
func (l *Ledger) NetPnL() []float64 {
	out := make([]float64, len(l.Rows))
	for i, r := range l.Rows {
		out[i] = r.NetPnL
	}
	return out
}

// Turnover is the magnitude of a position change; a direct flip from short
// to long spread counts as 2.
func Turnover(prev, next Position) float64 {
	d := int(next) - int(prev)
	if d < 0 {
		d = -d
	}
	return float64(d)
}

// Run simulates the day-by-day position state machine over a z-score signal.
//
// Transition rules, evaluated at each close with the current day's z and the
// previous close's state:
//
//   - FLAT enters on a threshold *crossing*: short spread when z moves from
//     below z_entry to at/above it, long spread mirrored at -z_entry. Merely
//     sitting beyond the threshold does not re-enter.
//   - An open position exits to flat when |z| <= z_exit, when |z| > z_stop,
//     or when the time stop expires.
//
// An undefined z (unfilled rolling window, zero-variance window) never
// triggers an entry or an exit; an open position rides through it, and only
// the time stop can close it while z is undefined. Entries additionally
// require the previous day's z to be defined, since a crossing needs both
// sides.
//
// The decided position earns the *next* day's return (one-day execution
// lag), sized at the close preceding the holding day. Costs are charged on
// the day the held position changes, at that day's close.
func Run(pxA, pxB *series.Series, beta float64, z *series.Optional, p Params) (*Ledger, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	a, b, err := series.Align(pxA, pxB)
	if err != nil {
		return nil, err
	}
	n := a.Len()
	if z.Len() != n {
		return nil, fmt.Errorf("z-score length %d does not match price length %d", z.Len(), n)
	}
	for i := 0; i < n; i++ {
		if !z.Date(i).Equal(a.Date(i)) {
			return nil, fmt.Errorf("z-score index diverges from price index at %s", a.Date(i).Format("2006-01-02"))
		}
	}

	rows := make([]Row, n)
	state := Flat
	daysInPosition := 0
	equity := 0.0
	prevHeld := Flat

	for i := 0; i < n; i++ {
		held := state // decided at the previous close

		var gross float64
		if held != Flat && i > 0 {
			qtyA, qtyB := p.legQuantities(a.Value(i-1), b.Value(i-1), beta)
			retA := a.Value(i)/a.Value(i-1) - 1
			retB := b.Value(i)/b.Value(i-1) - 1
			gross = float64(held) * (-qtyA*a.Value(i-1)*retA + qtyB*b.Value(i-1)*retB)
		}

		// Costs scale with gross traded size; leg quantities enter as
		// magnitudes so a negative hedge ratio still pays.
		var cost float64
		if turnover := Turnover(prevHeld, held); turnover > 0 {
			qtyA, qtyB := p.legQuantities(a.Value(i), b.Value(i), beta)
			perc := (p.SpreadBps + p.SlippageBps) / 1e4
			grossNotional := math.Abs(qtyA)*a.Value(i) + math.Abs(qtyB)*b.Value(i)
			shares := math.Abs(qtyA) + math.Abs(qtyB)
			cost = -turnover * (grossNotional*perc + shares*p.CommissionPerShare)
		}

		// Transition at the close.
		var zPrev series.Value
		if i > 0 {
			zPrev = z.At(i - 1)
		}
		state, daysInPosition = transition(state, daysInPosition, zPrev, z.At(i), p)

		net := gross + cost
		equity += net
		rows[i] = Row{
			Date:     a.Date(i),
			Position: held,
			Signal:   state,
			GrossPnL: gross,
			Cost:     cost,
			NetPnL:   net,
			Equity:   equity,
		}
		prevHeld = held
	}

	return &Ledger{Rows: rows}, nil
}

func (p Params) legQuantities(priceA, priceB, beta float64) (qtyA, qtyB float64) {
	if p.DollarNeutral {
		return (p.PerTradeNotional / 2) / priceA, (p.PerTradeNotional / 2) * beta / priceB
	}
	// Legacy sizing: full notional on leg A, beta-scaled notional on leg B.
	return p.PerTradeNotional / priceA, p.PerTradeNotional * beta / priceB
}

func transition(state Position, daysInPosition int, zPrev, zCur series.Value, p Params) (Position, int) {
	if state == Flat {
		if !zPrev.Valid || !zCur.Valid {
			return Flat, 0
		}
		if zPrev.Float64 < p.ZEntry && zCur.Float64 >= p.ZEntry {
			return ShortSpread, 0
		}
		if zPrev.Float64 > -p.ZEntry && zCur.Float64 <= -p.ZEntry {
			return LongSpread, 0
		}
		return Flat, 0
	}

	if zCur.Valid {
		absZ := zCur.Float64
		if absZ < 0 {
			absZ = -absZ
		}
		if absZ <= p.ZExit || absZ > p.ZStop {
			return Flat, 0
		}
	}
	if p.TimeStopDays > 0 && daysInPosition+1 >= p.TimeStopDays {
		return Flat, 0
	}
	return state, daysInPosition + 1
}
