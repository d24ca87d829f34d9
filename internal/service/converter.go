package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/harborlane/sheetrate/internal/domain"
	"github.com/harborlane/sheetrate/internal/metrics"
	"github.com/harborlane/sheetrate/internal/workbook"
	"github.com/harborlane/sheetrate/pkg/slogx"
)

var (
	ErrConversionBusy      = errors.New("conversion_in_progress")
	ErrSelectionIncomplete = errors.New("selection_incomplete")
	ErrUnknownCurrency     = errors.New("unknown_currency")
	ErrInvalidCellValue    = errors.New("invalid_cell_value")
	ErrInvalidSide         = errors.New("invalid_side")
)

// MsgInvalidCell is shown in the panel status region when the selected cell
// does not hold a usable number.
const MsgInvalidCell = "Selected cell must contain a number"

// MsgConversionFailed is the fallback status message for conversion errors
// with no more specific text.
const MsgConversionFailed = "Conversion failed"

// Selection side names.
const (
	SideFrom = "from"
	SideTo   = "to"
)

// RateSource is the slice of the rate client the converter needs.
type RateSource interface {
	LoadAll(ctx context.Context) (domain.CurrencySet, error)
	GetRate(ctx context.Context, base, target string) (float64, error)
}

// ConversionResult describes one completed conversion.
type ConversionResult struct {
	Amount    float64
	Rate      float64
	Converted float64
	From      string
	To        string
	Message   string
}

// SelectionState is a snapshot of one session's picker slots.
type SelectionState struct {
	From string
	To   string
}

// converterState is the per-session converter state: the currency set from
// the last successful fetch, the two picker slots, and the in-flight guard.
type converterState struct {
	currencies domain.CurrencySet
	from       string
	to         string
	busy       bool
}

// ConverterService runs the conversion workflow. All state is scoped to a
// session ID; two signed-in sessions never see each other's selection.
type ConverterService struct {
	Rates RateSource
	Host  workbook.Host

	mu       sync.Mutex
	sessions map[string]*converterState
}

func NewConverterService(rates RateSource, host workbook.Host) *ConverterService {
	return &ConverterService{
		Rates:    rates,
		Host:     host,
		sessions: make(map[string]*converterState),
	}
}

// SessionStarted initialises converter state for a new session and makes a
// best-effort currency load. Login succeeds even when the load fails; the
// panel can refresh later.
func (c *ConverterService) SessionStarted(ctx context.Context, sessionID string) {
	c.state(sessionID)
	if err := c.LoadCurrencies(ctx, sessionID); err != nil {
		slogx.FromContext(ctx).Warn("initial currency load failed",
			slog.String("session_id", sessionID),
			slog.Any("error", err),
		)
	}
}

// SessionEnded drops all converter state for the session.
func (c *ConverterService) SessionEnded(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, sessionID)
}

// LoadCurrencies fetches the full currency set and replaces the session's
// set on success. On failure the previous set stays in place untouched.
func (c *ConverterService) LoadCurrencies(ctx context.Context, sessionID string) error {
	set, err := c.Rates.LoadAll(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.stateLocked(sessionID).currencies = set
	return nil
}

// Currencies returns the picker list for the query. If the session has no
// set yet (say the login-time load failed) one more load is attempted before
// filtering; a failure here still just yields an empty list.
func (c *ConverterService) Currencies(ctx context.Context, sessionID, query string) []string {
	c.mu.Lock()
	empty := c.stateLocked(sessionID).currencies.Empty()
	c.mu.Unlock()

	if empty {
		if err := c.LoadCurrencies(ctx, sessionID); err != nil {
			slogx.FromContext(ctx).Warn("currency load failed", slog.Any("error", err))
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(sessionID).currencies.Filter(query)
}

// Select commits a currency code into the from or to slot. Only members of
// the session's current set are accepted; anything else leaves the slot
// unchanged. Selecting the committed code again is a no-op.
func (c *ConverterService) Select(sessionID, side, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))

	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.stateLocked(sessionID)
	if !st.currencies.Contains(code) {
		return ErrUnknownCurrency
	}

	switch side {
	case SideFrom:
		st.from = code
	case SideTo:
		st.to = code
	default:
		return ErrInvalidSide
	}
	return nil
}

// Selection returns the session's current slots.
func (c *ConverterService) Selection(sessionID string) SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sessionID)
	return SelectionState{From: st.from, To: st.to}
}

// Reset clears both slots.
func (c *ConverterService) Reset(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sessionID)
	st.from, st.to = "", ""
}

// Convert runs the full workflow for the session: fetch the pair rate, read
// the selected cell, multiply, write back, report. One conversion per session
// at a time; a second call while one is in flight is rejected outright.
// Slots reset only after a fully successful run.
func (c *ConverterService) Convert(ctx context.Context, sessionID string) (*ConversionResult, error) {
	c.mu.Lock()
	st := c.stateLocked(sessionID)
	if st.busy {
		c.mu.Unlock()
		metrics.ConversionsTotal.WithLabelValues("busy").Inc()
		return nil, ErrConversionBusy
	}
	from, to := st.from, st.to
	if from == "" || to == "" || !st.currencies.Contains(from) || !st.currencies.Contains(to) {
		c.mu.Unlock()
		metrics.ConversionsTotal.WithLabelValues("selection_incomplete").Inc()
		return nil, ErrSelectionIncomplete
	}
	st.busy = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		st.busy = false
		c.mu.Unlock()
	}()

	res, err := c.convert(ctx, from, to)
	if err != nil {
		return nil, err
	}

	// Success: clear the slots for the next conversion.
	c.mu.Lock()
	st.from, st.to = "", ""
	c.mu.Unlock()

	metrics.ConversionsTotal.WithLabelValues("success").Inc()
	return res, nil
}

func (c *ConverterService) convert(ctx context.Context, from, to string) (*ConversionResult, error) {
	l := slogx.FromContext(ctx)

	rate, err := c.Rates.GetRate(ctx, from, to)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("rate_error").Inc()
		return nil, err
	}

	raw, err := c.Host.ReadSelectedCell(ctx)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("host_error").Inc()
		l.Error("failed to read selected cell", slog.Any("error", err))
		return nil, err
	}

	amount, err := coerceNumber(raw)
	if err != nil {
		metrics.ConversionsTotal.WithLabelValues("invalid_cell").Inc()
		return nil, ErrInvalidCellValue
	}

	converted := amount * rate

	// Single atomic write; the original cell value is only replaced here.
	if err := c.Host.WriteSelectedCell(ctx, converted); err != nil {
		metrics.ConversionsTotal.WithLabelValues("host_error").Inc()
		l.Error("failed to write converted value", slog.Any("error", err))
		return nil, err
	}

	return &ConversionResult{
		Amount:    amount,
		Rate:      rate,
		Converted: converted,
		From:      from,
		To:        to,
		Message:   fmt.Sprintf("Converted %v %s → %.2f %s", amount, from, converted, to),
	}, nil
}

// coerceNumber turns a raw cell value into a float64. Numeric cells pass
// through verbatim; text cells are parsed. Anything else, including NaN, is
// rejected.
func coerceNumber(raw any) (float64, error) {
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, ErrInvalidCellValue
		}
		return v, nil
	case float32:
		return coerceNumber(float64(v))
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, ErrInvalidCellValue
		}
		return coerceNumber(f)
	default:
		return 0, ErrInvalidCellValue
	}
}

// state returns the session's converter state, creating it when absent.
func (c *ConverterService) state(sessionID string) *converterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(sessionID)
}

// stateLocked is state without locking; callers hold c.mu.
func (c *ConverterService) stateLocked(sessionID string) *converterState {
	st, ok := c.sessions[sessionID]
	if !ok {
		st = &converterState{}
		c.sessions[sessionID] = st
	}
	return st
}
