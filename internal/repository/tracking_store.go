package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	domrepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	pkgch "github.com/david89it/trading-opportunities-platform/pkg/clickhouse"
	applogger "github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/google/uuid"
)

// CHTrackingStore implements TrackingStore backed by ClickHouse.
type CHTrackingStore struct {
	db           *sql.DB
	signalTable  string
	journalTable string
	l            *applogger.Logger
}

func NewCHTrackingStore(ch *pkgch.Client, database string) *CHTrackingStore {
	return &CHTrackingStore{
		db:           ch.DB(),
		signalTable:  database + ".signal_history",
		journalTable: database + ".trade_journal",
	}
}

// SetLogger injects a structured logger.
func (s *CHTrackingStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHTrackingStore) SaveSignal(ctx context.Context, sig *models.SignalHistory) error {
	q := fmt.Sprintf(`INSERT INTO %s
		(id, opportunity_id, symbol, signal_score, p_target, entry, stop, target1,
		 rr_ratio, signal_time, outcome, outcome_time, mfe, mae, actual_r, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.signalTable)
	_, err := s.db.ExecContext(ctx, q,
		sig.ID.String(), sig.OpportunityID.String(), sig.Symbol,
		sig.SignalScore, sig.PTarget, sig.Entry, sig.Stop, sig.Target1,
		sig.RRRatio, sig.SignalTime, string(sig.Outcome), sig.OutcomeTime,
		sig.MFE, sig.MAE, sig.ActualR, sig.Notes,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_signal error",
				applogger.String("symbol", sig.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save signal: %w", err)
	}
	return nil
}

// UpdateSignalOutcome resolves a tracked signal via a ClickHouse mutation.
// Mutations are asynchronous; callers should not expect read-after-write.
func (s *CHTrackingStore) UpdateSignalOutcome(ctx context.Context, id uuid.UUID, outcome models.SignalOutcome, outcomeTime time.Time, mfe, mae, actualR float64) error {
	q := fmt.Sprintf(`ALTER TABLE %s UPDATE
		outcome = ?, outcome_time = ?, mfe = ?, mae = ?, actual_r = ?
		WHERE id = ?`, s.signalTable)
	if _, err := s.db.ExecContext(ctx, q,
		string(outcome), outcomeTime, mfe, mae, actualR, id.String(),
	); err != nil {
		return fmt.Errorf("update signal outcome: %w", err)
	}
	return nil
}

func (s *CHTrackingStore) ListSignals(ctx context.Context, filter domrepo.SignalFilter) ([]*models.SignalHistory, int64, error) {
	where, args := buildSignalWhere(filter)

	var total int64
	if err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT count() FROM %s %s", s.signalTable, where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count signals: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q := fmt.Sprintf(`SELECT id, opportunity_id, symbol, signal_score, p_target,
		entry, stop, target1, rr_ratio, signal_time, outcome, outcome_time, mfe, mae, actual_r, notes
		FROM %s %s ORDER BY signal_time DESC LIMIT ? OFFSET ?`, s.signalTable, where)
	rows, err := s.db.QueryContext(ctx, q, append(args, limit, filter.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	out := make([]*models.SignalHistory, 0, limit)
	for rows.Next() {
		var (
			sig         models.SignalHistory
			id, oppID   string
			outcome     string
			outcomeTime sql.NullTime
		)
		if err := rows.Scan(
			&id, &oppID, &sig.Symbol, &sig.SignalScore, &sig.PTarget,
			&sig.Entry, &sig.Stop, &sig.Target1, &sig.RRRatio, &sig.SignalTime,
			&outcome, &outcomeTime, &sig.MFE, &sig.MAE, &sig.ActualR, &sig.Notes,
		); err != nil {
			return nil, 0, fmt.Errorf("scan signal: %w", err)
		}
		if sig.ID, err = uuid.Parse(id); err != nil {
			return nil, 0, fmt.Errorf("parse id: %w", err)
		}
		if sig.OpportunityID, err = uuid.Parse(oppID); err != nil {
			return nil, 0, fmt.Errorf("parse opportunity id: %w", err)
		}
		sig.Outcome = models.SignalOutcome(outcome)
		if outcomeTime.Valid {
			t := outcomeTime.Time
			sig.OutcomeTime = &t
		}
		out = append(out, &sig)
	}
	return out, total, rows.Err()
}

func (s *CHTrackingStore) SaveTrade(ctx context.Context, trade *models.TradeEntry) error {
	q := fmt.Sprintf(`INSERT INTO %s
		(id, symbol, side, entry_price, exit_price, shares, entry_time,
		 exit_time, exit_reason, realized_r, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, s.journalTable)
	_, err := s.db.ExecContext(ctx, q,
		trade.ID.String(), trade.Symbol, string(trade.Side),
		trade.EntryPrice, trade.ExitPrice, int32(trade.Shares), trade.EntryTime,
		trade.ExitTime, string(trade.ExitReason), trade.RealizedR, trade.Notes,
	)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_trade error",
				applogger.String("symbol", trade.Symbol),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save trade: %w", err)
	}
	return nil
}

func (s *CHTrackingStore) ListTrades(ctx context.Context, symbol string, limit, offset int) ([]*models.TradeEntry, int64, error) {
	where, args := symbolWhere(symbol)

	var total int64
	if err := s.db.QueryRowContext(ctx,
		fmt.Sprintf("SELECT count() FROM %s %s", s.journalTable, where), args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count trades: %w", err)
	}

	if limit <= 0 {
		limit = 50
	}
	q := fmt.Sprintf(`SELECT id, symbol, side, entry_price, exit_price, shares,
		entry_time, exit_time, exit_reason, realized_r, notes
		FROM %s %s ORDER BY entry_time DESC LIMIT ? OFFSET ?`, s.journalTable, where)
	rows, err := s.db.QueryContext(ctx, q, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list trades: %w", err)
	}
	defer rows.Close()

	out := make([]*models.TradeEntry, 0, limit)
	for rows.Next() {
		var (
			tr         models.TradeEntry
			id         string
			side       string
			shares     int32
			exitTime   sql.NullTime
			exitReason string
		)
		if err := rows.Scan(
			&id, &tr.Symbol, &side, &tr.EntryPrice, &tr.ExitPrice, &shares,
			&tr.EntryTime, &exitTime, &exitReason, &tr.RealizedR, &tr.Notes,
		); err != nil {
			return nil, 0, fmt.Errorf("scan trade: %w", err)
		}
		if tr.ID, err = uuid.Parse(id); err != nil {
			return nil, 0, fmt.Errorf("parse id: %w", err)
		}
		tr.Side = models.TradeSide(side)
		tr.Shares = int(shares)
		tr.ExitReason = models.ExitReason(exitReason)
		if exitTime.Valid {
			t := exitTime.Time
			tr.ExitTime = &t
		}
		out = append(out, &tr)
	}
	return out, total, rows.Err()
}

// GetSignalStats aggregates resolved outcomes in one query. Empty symbol
// aggregates across the whole history.
func (s *CHTrackingStore) GetSignalStats(ctx context.Context, symbol string) (*models.SignalStats, error) {
	where, args := symbolWhere(symbol)
	q := fmt.Sprintf(`SELECT
		count(),
		countIf(outcome = 'target_hit'),
		countIf(outcome = 'stopped_out'),
		countIf(outcome = 'expired'),
		countIf(outcome = 'still_open'),
		avgIf(actual_r, outcome != 'still_open'),
		avg(p_target)
		FROM %s %s`, s.signalTable, where)

	var (
		stats models.SignalStats
		avgR  sql.NullFloat64
		avgP  sql.NullFloat64
	)
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(
		&stats.TotalSignals, &stats.TargetHit, &stats.StoppedOut,
		&stats.Expired, &stats.StillOpen, &avgR, &avgP,
	); err != nil {
		return nil, fmt.Errorf("signal stats: %w", err)
	}

	stats.AvgActualR = avgR.Float64
	stats.AvgPTarget = avgP.Float64
	if resolved := stats.TargetHit + stats.StoppedOut + stats.Expired; resolved > 0 {
		stats.HitRate = float64(stats.TargetHit) / float64(resolved)
	}
	return &stats, nil
}

func buildSignalWhere(f domrepo.SignalFilter) (string, []interface{}) {
	conds := make([]string, 0, 3)
	args := make([]interface{}, 0, 3)
	if f.Symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, f.Symbol)
	}
	if f.From != nil {
		conds = append(conds, "signal_time >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, "signal_time <= ?")
		args = append(args, *f.To)
	}
	if len(conds) == 0 {
		return "", args
	}
	where := "WHERE " + conds[0]
	for _, c := range conds[1:] {
		where += " AND " + c
	}
	return where, args
}

func symbolWhere(symbol string) (string, []interface{}) {
	if symbol == "" {
		return "", nil
	}
	return "WHERE symbol = ?", []interface{}{symbol}
}
