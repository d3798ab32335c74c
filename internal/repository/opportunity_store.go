package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/david89it/trading-opportunities-platform/internal/domain/models"
	domrepo "github.com/david89it/trading-opportunities-platform/internal/domain/repository"
	pkgch "github.com/david89it/trading-opportunities-platform/pkg/clickhouse"
	applogger "github.com/david89it/trading-opportunities-platform/pkg/logger"

	"github.com/google/uuid"
)

const opportunityColumns = `id, symbol, ts,
	score_price, score_volume, score_volatility, score_overall,
	entry, stop, target1, target2, position_size_usd, position_size_shares, rr_ratio,
	p_target, net_expected_r, costs_r, slippage_bps,
	features, status, reason, version`

// CHOpportunityStore implements OpportunityStore backed by ClickHouse.
type CHOpportunityStore struct {
	db    *sql.DB
	table string
	l     *applogger.Logger
}

func NewCHOpportunityStore(ch *pkgch.Client, database string) *CHOpportunityStore {
	return &CHOpportunityStore{db: ch.DB(), table: database + ".opportunities"}
}

// SetLogger injects a structured logger.
func (s *CHOpportunityStore) SetLogger(l *applogger.Logger) { s.l = l }

func (s *CHOpportunityStore) Save(ctx context.Context, opp *models.Opportunity) error {
	return s.SaveBatch(ctx, []*models.Opportunity{opp})
}

func (s *CHOpportunityStore) SaveBatch(ctx context.Context, opps []*models.Opportunity) error {
	if len(opps) == 0 {
		return nil
	}
	start := time.Now()

	values := make([]string, 0, len(opps))
	args := make([]interface{}, 0, len(opps)*22)
	for _, o := range opps {
		if o == nil || o.Symbol == "" {
			continue
		}
		features, err := json.Marshal(o.Features)
		if err != nil {
			return fmt.Errorf("marshal features: %w", err)
		}
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			o.ID.String(), o.Symbol, o.Timestamp,
			o.Scores.Price, o.Scores.Volume, o.Scores.Volatility, o.Scores.Overall,
			o.Setup.Entry, o.Setup.Stop, o.Setup.Target1, o.Setup.Target2,
			o.Setup.PositionSizeUSD, int32(o.Setup.PositionSizeShare), o.Setup.RRRatio,
			o.Risk.PTarget, o.Risk.NetExpectedR, o.Risk.CostsR, o.Risk.SlippageBps,
			string(features), string(o.Status), o.Reason, o.Version,
		)
	}
	if len(values) == 0 {
		return nil
	}

	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES %s", s.table, opportunityColumns, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		if s.l != nil {
			s.l.Error("clickhouse save_opportunities error",
				applogger.Int("rows", len(values)),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("save opportunities: %w", err)
	}
	if s.l != nil {
		s.l.Info("clickhouse save_opportunities ok",
			applogger.Int("rows", len(values)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

func (s *CHOpportunityStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error) {
	q := fmt.Sprintf("SELECT %s FROM %s WHERE id = ? LIMIT 1", opportunityColumns, s.table)
	row := s.db.QueryRowContext(ctx, q, id.String())

	opp, err := scanOpportunity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domrepo.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get opportunity: %w", err)
	}
	return opp, nil
}

func (s *CHOpportunityStore) List(ctx context.Context, filter domrepo.OpportunityFilter) ([]*models.Opportunity, int64, error) {
	where, args := buildOpportunityWhere(filter)

	var total int64
	countQ := fmt.Sprintf("SELECT count() FROM %s %s", s.table, where)
	if err := s.db.QueryRowContext(ctx, countQ, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count opportunities: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	q := fmt.Sprintf("SELECT %s FROM %s %s ORDER BY ts DESC, score_overall DESC LIMIT ? OFFSET ?",
		opportunityColumns, s.table, where)
	rows, err := s.db.QueryContext(ctx, q, append(args, limit, filter.Offset)...)
	if err != nil {
		if s.l != nil {
			s.l.Error("clickhouse list_opportunities query error", applogger.Error(err))
		}
		return nil, 0, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Opportunity, 0, limit)
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan opportunity: %w", err)
		}
		out = append(out, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows: %w", err)
	}
	return out, total, nil
}

func buildOpportunityWhere(f domrepo.OpportunityFilter) (string, []interface{}) {
	conds := make([]string, 0, 5)
	args := make([]interface{}, 0, 5)
	if f.Symbol != "" {
		conds = append(conds, "symbol = ?")
		args = append(args, f.Symbol)
	}
	if f.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, string(f.Status))
	}
	if f.MinScore > 0 {
		conds = append(conds, "score_overall >= ?")
		args = append(args, f.MinScore)
	}
	if f.From != nil {
		conds = append(conds, "ts >= ?")
		args = append(args, *f.From)
	}
	if f.To != nil {
		conds = append(conds, "ts <= ?")
		args = append(args, *f.To)
	}
	if len(conds) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanOpportunity(r rowScanner) (*models.Opportunity, error) {
	var (
		o        models.Opportunity
		id       string
		shares   int32
		features string
		status   string
	)
	if err := r.Scan(
		&id, &o.Symbol, &o.Timestamp,
		&o.Scores.Price, &o.Scores.Volume, &o.Scores.Volatility, &o.Scores.Overall,
		&o.Setup.Entry, &o.Setup.Stop, &o.Setup.Target1, &o.Setup.Target2,
		&o.Setup.PositionSizeUSD, &shares, &o.Setup.RRRatio,
		&o.Risk.PTarget, &o.Risk.NetExpectedR, &o.Risk.CostsR, &o.Risk.SlippageBps,
		&features, &status, &o.Reason, &o.Version,
	); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse id: %w", err)
	}
	o.ID = parsed
	o.Setup.PositionSizeShare = int(shares)
	o.Status = models.GuardrailStatus(status)
	if err := json.Unmarshal([]byte(features), &o.Features); err != nil {
		return nil, fmt.Errorf("unmarshal features: %w", err)
	}
	return &o, nil
}
