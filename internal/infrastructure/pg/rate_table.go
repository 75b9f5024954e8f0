package pg

import (
	"context"
	"fmt"
	"strconv"

	"rateoracle-service/internal/application"
	"rateoracle-service/internal/domain"
	"rateoracle-service/internal/infrastructure/logx"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var _ application.RateTable = (*RateTable)(nil)

type RateTable struct{ db *DB }

func NewRateTable(db *DB) *RateTable { return &RateTable{db: db} }

// Save upserts the row. Inside a unit of work it first takes a per-denom
// advisory lock so concurrent writers cannot interleave append and prune.
func (r *RateTable) Save(ctx context.Context, denom string, seq uint64, rec domain.RateRecord) error {
	const up = `
        INSERT INTO rates(denom, sequence, purchase_rate, redemption_rate, update_time)
        VALUES ($1, $2::numeric, $3::numeric, $4::numeric, $5)
        ON CONFLICT (denom, sequence) DO UPDATE
          SET purchase_rate=EXCLUDED.purchase_rate,
              redemption_rate=EXCLUDED.redemption_rate,
              update_time=EXCLUDED.update_time`
	log := logx.L().With(
		zap.String("repo", "rates"),
		zap.String("operation", "Save"),
		zap.String("denom", denom),
		zap.Uint64("sequence", seq),
	)
	q := r.db.q(ctx)
	if txFromCtx(ctx) != nil {
		if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, denom); err != nil {
			log.Error("sql.lock_failed", zap.Error(err))
			return err
		}
	}
	log.Debug("sql.exec_start")
	tag, err := q.Exec(ctx, up, denom, strconv.FormatUint(seq, 10),
		rec.PurchaseRate.String(), rec.RedemptionRate.String(), int64(rec.UpdateTime))
	if err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return err
	}
	log.Debug("sql.exec_success", zap.Int64("rows_affected", tag.RowsAffected()))
	return nil
}

func (r *RateTable) Delete(ctx context.Context, denom string, seq uint64) error {
	_, err := r.db.q(ctx).Exec(ctx, `DELETE FROM rates WHERE denom=$1 AND sequence=$2::numeric`,
		denom, strconv.FormatUint(seq, 10))
	return err
}

func (r *RateTable) Count(ctx context.Context, denom string) (int, error) {
	var n int
	err := r.db.q(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM rates WHERE denom=$1`, denom).Scan(&n)
	return n, err
}

func (r *RateTable) Scan(ctx context.Context, denom string, order application.Order, limit int) ([]domain.RateEntry, error) {
	dir := "ASC"
	if order == application.Descending {
		dir = "DESC"
	}
	sql := `
        SELECT sequence::text, purchase_rate::text, redemption_rate::text, update_time
        FROM rates WHERE denom=$1
        ORDER BY sequence ` + dir
	args := []any{denom}
	if limit >= 0 {
		sql += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.db.q(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []domain.RateEntry
	for rows.Next() {
		var seq, purchase, redemption string
		var updateTime int64
		if err := rows.Scan(&seq, &purchase, &redemption, &updateTime); err != nil {
			return nil, err
		}
		e, err := decodeEntry(seq, purchase, redemption, updateTime)
		if err != nil {
			return nil, fmt.Errorf("decode rate %q/%s: %w", denom, seq, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func decodeEntry(seq, purchase, redemption string, updateTime int64) (domain.RateEntry, error) {
	s, err := strconv.ParseUint(seq, 10, 64)
	if err != nil {
		return domain.RateEntry{}, err
	}
	p, err := decimal.NewFromString(purchase)
	if err != nil {
		return domain.RateEntry{}, err
	}
	rd, err := decimal.NewFromString(redemption)
	if err != nil {
		return domain.RateEntry{}, err
	}
	return domain.RateEntry{
		Sequence: s,
		Record:   domain.RateRecord{PurchaseRate: p, RedemptionRate: rd, UpdateTime: uint64(updateTime)},
	}, nil
}
