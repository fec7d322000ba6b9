package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mauv0809/statement-glance/internal/models"
)

const periodLayout = "2006-01-02"

// Repository archives fetched income statements.
type Repository struct {
	pool   *pgxpool.Pool
	source string
	now    func() time.Time
}

// NewRepository creates a repository that tags every row with source.
func NewRepository(pool *pgxpool.Pool, source string) *Repository {
	return &Repository{pool: pool, source: source, now: time.Now}
}

// ArchiveStatements inserts or updates one row per period.
// Returns the number of rows affected.
func (r *Repository) ArchiveStatements(ctx context.Context, records []models.IncomeStatement) (int, error) {
	rows := archiveRows(r.source, r.now(), records)
	if len(rows) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, row := range rows {
		batch.Queue(`
			INSERT INTO income_statements (
				source, period_date,
				revenue, net_income, gross_profit, eps, operating_income,
				fetched_at, updated_at
			) VALUES (
				$1, $2,
				$3, $4, $5, $6, $7,
				$8, NOW()
			)
			ON CONFLICT (source, period_date) DO UPDATE SET
				revenue = EXCLUDED.revenue,
				net_income = EXCLUDED.net_income,
				gross_profit = EXCLUDED.gross_profit,
				eps = EXCLUDED.eps,
				operating_income = EXCLUDED.operating_income,
				fetched_at = EXCLUDED.fetched_at,
				updated_at = NOW()
		`,
			row.Source, row.PeriodDate,
			row.Revenue, row.NetIncome, row.GrossProfit, row.EPS, row.OperatingIncome,
			row.FetchedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	count := 0
	for range rows {
		_, err := br.Exec()
		if err != nil {
			return count, fmt.Errorf("upserting income statement: %w", err)
		}
		count++
	}

	return count, nil
}

// archiveRows converts records to archive rows. Records without a valid
// YYYY-MM-DD date have no period key and are skipped.
func archiveRows(source string, fetchedAt time.Time, records []models.IncomeStatement) []models.ArchivedStatement {
	rows := make([]models.ArchivedStatement, 0, len(records))
	for _, rec := range records {
		period, err := time.Parse(periodLayout, rec.Date)
		if err != nil {
			continue
		}
		rows = append(rows, models.ArchivedStatement{
			Source:          source,
			PeriodDate:      period,
			Revenue:         rec.Revenue,
			NetIncome:       rec.NetIncome,
			GrossProfit:     rec.GrossProfit,
			EPS:             rec.EPS,
			OperatingIncome: rec.OperatingIncome,
			FetchedAt:       fetchedAt,
		})
	}
	return rows
}
