package storage

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...any) (sql.Result, error)
	QueryContext(context.Context, string, ...any) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...any) *sql.Row
}

// Queries holds the SQL statements of the repository.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// BetEntry is a row of bet_entries.
type BetEntry struct {
	Seq          int64
	ID           uuid.UUID
	OccurredAt   int64 // unix seconds
	OccurredNs   int64 // 0..999999999
	Outcome      string
	Stake        decimal.Decimal
	Odds         decimal.Decimal
	WinAmount    decimal.Decimal
	PotentialWin decimal.Decimal
	Note         string
}

const betEntryColumns = `seq, id, occurred_at, occurred_nanos, outcome, stake, odds, win_amount, potential_win, note`

func scanBetEntry(row interface{ Scan(...any) error }) (BetEntry, error) {
	var e BetEntry
	err := row.Scan(
		&e.Seq,
		&e.ID,
		&e.OccurredAt,
		&e.OccurredNs,
		&e.Outcome,
		&e.Stake,
		&e.Odds,
		&e.WinAmount,
		&e.PotentialWin,
		&e.Note,
	)
	return e, err
}

const createBetEntry = `INSERT INTO bet_entries (id, occurred_at, occurred_nanos, outcome, stake, odds, win_amount, potential_win, note)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING ` + betEntryColumns

type CreateBetEntryParams struct {
	ID           uuid.UUID
	OccurredAt   int64
	OccurredNs   int64
	Outcome      string
	Stake        decimal.Decimal
	Odds         decimal.Decimal
	WinAmount    decimal.Decimal
	PotentialWin decimal.Decimal
	Note         string
}

func (q *Queries) CreateBetEntry(ctx context.Context, arg CreateBetEntryParams) (BetEntry, error) {
	row := q.db.QueryRowContext(ctx, createBetEntry,
		arg.ID,
		arg.OccurredAt,
		arg.OccurredNs,
		arg.Outcome,
		arg.Stake,
		arg.Odds,
		arg.WinAmount,
		arg.PotentialWin,
		arg.Note,
	)
	return scanBetEntry(row)
}

const updateBetEntry = `UPDATE bet_entries
SET occurred_at = ?, occurred_nanos = ?, outcome = ?, stake = ?, odds = ?, win_amount = ?, potential_win = ?, note = ?
WHERE id = ?`

type UpdateBetEntryParams struct {
	OccurredAt   int64
	OccurredNs   int64
	Outcome      string
	Stake        decimal.Decimal
	Odds         decimal.Decimal
	WinAmount    decimal.Decimal
	PotentialWin decimal.Decimal
	Note         string
	ID           uuid.UUID
}

// UpdateBetEntry returns the number of rows changed.
func (q *Queries) UpdateBetEntry(ctx context.Context, arg UpdateBetEntryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateBetEntry,
		arg.OccurredAt,
		arg.OccurredNs,
		arg.Outcome,
		arg.Stake,
		arg.Odds,
		arg.WinAmount,
		arg.PotentialWin,
		arg.Note,
		arg.ID,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteBetEntry = `DELETE FROM bet_entries WHERE id = ?`

// DeleteBetEntry returns the number of rows removed.
func (q *Queries) DeleteBetEntry(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBetEntry, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getBetEntry = `SELECT ` + betEntryColumns + ` FROM bet_entries WHERE id = ?`

func (q *Queries) GetBetEntry(ctx context.Context, id uuid.UUID) (BetEntry, error) {
	return scanBetEntry(q.db.QueryRowContext(ctx, getBetEntry, id))
}

const listBetEntries = `SELECT ` + betEntryColumns + ` FROM bet_entries ORDER BY occurred_at DESC, occurred_nanos DESC, seq ASC`

func (q *Queries) ListBetEntries(ctx context.Context) ([]BetEntry, error) {
	rows, err := q.db.QueryContext(ctx, listBetEntries)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BetEntry
	for rows.Next() {
		e, err := scanBetEntry(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countBetEntries = `SELECT COUNT(*) FROM bet_entries`

func (q *Queries) CountBetEntries(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRowContext(ctx, countBetEntries).Scan(&n)
	return n, err
}

const getSettings = `SELECT key, value FROM settings`

func (q *Queries) GetSettings(ctx context.Context) (map[string]string, error) {
	rows, err := q.db.QueryContext(ctx, getSettings)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

const upsertSetting = `INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`

func (q *Queries) UpsertSetting(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, upsertSetting, key, value)
	return err
}
