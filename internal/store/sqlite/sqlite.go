/*
Package sqlite persists rate tables and computed statements in SQLite.

TABLES:

	rate_entries: one row per rate-table entry, keyed by category and position
	statements:   archived statements, stored as JSON with a few indexed columns

Amounts and rates are stored as TEXT so decimal values round-trip exactly. Dates are stored as
YYYY-MM-DD.

USAGE:

	store, err := sqlite.New("arrear.db")
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	rates, err := store.LoadRateTables(ctx)

Schema is auto-migrated on New().
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when an archived statement does not exist.
var ErrNotFound = errors.New("not found")

const (
	dateLayout      = "2006-01-02"
	// fixed width so created_at sorts lexically
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// nowFunc stamps archived statements; tests replace it.
var nowFunc = func() time.Time { return time.Now().UTC() }

// Store implements rate-table and statement persistence on SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection keeps ":memory:" databases shared across calls
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS rate_entries (
		id TEXT PRIMARY KEY,
		category TEXT NOT NULL,
		position INTEGER NOT NULL,
		from_date TEXT NOT NULL,
		to_date TEXT,
		rate TEXT NOT NULL,
		basic_from TEXT,
		basic_to TEXT,
		pay_level_from TEXT NOT NULL DEFAULT '',
		pay_level_to TEXT NOT NULL DEFAULT '',
		da_rate_from TEXT,
		da_rate_to TEXT,
		min_amount TEXT,
		updated_at TEXT NOT NULL,
		UNIQUE(category, position)
	);

	CREATE TABLE IF NOT EXISTS statements (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		employee_name TEXT NOT NULL DEFAULT '',
		from_date TEXT NOT NULL,
		to_date TEXT NOT NULL,
		difference_total TEXT NOT NULL,
		statement_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_statements_employee
		ON statements(employee_id, created_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// RATE TABLES
// =============================================================================

// ReplaceRateTable atomically replaces every entry of one category. Entry order is kept.
func (s *Store) ReplaceRateTable(ctx context.Context, category domain.RateCategory, entries []domain.RateEntry) error {
	return s.replaceRates(ctx, map[domain.RateCategory][]domain.RateEntry{category: entries})
}

// ReplaceRateTables replaces all four categories from a full snapshot in one transaction.
func (s *Store) ReplaceRateTables(ctx context.Context, rates *domain.RateTables) error {
	tables := make(map[domain.RateCategory][]domain.RateEntry, len(domain.RateCategories))
	for _, c := range domain.RateCategories {
		tables[c] = rates.Table(c)
	}
	return s.replaceRates(ctx, tables)
}

func (s *Store) replaceRates(ctx context.Context, tables map[domain.RateCategory][]domain.RateEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	updatedAt := nowFunc().Format(time.RFC3339)
	for c, entries := range tables {
		if err := replaceCategory(ctx, tx, c, entries, updatedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func replaceCategory(ctx context.Context, tx *sql.Tx, category domain.RateCategory, entries []domain.RateEntry, updatedAt string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM rate_entries WHERE category = ?", string(category)); err != nil {
		return fmt.Errorf("failed to clear %s rates: %w", category, err)
	}

	query := `
		INSERT INTO rate_entries
		(id, category, position, from_date, to_date, rate, basic_from, basic_to,
		 pay_level_from, pay_level_to, da_rate_from, da_rate_to, min_amount, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for i, e := range entries {
		_, err := tx.ExecContext(ctx, query,
			uuid.NewString(),
			string(category),
			i,
			e.FromDate.Format(dateLayout),
			nullDate(e.ToDate),
			e.Rate.String(),
			nullDecimal(e.BasicFrom),
			nullDecimal(e.BasicTo),
			e.PayLevelFrom,
			e.PayLevelTo,
			nullDecimal(e.DARateFrom),
			nullDecimal(e.DARateTo),
			nullDecimal(e.MinAmount),
			updatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert %s rate %d: %w", category, i, err)
		}
	}
	return nil
}

// LoadRateTables reads a snapshot of every stored rate table.
func (s *Store) LoadRateTables(ctx context.Context) (*domain.RateTables, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, from_date, to_date, rate, basic_from, basic_to,
		       pay_level_from, pay_level_to, da_rate_from, da_rate_to, min_amount
		FROM rate_entries
		ORDER BY category, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rates: %w", err)
	}
	defer rows.Close()

	rates := &domain.RateTables{}
	for rows.Next() {
		var (
			category, fromDate, rate, levelFrom, levelTo        string
			toDate, basicFrom, basicTo, daFrom, daTo, minAmount sql.NullString
		)
		if err := rows.Scan(&category, &fromDate, &toDate, &rate, &basicFrom, &basicTo,
			&levelFrom, &levelTo, &daFrom, &daTo, &minAmount); err != nil {
			return nil, fmt.Errorf("failed to scan rate: %w", err)
		}

		e := domain.RateEntry{PayLevelFrom: levelFrom, PayLevelTo: levelTo}
		var perr error
		if e.FromDate, perr = time.Parse(dateLayout, fromDate); perr != nil {
			return nil, fmt.Errorf("bad from_date %q: %w", fromDate, perr)
		}
		if e.Rate, perr = decimal.NewFromString(rate); perr != nil {
			return nil, fmt.Errorf("bad rate %q: %w", rate, perr)
		}
		if e.ToDate, perr = parseNullDate(toDate); perr != nil {
			return nil, perr
		}
		for _, f := range []struct {
			dst **decimal.Decimal
			src sql.NullString
		}{
			{&e.BasicFrom, basicFrom}, {&e.BasicTo, basicTo},
			{&e.DARateFrom, daFrom}, {&e.DARateTo, daTo},
			{&e.MinAmount, minAmount},
		} {
			if *f.dst, perr = parseNullDecimal(f.src); perr != nil {
				return nil, perr
			}
		}

		c := domain.RateCategory(category)
		rates.SetTable(c, append(rates.Table(c), e))
	}
	return rates, rows.Err()
}

// =============================================================================
// STATEMENT ARCHIVE
// =============================================================================

// StatementRecord is an archived statement. Statement is nil in list results.
type StatementRecord struct {
	ID              string            `json:"id"`
	EmployeeID      string            `json:"employee_id"`
	EmployeeName    string            `json:"employee_name"`
	FromDate        time.Time         `json:"from_date"`
	ToDate          time.Time         `json:"to_date"`
	DifferenceTotal decimal.Decimal   `json:"difference_total"`
	CreatedAt       time.Time         `json:"created_at"`
	Statement       *domain.Statement `json:"statement,omitempty"`
}

// SaveStatement archives a statement under a new id.
func (s *Store) SaveStatement(ctx context.Context, st *domain.Statement) (StatementRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := json.Marshal(st)
	if err != nil {
		return StatementRecord{}, fmt.Errorf("failed to encode statement: %w", err)
	}

	rec := StatementRecord{
		ID:              uuid.NewString(),
		EmployeeID:      st.Employee.ID,
		EmployeeName:    st.Employee.Name,
		FromDate:        st.FromDate,
		ToDate:          st.ToDate,
		DifferenceTotal: st.Totals.DifferenceTotal,
		CreatedAt:       nowFunc(),
		Statement:       st,
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO statements
		(id, employee_id, employee_name, from_date, to_date, difference_total, statement_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		rec.EmployeeID,
		rec.EmployeeName,
		rec.FromDate.Format(dateLayout),
		rec.ToDate.Format(dateLayout),
		rec.DifferenceTotal.String(),
		string(body),
		rec.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return StatementRecord{}, fmt.Errorf("failed to save statement: %w", err)
	}
	return rec, nil
}

// GetStatement loads one archived statement with its body.
func (s *Store) GetStatement(ctx context.Context, id string) (*StatementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, employee_name, from_date, to_date, difference_total, created_at, statement_json
		FROM statements WHERE id = ?
	`, id)

	var body string
	rec, err := scanStatement(row, &body)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get statement: %w", err)
	}

	rec.Statement = &domain.Statement{}
	if err := json.Unmarshal([]byte(body), rec.Statement); err != nil {
		return nil, fmt.Errorf("failed to decode statement %s: %w", id, err)
	}
	return rec, nil
}

// ListStatements returns archived statements newest first. An empty employeeID lists all.
func (s *Store) ListStatements(ctx context.Context, employeeID string) ([]StatementRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, employee_id, employee_name, from_date, to_date, difference_total, created_at
		FROM statements
	`
	var args []any
	if employeeID != "" {
		query += " WHERE employee_id = ?"
		args = append(args, employeeID)
	}
	query += " ORDER BY created_at DESC, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list statements: %w", err)
	}
	defer rows.Close()

	records := []StatementRecord{}
	for rows.Next() {
		rec, err := scanStatement(rows, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to scan statement: %w", err)
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanStatement(sc scanner, body *string) (*StatementRecord, error) {
	var (
		rec                               StatementRecord
		fromDate, toDate, diff, createdAt string
	)
	dest := []any{&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &fromDate, &toDate, &diff, &createdAt}
	if body != nil {
		dest = append(dest, body)
	}
	if err := sc.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if rec.FromDate, err = time.Parse(dateLayout, fromDate); err != nil {
		return nil, err
	}
	if rec.ToDate, err = time.Parse(dateLayout, toDate); err != nil {
		return nil, err
	}
	if rec.DifferenceTotal, err = decimal.NewFromString(diff); err != nil {
		return nil, err
	}
	if rec.CreatedAt, err = time.Parse(timestampLayout, createdAt); err != nil {
		return nil, err
	}
	return &rec, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func nullDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(dateLayout), Valid: true}
}

func parseNullDate(v sql.NullString) (*time.Time, error) {
	if !v.Valid {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, v.String)
	if err != nil {
		return nil, fmt.Errorf("bad date %q: %w", v.String, err)
	}
	return &t, nil
}

func nullDecimal(d *decimal.Decimal) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func parseNullDecimal(v sql.NullString) (*decimal.Decimal, error) {
	if !v.Valid {
		return nil, nil
	}
	d, err := decimal.NewFromString(v.String)
	if err != nil {
		return nil, fmt.Errorf("bad decimal %q: %w", v.String, err)
	}
	return &d, nil
}
