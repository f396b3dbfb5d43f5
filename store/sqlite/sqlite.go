/*
Package sqlite provides the SQLite-backed collaborators of the period-insert
engine.

PURPOSE:
  One store implements every storage-facing port: the entry sink, the
  overlap lookup, the absence source and the budget statistic provider.
  In production the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

KEY TABLES:
  timesheet_entries:  persisted time entries (the engine only inserts)
  absences:           per-user absence dates (holidays, sickness, leave)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so validation reads do
  not block the commit writer.

USAGE:
  store, err := sqlite.New("./data/periods.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - timesheet/ports.go: the interfaces implemented here
  - period/committer.go: the only writer
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/warp/period-engine/timesheet"
)

// Store implements timesheet.EntrySink, OverlapLookup, AbsenceSource and
// BudgetStatisticProvider on a single SQLite database.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (or creates) the database at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

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

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS timesheet_entries (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		begin_at TEXT NOT NULL,
		end_at TEXT NOT NULL,
		duration INTEGER NOT NULL,
		project_id TEXT,
		customer_id TEXT,
		activity_id TEXT,
		description TEXT,
		tags TEXT,
		rate TEXT NOT NULL DEFAULT '0',
		billable BOOLEAN NOT NULL DEFAULT FALSE,
		billable_mode TEXT NOT NULL DEFAULT 'automatic',
		exported BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	-- Overlap detection (hot path during validation)
	CREATE INDEX IF NOT EXISTS idx_entries_user_time
		ON timesheet_entries(user_id, begin_at, end_at);

	-- Budget statistics per scope
	CREATE INDEX IF NOT EXISTS idx_entries_project_begin
		ON timesheet_entries(project_id, begin_at);
	CREATE INDEX IF NOT EXISTS idx_entries_activity_begin
		ON timesheet_entries(activity_id, begin_at);
	CREATE INDEX IF NOT EXISTS idx_entries_customer_begin
		ON timesheet_entries(customer_id, begin_at);

	CREATE TABLE IF NOT EXISTS absences (
		user_id TEXT NOT NULL,
		date TEXT NOT NULL,
		reason TEXT,
		PRIMARY KEY (user_id, date)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY SINK (timesheet.EntrySink)
// =============================================================================

// Validate applies the host's generic entity constraints without persisting.
func (s *Store) Validate(ctx context.Context, entry *timesheet.Entry) error {
	if entry.User == "" {
		return fmt.Errorf("entry has no user")
	}
	if entry.Begin.IsZero() || entry.End.IsZero() {
		return fmt.Errorf("entry has no begin or end time")
	}
	if entry.End.Before(entry.Begin) {
		return fmt.Errorf("entry ends before it begins")
	}
	if entry.Duration < 0 {
		return fmt.Errorf("entry has negative duration")
	}
	return nil
}

// Save persists one entry.
func (s *Store) Save(ctx context.Context, entry *timesheet.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveTx(ctx, s.db, entry)
}

// SaveBatch persists entries atomically: either all rows land or none do.
func (s *Store) SaveBatch(ctx context.Context, entries []*timesheet.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, entry := range entries {
		if err := s.saveTx(ctx, sqlTx, entry); err != nil {
			return err
		}
	}
	return sqlTx.Commit()
}

func (s *Store) saveTx(ctx context.Context, db interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}, entry *timesheet.Entry) error {
	var projectID, customerID, activityID string
	if entry.Project != nil {
		projectID = string(entry.Project.ID)
	}
	if customer := entry.CustomerOf(); customer != nil {
		customerID = string(customer.ID)
	}
	if entry.Activity != nil {
		activityID = string(entry.Activity.ID)
	}

	query := `
		INSERT INTO timesheet_entries
		(id, user_id, begin_at, end_at, duration, project_id, customer_id, activity_id,
		 description, tags, rate, billable, billable_mode, exported, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		entry.ID,
		entry.User,
		entry.Begin.UTC().Format(time.RFC3339),
		entry.End.UTC().Format(time.RFC3339),
		entry.Duration,
		nullString(projectID),
		nullString(customerID),
		nullString(activityID),
		entry.Description,
		strings.Join(entry.Tags, ","),
		entry.Rate.String(),
		entry.Billable,
		string(entry.BillableMode),
		entry.Exported,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

// =============================================================================
// OVERLAP LOOKUP (timesheet.OverlapLookup)
// =============================================================================

// HasRecordForTime reports whether the user already has an entry whose span
// intersects the candidate's [begin, end).
func (s *Store) HasRecordForTime(ctx context.Context, entry *timesheet.Entry) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(1) FROM timesheet_entries
		WHERE user_id = ? AND begin_at < ? AND end_at > ?
	`

	var count int
	err := s.db.QueryRowContext(ctx, query,
		entry.User,
		entry.End.UTC().Format(time.RFC3339),
		entry.Begin.UTC().Format(time.RFC3339),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check overlap: %w", err)
	}
	return count > 0, nil
}

// =============================================================================
// ABSENCE SOURCE (timesheet.AbsenceSource)
// =============================================================================

// AbsentDates returns the user's absence dates within [from, to] inclusive.
func (s *Store) AbsentDates(ctx context.Context, user timesheet.UserID, from, to time.Time) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT date FROM absences
		WHERE user_id = ? AND date >= ? AND date <= ?
	`

	rows, err := s.db.QueryContext(ctx, query, user, timesheet.DateKey(from), timesheet.DateKey(to))
	if err != nil {
		return nil, fmt.Errorf("failed to load absences: %w", err)
	}
	defer rows.Close()

	absent := make(map[string]bool)
	for rows.Next() {
		var date string
		if err := rows.Scan(&date); err != nil {
			return nil, fmt.Errorf("failed to scan absence: %w", err)
		}
		absent[date] = true
	}
	return absent, rows.Err()
}

// AddAbsence records one absence date for a user.
func (s *Store) AddAbsence(ctx context.Context, user timesheet.UserID, date time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO absences (user_id, date, reason) VALUES (?, ?, ?)`,
		user, timesheet.DateKey(date), reason)
	if err != nil {
		return fmt.Errorf("failed to add absence: %w", err)
	}
	return nil
}

// =============================================================================
// BUDGET STATISTICS (timesheet.BudgetStatisticProvider)
// =============================================================================

// BudgetStatistic sums what has already been booked against one scope. For
// monthly scopes the window is the calendar month of asOf; lifetime scopes
// sum the entity's whole history.
func (s *Store) BudgetStatistic(ctx context.Context, scope timesheet.BudgetScope, asOf time.Time) (timesheet.BudgetStatistic, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var column string
	switch scope.Kind {
	case timesheet.ScopeActivity:
		column = "activity_id"
	case timesheet.ScopeProject:
		column = "project_id"
	case timesheet.ScopeCustomer:
		column = "customer_id"
	default:
		return timesheet.BudgetStatistic{}, fmt.Errorf("unknown budget scope %q", scope.Kind)
	}

	// Rates are stored as decimal text and summed in Go: a SQL SUM would
	// round-trip money through floating point.
	query := `
		SELECT rate, duration FROM timesheet_entries
		WHERE ` + column + ` = ? AND billable = TRUE
	`
	args := []any{scope.EntityID}

	if scope.IsMonthly() {
		monthStart := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, time.UTC)
		query += ` AND begin_at >= ? AND begin_at < ?`
		args = append(args,
			monthStart.Format(time.RFC3339),
			monthStart.AddDate(0, 1, 0).Format(time.RFC3339))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return timesheet.BudgetStatistic{}, fmt.Errorf("failed to load budget statistic: %w", err)
	}
	defer rows.Close()

	stat := timesheet.BudgetStatistic{MoneySpent: decimal.Zero}
	for rows.Next() {
		var rate string
		var duration int64
		if err := rows.Scan(&rate, &duration); err != nil {
			return timesheet.BudgetStatistic{}, fmt.Errorf("failed to scan budget statistic: %w", err)
		}
		spent, err := decimal.NewFromString(rate)
		if err != nil {
			return timesheet.BudgetStatistic{}, fmt.Errorf("invalid stored rate %q: %w", rate, err)
		}
		stat.MoneySpent = stat.MoneySpent.Add(spent)
		stat.TimeSpent += duration
	}
	return stat, rows.Err()
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
