package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3" // Register SQLite driver
	"github.com/sirupsen/logrus"

	"github.com/rakshit1504/insurance-final-bot/pkg/types"
)

// seedPlans is the fixed catalog inserted on first startup, in display order.
var seedPlans = []types.Plan{
	{Name: "Rak Basic", Description: "Basic plan with ₹2L coverage. Valid till Dec 2025."},
	{Name: "Rak Standard", Description: "Includes OPD + ₹5L cover. Valid till Dec 2025."},
	{Name: "Rak Premium", Description: "₹10L cover + dental + mental health. Valid till Dec 2025."},
	{Name: "Rak Family", Description: "₹20L family cover (4 members). Valid till Dec 2025."},
	{Name: "Rak Elite", Description: "₹50L + worldwide coverage. Valid till Dec 2025."},
}

// Store provides SQLite-based persistence for the plan catalog and
// the selection log
type Store struct {
	db     *sql.DB
	dbPath string
	mu     sync.RWMutex
}

// NewStore initializes a new SQLite store
func NewStore(dbPath string) (*Store, error) {
	// Open or create database
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test connection
	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// SQLite has a single writer; one connection also keeps the
	// foreign_keys pragma in effect for every statement
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON"); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &Store{
		db:     db,
		dbPath: dbPath,
	}

	// Initialize schema
	if err := store.initSchema(); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logrus.WithError(closeErr).Warn("Failed to close database connection after init error")
		}
		return nil, err
	}

	logrus.WithField("db_path", dbPath).Info("Initialized bot database")
	return store, nil
}

// initSchema applies all pending migrations
func (s *Store) initSchema() error {
	// Get current schema version
	currentVersion := 0
	row := s.db.QueryRowContext(context.Background(), "SELECT COALESCE(MAX(version), 0) FROM schema_version")
	_ = row.Scan(&currentVersion) // Ignore error - schema_version table may not exist yet

	// Apply pending migrations
	for _, migration := range Migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logrus.WithField("version", migration.Version).Info("Applying schema migration")

		if _, err := s.db.ExecContext(context.Background(), migration.SQL); err != nil {
			return fmt.Errorf("failed to apply migration v%d: %w", migration.Version, err)
		}

		if _, err := s.db.ExecContext(context.Background(),
			"INSERT INTO schema_version (version, applied_at) VALUES (?, ?)",
			migration.Version,
			time.Now().Unix(),
		); err != nil {
			return fmt.Errorf("failed to record migration v%d: %w", migration.Version, err)
		}

		currentVersion = migration.Version
	}

	return nil
}

// SeedPlans inserts the fixed plan catalog if the table is empty.
// The guard is an emptiness check, not a transaction; concurrent
// first starts could double-seed.
func (s *Store) SeedPlans(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plans").Scan(&count); err != nil {
		return fmt.Errorf("failed to count plans: %w", err)
	}

	if count > 0 {
		logrus.WithField("plans", count).Debug("Plan catalog already seeded")
		return nil
	}

	for _, plan := range seedPlans {
		if _, err := s.db.ExecContext(ctx,
			"INSERT INTO plans (name, description) VALUES (?, ?)",
			plan.Name,
			plan.Description,
		); err != nil {
			return fmt.Errorf("failed to seed plan %q: %w", plan.Name, err)
		}
	}

	logrus.WithField("plans", len(seedPlans)).Info("Seeded plan catalog")
	return nil
}

// ListPlans returns every plan ordered by identifier ascending
func (s *Store) ListPlans(ctx context.Context) ([]types.Plan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, description FROM plans ORDER BY id ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			logrus.WithError(closeErr).Warn("Failed to close database rows")
		}
	}()

	var plans []types.Plan
	for rows.Next() {
		var plan types.Plan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Description); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	return plans, nil
}

// PlanByPosition returns the plan at a 1-based position in insertion
// order, or nil when the position is out of range
func (s *Store) PlanByPosition(ctx context.Context, position int) (*types.Plan, error) {
	if position < 1 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	plan := &types.Plan{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description FROM plans ORDER BY id ASC LIMIT 1 OFFSET ?",
		position-1,
	).Scan(&plan.ID, &plan.Name, &plan.Description)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query plan at position %d: %w", position, err)
	}

	return plan, nil
}

// AppendSelection records that a sender chose a plan. The timestamp
// comes from the column default. Append-only; rows are never updated
// or deleted.
func (s *Store) AppendSelection(ctx context.Context, phone string, planID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO selections (phone, plan_id) VALUES (?, ?)",
		phone,
		planID,
	); err != nil {
		return fmt.Errorf("failed to record selection: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"phone":   phone,
		"plan_id": planID,
	}).Info("Recorded plan selection")

	return nil
}

// CountPlans returns the number of plans in the catalog
func (s *Store) CountPlans(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM plans").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count plans: %w", err)
	}

	return count, nil
}

// CountSelections returns the number of logged selections
func (s *Store) CountSelections(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM selections").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count selections: %w", err)
	}

	return count, nil
}

// LastSelection returns the most recently logged selection, or nil
// when the log is empty
func (s *Store) LastSelection(ctx context.Context) (*types.Selection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sel := &types.Selection{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, phone, plan_id, selected_at FROM selections ORDER BY id DESC LIMIT 1",
	).Scan(&sel.ID, &sel.Phone, &sel.PlanID, &sel.SelectedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query last selection: %w", err)
	}

	return sel, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}
	return nil
}
