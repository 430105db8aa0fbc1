package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/orolle/crp-aide/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/orolle/crp-aide/internal/core/domain"
	"github.com/orolle/crp-aide/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SampleStore = (*Store)(nil)

// Store is a SQLite-backed sample store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.crp-aide/data/experiments.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".crp-aide", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "experiments.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveExperiment stores an experiment definition.
func (s *Store) SaveExperiment(ctx context.Context, exp domain.Experiment) error {
	observationsJSON, err := json.Marshal(exp.Observations)
	if err != nil {
		return fmt.Errorf("marshalling observations: %w", err)
	}
	referenceJSON, err := json.Marshal(exp.Reference)
	if err != nil {
		return fmt.Errorf("marshalling reference: %w", err)
	}
	prefixJSON, err := json.Marshal(exp.PrefixSizes)
	if err != nil {
		return fmt.Errorf("marshalling prefix sizes: %w", err)
	}

	if exp.CreatedAt.IsZero() {
		exp.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO experiments
			(id, name, observations, alpha, mu, beta, a, b, particles, seed, reference, prefix_sizes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, exp.ID, exp.Name, string(observationsJSON),
		exp.Hyperparams.Alpha, exp.Hyperparams.Mu, exp.Hyperparams.Beta,
		exp.Hyperparams.A, exp.Hyperparams.B,
		exp.Particles, int64(exp.Seed), string(referenceJSON), string(prefixJSON), exp.CreatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("saving experiment: %w", err)
	}
	return nil
}

// GetExperiment retrieves an experiment by ID.
func (s *Store) GetExperiment(ctx context.Context, id string) (*domain.Experiment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, observations, alpha, mu, beta, a, b, particles, seed, reference, prefix_sizes, created_at
		FROM experiments WHERE id = ?
	`, id)

	return scanExperiment(row.Scan)
}

// ListExperiments returns all stored experiments, oldest first.
func (s *Store) ListExperiments(ctx context.Context) ([]domain.Experiment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, observations, alpha, mu, beta, a, b, particles, seed, reference, prefix_sizes, created_at
		FROM experiments ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying experiments: %w", err)
	}
	defer rows.Close()

	var experiments []domain.Experiment //nolint:prealloc // size unknown from query
	for rows.Next() {
		exp, err := scanExperiment(rows.Scan)
		if err != nil {
			return nil, err
		}
		experiments = append(experiments, *exp)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating experiments: %w", err)
	}

	return experiments, nil
}

// AppendSamples appends weighted samples to an experiment's sequence.
// Positions continue from the current maximum so append order is durable.
func (s *Store) AppendSamples(ctx context.Context, experimentID string, samples []domain.WeightedSample) error {
	if err := s.experimentExists(ctx, experimentID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var next int
	row := tx.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(position)+1, 0) FROM samples WHERE experiment_id = ?", experimentID)
	if err := row.Scan(&next); err != nil {
		return fmt.Errorf("getting next sample position: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (experiment_id, position, num_clusters, log_weight)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, sample := range samples {
		if _, err := stmt.ExecContext(ctx, experimentID, next+i, sample.NumClusters, sample.LogWeight); err != nil {
			return fmt.Errorf("saving sample %d: %w", next+i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ListSamples returns an experiment's samples in append order.
func (s *Store) ListSamples(ctx context.Context, experimentID string) ([]domain.WeightedSample, error) {
	if err := s.experimentExists(ctx, experimentID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT num_clusters, log_weight
		FROM samples WHERE experiment_id = ?
		ORDER BY position
	`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("querying samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.WeightedSample //nolint:prealloc // size unknown from query
	for rows.Next() {
		var sample domain.WeightedSample
		if err := rows.Scan(&sample.NumClusters, &sample.LogWeight); err != nil {
			return nil, fmt.Errorf("scanning sample: %w", err)
		}
		samples = append(samples, sample)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating samples: %w", err)
	}

	return samples, nil
}

// SaveCurve stores the divergence curve, replacing any previous curve.
func (s *Store) SaveCurve(ctx context.Context, experimentID string, points []domain.DivergencePoint) error {
	if err := s.experimentExists(ctx, experimentID); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM curves WHERE experiment_id = ?", experimentID); err != nil {
		return fmt.Errorf("clearing previous curve: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO curves (experiment_id, sample_count, divergence)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, point := range points {
		if _, err := stmt.ExecContext(ctx, experimentID, point.SampleCount, point.Divergence); err != nil {
			return fmt.Errorf("saving curve point %d: %w", point.SampleCount, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetCurve retrieves the stored divergence curve.
func (s *Store) GetCurve(ctx context.Context, experimentID string) ([]domain.DivergencePoint, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sample_count, divergence
		FROM curves WHERE experiment_id = ?
		ORDER BY sample_count
	`, experimentID)
	if err != nil {
		return nil, fmt.Errorf("querying curve: %w", err)
	}
	defer rows.Close()

	var points []domain.DivergencePoint //nolint:prealloc // size unknown from query
	for rows.Next() {
		var point domain.DivergencePoint
		if err := rows.Scan(&point.SampleCount, &point.Divergence); err != nil {
			return nil, fmt.Errorf("scanning curve point: %w", err)
		}
		points = append(points, point)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating curve points: %w", err)
	}

	if len(points) == 0 {
		return nil, domain.ErrNotFound
	}
	return points, nil
}

// experimentExists returns domain.ErrNotFound if the experiment is absent.
func (s *Store) experimentExists(ctx context.Context, id string) error {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM experiments WHERE id = ?", id).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking experiment: %w", err)
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// scanExperiment scans an experiment row via the given Scan function.
func scanExperiment(scan func(dest ...any) error) (*domain.Experiment, error) {
	var exp domain.Experiment
	var observationsJSON, referenceJSON, prefixJSON string
	var seed int64
	var createdAt sql.NullTime

	err := scan(&exp.ID, &exp.Name, &observationsJSON,
		&exp.Hyperparams.Alpha, &exp.Hyperparams.Mu, &exp.Hyperparams.Beta,
		&exp.Hyperparams.A, &exp.Hyperparams.B,
		&exp.Particles, &seed, &referenceJSON, &prefixJSON, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning experiment: %w", err)
	}

	exp.Seed = uint64(seed)
	if createdAt.Valid {
		exp.CreatedAt = createdAt.Time
	}

	if err := json.Unmarshal([]byte(observationsJSON), &exp.Observations); err != nil {
		return nil, fmt.Errorf("unmarshaling observations: %w", err)
	}
	if err := json.Unmarshal([]byte(referenceJSON), &exp.Reference); err != nil {
		return nil, fmt.Errorf("unmarshaling reference: %w", err)
	}
	if err := json.Unmarshal([]byte(prefixJSON), &exp.PrefixSizes); err != nil {
		return nil, fmt.Errorf("unmarshaling prefix sizes: %w", err)
	}

	return &exp, nil
}
