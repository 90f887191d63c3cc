// Package sqlite provides a durable store that layers SQLite snapshot
// persistence over the in-memory transactional semantics.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"setcore/internal/infra/persistence/memory"
	"setcore/internal/infra/persistence/schema"
	"setcore/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store persists the in-memory state to a single SQLite table as JSON blobs.
// It snapshots the full state after every successful transaction. The entity
// DDL from the schema package is applied on startup so deployments can point
// external tooling at real tables with the position uniqueness constraints.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

// NewStore constructs a snapshotting SQLite-backed persistent store.
func NewStore(path string, engine *domain.RulesEngine) (*Store, error) {
	if path == "" {
		path = "setcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	for _, stmt := range schema.SplitStatements(schema.SQLite()) {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("execute ddl: %w", err)
		}
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS state (
		bucket TEXT PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create state table: %w", err)
	}
	mem := memory.NewStore(engine)
	s := &Store{Store: mem, db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

var buckets = []string{
	"organizations", "memberships", "section_types", "songs", "tags",
	"song_tags", "resources", "sets", "sections", "placements",
}

func bucketTargets(snap *memory.Snapshot) map[string]any {
	return map[string]any{
		"organizations": &snap.Organizations,
		"memberships":   &snap.Memberships,
		"section_types": &snap.SectionTypes,
		"songs":         &snap.Songs,
		"tags":          &snap.Tags,
		"song_tags":     &snap.SongTags,
		"resources":     &snap.Resources,
		"sets":          &snap.Sets,
		"sections":      &snap.Sections,
		"placements":    &snap.Placements,
	}
}

func bucketSources(snap memory.Snapshot) map[string]any {
	return map[string]any{
		"organizations": snap.Organizations,
		"memberships":   snap.Memberships,
		"section_types": snap.SectionTypes,
		"songs":         snap.Songs,
		"tags":          snap.Tags,
		"song_tags":     snap.SongTags,
		"resources":     snap.Resources,
		"sets":          snap.Sets,
		"sections":      snap.Sections,
		"placements":    snap.Placements,
	}
}

func (s *Store) load() error {
	rows, err := s.db.Query(`SELECT bucket, payload FROM state`)
	if err != nil {
		return fmt.Errorf("select state: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var snap memory.Snapshot
	targets := bucketTargets(&snap)
	for rows.Next() {
		var bucket string
		var payload []byte
		if err := rows.Scan(&bucket, &payload); err != nil {
			return fmt.Errorf("scan state: %w", err)
		}
		if len(payload) == 0 {
			continue
		}
		if target, ok := targets[bucket]; ok {
			if err := json.Unmarshal(payload, target); err != nil {
				return fmt.Errorf("decode %s: %w", bucket, err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate state: %w", err)
	}
	s.Store.ImportState(snap)
	return nil
}

// RunInTransaction applies fn within a transaction, then snapshots to SQLite if successful.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) (domain.Result, error) {
	res, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return res, err
	}
	if err := s.persist(ctx); err != nil {
		return res, err
	}
	return res, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) persist(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	sources := bucketSources(snapshot)
	for _, bucket := range buckets {
		data, err := json.Marshal(sources[bucket])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO state(bucket,payload) VALUES(?,?) ON CONFLICT(bucket) DO UPDATE SET payload=excluded.payload`, bucket, data); err != nil {
			return fmt.Errorf("upsert %s: %w", bucket, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	committed = true
	return nil
}
