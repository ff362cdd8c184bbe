package emit

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
	"git.home.luguber.info/inful/kontentsource/internal/kontent"
)

// SQLiteSink upserts nodes into a nodes table.
type SQLiteSink struct {
	db *sql.DB
	mu sync.Mutex
}

// StoredNode is one row of the nodes table.
type StoredNode struct {
	ID        string
	Type      string
	Codename  string
	Language  string
	Digest    string
	Body      []byte
	UpdatedAt time.Time
}

// NewSQLiteSink opens (or creates) the database at path.
// Use ":memory:" for an in-memory database.
func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryEmission, "open sqlite database").
			WithContext("path", path).
			Build()
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	sink := &SQLiteSink{db: db}
	if err := sink.initialize(); err != nil {
		_ = db.Close()
		return nil, errors.WrapError(err, errors.CategoryEmission, "initialize schema").
			WithContext("path", path).
			Build()
	}
	return sink, nil
}

func (s *SQLiteSink) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS nodes (
		id TEXT PRIMARY KEY,
		node_type TEXT NOT NULL,
		codename TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT '',
		content_digest TEXT NOT NULL,
		body BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(node_type);
	CREATE INDEX IF NOT EXISTS idx_nodes_codename ON nodes(codename, language);
	`
	_, err := s.db.Exec(schema)
	return err
}

// CreateNode implements Sink.
func (s *SQLiteSink) CreateNode(ctx context.Context, node kontent.Node) error {
	body, err := json.Marshal(node)
	if err != nil {
		return errors.WrapError(err, errors.CategoryEmission, "failed to encode node").
			WithContext("node_id", node.NodeID()).
			Build()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO nodes (id, node_type, codename, language, content_digest, body, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			node_type = excluded.node_type,
			codename = excluded.codename,
			language = excluded.language,
			content_digest = excluded.content_digest,
			body = excluded.body,
			updated_at = excluded.updated_at`,
		node.NodeID(), node.NodeType(), node.NodeCodename(), node.NodeLanguage(),
		node.NodeDigest(), body, time.Now().Unix(),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryEmission, "upsert node").
			WithContext("node_id", node.NodeID()).
			Build()
	}
	return nil
}

// Get returns the stored row for id.
func (s *SQLiteSink) Get(ctx context.Context, id string) (*StoredNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, node_type, codename, language, content_digest, body, updated_at FROM nodes WHERE id = ?", id)

	var n StoredNode
	var updated int64
	if err := row.Scan(&n.ID, &n.Type, &n.Codename, &n.Language, &n.Digest, &n.Body, &updated); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NewError(errors.CategoryNotFound, "node not found").
				WithContext("node_id", id).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryEmission, "query node").Build()
	}
	n.UpdatedAt = time.Unix(updated, 0)
	return &n, nil
}

// Count returns the number of stored nodes.
func (s *SQLiteSink) Count(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM nodes").Scan(&n); err != nil {
		return 0, errors.WrapError(err, errors.CategoryEmission, "count nodes").Build()
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteSink) Close() error {
	return s.db.Close()
}
