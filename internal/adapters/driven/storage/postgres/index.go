// Package postgres provides a pgvector-backed implementation of driven.VectorIndex.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq" // Postgres driver

	"github.com/custodia-labs/ragline/internal/core/domain"
	"github.com/custodia-labs/ragline/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// DefaultTable is used when no table name is configured.
const DefaultTable = "ragline_nodes"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Index stores nodes in a Postgres table with a pgvector column.
type Index struct {
	db        *sql.DB
	table     string
	dimension int
}

// NewIndex connects to dsn and ensures the extension and table exist.
func NewIndex(ctx context.Context, dsn, table string, dimension int) (*Index, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("%w: table name %q", domain.ErrInvalidInput, table)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: vector dimension must be positive", domain.ErrInvalidInput)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	idx := &Index{db: db, table: table, dimension: dimension}
	if err := idx.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

func (i *Index) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			doc_id TEXT NOT NULL,
			source TEXT NOT NULL DEFAULT '',
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			seq BIGSERIAL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, i.table, i.dimension),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_doc_id_idx ON %s (doc_id)`, i.table, i.table),
	}
	for _, stmt := range stmts {
		if _, err := i.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Upsert inserts or replaces nodes by identity in one transaction.
func (i *Index) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := i.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, doc_id, source, content, embedding)
		VALUES ($1, $2, $3, $4, $5::vector)
		ON CONFLICT (id) DO UPDATE SET
			doc_id = EXCLUDED.doc_id,
			source = EXCLUDED.source,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`, i.table))
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range records {
		if len(r.Embedding) != i.dimension {
			return fmt.Errorf("%w: embedding has %d dimensions, table has %d",
				domain.ErrInvalidInput, len(r.Embedding), i.dimension)
		}
		meta := r.Node.Metadata
		if _, err := stmt.ExecContext(ctx,
			string(meta.ChunkID), meta.DocID, meta.Source, r.Node.Text, vectorToString(r.Embedding),
		); err != nil {
			return fmt.Errorf("upsert node: %w", err)
		}
	}

	return tx.Commit()
}

// Search performs a cosine similarity search.
func (i *Index) Search(ctx context.Context, query []float32, k int) ([]driven.VectorHit, error) {
	if k <= 0 {
		return nil, nil
	}

	q := fmt.Sprintf(`SELECT id, doc_id, source, content, 1 - (embedding <=> $1::vector) AS similarity
		FROM %s
		ORDER BY embedding <=> $1::vector, seq
		LIMIT $2`, i.table)

	rows, err := i.db.QueryContext(ctx, q, vectorToString(query), k)
	if err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}
	defer rows.Close()

	var hits []driven.VectorHit
	for rows.Next() {
		var (
			id    string
			score float64
			node  domain.Node
		)
		if err := rows.Scan(&id, &node.Metadata.DocID, &node.Metadata.Source, &node.Text, &score); err != nil {
			return nil, fmt.Errorf("scan similar: %w", err)
		}
		node.Metadata.ChunkID = domain.ChunkIdentity(id)
		hits = append(hits, driven.VectorHit{Node: node, Score: &score})
	}
	return hits, rows.Err()
}

// Count returns the number of stored nodes.
func (i *Index) Count(ctx context.Context) (int, error) {
	var n int
	if err := i.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, i.table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	return n, nil
}

// Flush is a no-op; committed transactions are durable.
func (i *Index) Flush(_ context.Context) error {
	return nil
}

// Close closes the database connection.
func (i *Index) Close() error {
	return i.db.Close()
}

// vectorToString converts a float32 slice to pgvector string format: [0.1,0.2,0.3].
func vectorToString(v []float32) string {
	parts := make([]string, len(v))
	for i, val := range v {
		parts[i] = fmt.Sprintf("%g", val)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
