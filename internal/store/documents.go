package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// Document is one cached processing result.
type Document struct {
	InputHash  string `json:"input_hash"`
	ConfigHash string `json:"config_hash"`
	RunToken   string `json:"run_token"`
	Input      string `json:"-"`
	Output     string `json:"-"`
	Seq        int64  `json:"seq"`
	CreatedAt  string `json:"created_at"`
}

// Put inserts a document. ON CONFLICT DO NOTHING makes the write idempotent:
// re-running a batch over an existing cache neither fails nor rewrites rows.
// Returns whether a new row was inserted.
func (s *Store) Put(ctx context.Context, doc Document) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO documents
		(input_hash, config_hash, run_token, input, output, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(input_hash, config_hash) DO NOTHING
	`,
		doc.InputHash,
		doc.ConfigHash,
		doc.RunToken,
		doc.Input,
		doc.Output,
		doc.Seq,
	)
	if err != nil {
		return false, fmt.Errorf("put document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put document: rows affected: %w", err)
	}
	return n > 0, nil
}

// Get fetches the cached document for (inputHash, configHash). The second
// return is false on a cache miss.
func (s *Store) Get(ctx context.Context, inputHash, configHash string) (Document, bool, error) {
	doc := Document{InputHash: inputHash, ConfigHash: configHash}
	err := s.db.QueryRowContext(ctx, `
		SELECT run_token, input, output, seq, created_at
		FROM documents
		WHERE input_hash = ? AND config_hash = ?
	`, inputHash, configHash).Scan(&doc.RunToken, &doc.Input, &doc.Output, &doc.Seq, &doc.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, false, nil
	}
	if err != nil {
		return Document{}, false, fmt.Errorf("get document: %w", err)
	}
	return doc, true, nil
}

// List returns every document cached under one configuration, ordered by
// (seq ASC, input_hash ASC) so listings are reproducible across runs.
func (s *Store) List(ctx context.Context, configHash string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT input_hash, run_token, input, output, seq, created_at
		FROM documents
		WHERE config_hash = ?
		ORDER BY seq ASC, input_hash ASC
	`, configHash)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc := Document{ConfigHash: configHash}
		if err := rows.Scan(&doc.InputHash, &doc.RunToken, &doc.Input, &doc.Output, &doc.Seq, &doc.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// Count returns the total number of cached documents across configurations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}

// Prune deletes every document whose configuration differs from
// keepConfigHash and reports how many rows went away. Run after a
// configuration change to drop entries no current engine can hit.
func (s *Store) Prune(ctx context.Context, keepConfigHash string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM documents WHERE config_hash != ?
	`, keepConfigHash)
	if err != nil {
		return 0, fmt.Errorf("prune documents: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune documents: rows affected: %w", err)
	}
	return n, nil
}

// Mismatch is one verification failure: a cached row whose content no longer
// reproduces.
type Mismatch struct {
	InputHash string `json:"input_hash"`
	Kind      string `json:"kind"` // "input_hash" or "output"
}

// Verify replays every document cached under configHash through process and
// reports rows that no longer reproduce: either the stored input no longer
// hashes to its key (corruption) or reprocessing yields different output
// (a rule changed without a fingerprint change). An empty slice means the
// cache is sound.
func (s *Store) Verify(ctx context.Context, configHash string, process func(text string) (string, error)) ([]Mismatch, error) {
	docs, err := s.List(ctx, configHash)
	if err != nil {
		return nil, err
	}

	var mismatches []Mismatch
	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if InputHash(doc.Input) != doc.InputHash {
			mismatches = append(mismatches, Mismatch{InputHash: doc.InputHash, Kind: "input_hash"})
			continue
		}
		out, err := process(doc.Input)
		if err != nil {
			return nil, fmt.Errorf("verify %s: %w", doc.InputHash, err)
		}
		if out != doc.Output {
			mismatches = append(mismatches, Mismatch{InputHash: doc.InputHash, Kind: "output"})
		}
	}
	return mismatches, nil
}
