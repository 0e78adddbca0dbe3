package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// ErrNotFound is returned when no stored scene matches a fingerprint.
var ErrNotFound = errors.New("scene not found")

// SceneSummary describes a stored scene without its frames.
type SceneSummary struct {
	Fingerprint string         `json:"fingerprint"`
	Seq         int64          `json:"seq"`
	RunID       string         `json:"run_id"`
	Source      string         `json:"source"`
	Version     string         `json:"version"`
	TimeUnit    scene.TimeUnit `json:"time_unit"`
	SampleRate  int            `json:"sample_rate"`
	FrameCount  int            `json:"frame_count"`
	Duration    float64        `json:"duration"`
	Diagnostics int            `json:"diagnostics"`
}

// LoadScene rebuilds the stored scene with the given fingerprint. A unique
// fingerprint prefix is accepted as well.
// Returns ErrNotFound if no scene matches.
func (s *Store) LoadScene(ctx context.Context, fingerprint string) (*scene.Scene, error) {
	fp, err := s.resolve(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	var document string
	err = s.db.QueryRowContext(ctx, `SELECT document FROM scenes WHERE fingerprint = ?`, fp).Scan(&document)
	if err != nil {
		return nil, fmt.Errorf("load scene: %w", err)
	}
	return unmarshalScene(document)
}

// Summary returns the summary of one stored scene.
// Returns ErrNotFound if no scene matches.
func (s *Store) Summary(ctx context.Context, fingerprint string) (SceneSummary, error) {
	fp, err := s.resolve(ctx, fingerprint)
	if err != nil {
		return SceneSummary{}, err
	}
	row := s.db.QueryRowContext(ctx, summaryQuery+` WHERE s.fingerprint = ?`, fp)
	return scanSummary(row)
}

// ListScenes returns every stored scene ordered by import sequence.
// Returns an empty slice (not nil) for an empty catalog.
func (s *Store) ListScenes(ctx context.Context) ([]SceneSummary, error) {
	rows, err := s.db.QueryContext(ctx, summaryQuery+` ORDER BY s.seq ASC`)
	if err != nil {
		return nil, fmt.Errorf("query scenes: %w", err)
	}
	defer rows.Close()

	summaries := []SceneSummary{}
	for rows.Next() {
		sum, err := scanSummary(rows)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scenes: %w", err)
	}
	return summaries, nil
}

// Groups returns the distinct groups holding at least one node of type t,
// ascending.
func (s *Store) Groups(ctx context.Context, fingerprint string, t scene.NodeType) ([]int, error) {
	fp, err := s.resolve(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT grp FROM nodes
		WHERE fingerprint = ? AND type = ?
		ORDER BY grp ASC
	`, fp, string(t))
	if err != nil {
		return nil, fmt.Errorf("query groups: %w", err)
	}
	defer rows.Close()

	groups := []int{}
	for rows.Next() {
		var g int
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate groups: %w", err)
	}
	return groups, nil
}

// Diagnostics returns the diagnostics recorded when the scene was imported,
// in their original order.
func (s *Store) Diagnostics(ctx context.Context, fingerprint string) (scene.Diagnostics, error) {
	fp, err := s.resolve(ctx, fingerprint)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, path, message FROM diagnostics
		WHERE fingerprint = ?
		ORDER BY idx ASC
	`, fp)
	if err != nil {
		return nil, fmt.Errorf("query diagnostics: %w", err)
	}
	defer rows.Close()

	diags := scene.Diagnostics{}
	for rows.Next() {
		var d scene.Diagnostic
		if err := rows.Scan(&d.Code, &d.Path, &d.Message); err != nil {
			return nil, fmt.Errorf("scan diagnostic: %w", err)
		}
		diags = append(diags, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate diagnostics: %w", err)
	}
	return diags, nil
}

// resolve expands a fingerprint prefix to the full fingerprint.
func (s *Store) resolve(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", ErrNotFound
	}
	pattern := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT fingerprint FROM scenes
		WHERE fingerprint LIKE ? ESCAPE '\'
		ORDER BY fingerprint COLLATE BINARY ASC
		LIMIT 2
	`, pattern)
	if err != nil {
		return "", fmt.Errorf("resolve fingerprint: %w", err)
	}
	defer rows.Close()

	var matches []string
	for rows.Next() {
		var fp string
		if err := rows.Scan(&fp); err != nil {
			return "", fmt.Errorf("scan fingerprint: %w", err)
		}
		if fp == prefix {
			return fp, nil
		}
		matches = append(matches, fp)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate fingerprints: %w", err)
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrNotFound, prefix)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("fingerprint prefix %q is ambiguous", prefix)
	}
}

const summaryQuery = `
	SELECT s.fingerprint, s.seq, s.run_id, s.source, s.version, s.time_unit,
	       s.sample_rate, s.frame_count, s.duration,
	       (SELECT COUNT(*) FROM diagnostics d WHERE d.fingerprint = s.fingerprint)
	FROM scenes s`

type scanner interface {
	Scan(dest ...any) error
}

func scanSummary(row scanner) (SceneSummary, error) {
	var sum SceneSummary
	var unit string
	err := row.Scan(
		&sum.Fingerprint,
		&sum.Seq,
		&sum.RunID,
		&sum.Source,
		&sum.Version,
		&unit,
		&sum.SampleRate,
		&sum.FrameCount,
		&sum.Duration,
		&sum.Diagnostics,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return SceneSummary{}, ErrNotFound
	}
	if err != nil {
		return SceneSummary{}, fmt.Errorf("scan scene: %w", err)
	}
	sum.TimeUnit = scene.TimeUnit(unit)
	return sum, nil
}
