package store

import (
	"context"
	"fmt"

	"github.com/Cult-DSP/LUSID/internal/scene"
)

// ImportRecord identifies one stored scene.
type ImportRecord struct {
	Fingerprint string `json:"fingerprint"`
	RunID       string `json:"run_id"`
	Seq         int64  `json:"seq"`
	Source      string `json:"source"`

	// Inserted is false when the scene was already present; the other
	// fields then describe the original import.
	Inserted bool `json:"inserted"`
}

// ImportScene stores sc with the diagnostics produced while building it.
// Uses ON CONFLICT(fingerprint) DO NOTHING for idempotency: importing a scene
// with the same content again leaves the catalog unchanged.
//
// The scene row, its frames, node index and diagnostics are written in a
// single transaction.
func (s *Store) ImportScene(ctx context.Context, sc *scene.Scene, source string, diags scene.Diagnostics) (ImportRecord, error) {
	fingerprint, err := scene.Fingerprint(sc)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("import scene: %w", err)
	}
	document, err := marshalScene(sc)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("import scene: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("import scene: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM scenes`).Scan(&seq); err != nil {
		return ImportRecord{}, fmt.Errorf("import scene: next seq: %w", err)
	}

	rec := ImportRecord{
		Fingerprint: fingerprint,
		RunID:       s.runIDs.Generate(),
		Seq:         seq,
		Source:      source,
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO scenes
		(fingerprint, seq, run_id, source, version, time_unit, sample_rate, frame_count, duration, document)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO NOTHING
	`,
		rec.Fingerprint,
		rec.Seq,
		rec.RunID,
		rec.Source,
		sc.Version,
		string(sc.TimeUnit),
		sc.SampleRate,
		sc.FrameCount(),
		sc.DurationSeconds(),
		document,
	)
	if err != nil {
		return ImportRecord{}, fmt.Errorf("import scene: insert: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return ImportRecord{}, fmt.Errorf("import scene: rows affected: %w", err)
	}
	if rowsAffected == 0 {
		// Conflict - scene already stored, report the original import
		err = tx.QueryRowContext(ctx, `
			SELECT run_id, seq, source FROM scenes WHERE fingerprint = ?
		`, fingerprint).Scan(&rec.RunID, &rec.Seq, &rec.Source)
		if err != nil {
			return ImportRecord{}, fmt.Errorf("import scene: select existing: %w", err)
		}
		return rec, nil
	}

	for i, f := range sc.Frames {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO frames (fingerprint, idx, time, node_count) VALUES (?, ?, ?, ?)
		`, fingerprint, i, f.Time, len(f.Nodes)); err != nil {
			return ImportRecord{}, fmt.Errorf("import scene: frame %d: %w", i, err)
		}
		for _, n := range f.Nodes {
			id := n.NodeID()
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO nodes (fingerprint, frame_idx, node_id, grp, level, type) VALUES (?, ?, ?, ?, ?, ?)
			`, fingerprint, i, id.String(), id.Group, id.Level, string(n.NodeType())); err != nil {
				return ImportRecord{}, fmt.Errorf("import scene: frame %d node %s: %w", i, id, err)
			}
		}
	}

	for i, d := range diags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO diagnostics (fingerprint, idx, code, path, message) VALUES (?, ?, ?, ?, ?)
		`, fingerprint, i, d.Code, d.Path, d.Message); err != nil {
			return ImportRecord{}, fmt.Errorf("import scene: diagnostic %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return ImportRecord{}, fmt.Errorf("import scene: commit: %w", err)
	}

	rec.Inserted = true
	return rec, nil
}
