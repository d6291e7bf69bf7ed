package engine

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// ErrPadaRequired is returned when storing finite derivations without a pada.
var ErrPadaRequired = errors.New("pada is required when storing tinantas")

const schema = `
CREATE TABLE IF NOT EXISTS tinantas (
	dhatu   TEXT NOT NULL,
	lakara  TEXT NOT NULL,
	prayoga TEXT NOT NULL,
	purusha TEXT NOT NULL,
	vacana  TEXT NOT NULL,
	pada    TEXT NOT NULL,
	sanadi  TEXT,
	text    TEXT NOT NULL,
	history TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS tinantas_args
	ON tinantas (dhatu, lakara, prayoga, purusha, vacana);

CREATE TABLE IF NOT EXISTS krdantas (
	dhatu   TEXT NOT NULL,
	krt     TEXT NOT NULL,
	text    TEXT NOT NULL,
	history TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS krdantas_args ON krdantas (dhatu, krt);
`

// Store serves precomputed derivations from a SQLite database. Rows are
// returned in insertion order, which is the order the engine produced them.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenStore opens (creating if needed) the database at dsn and ensures the
// schema exists.
func OpenStore(dsn string, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// One connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// DeriveTinantas implements Engine. A nil Pada matches rows of either pada.
func (s *Store) DeriveTinantas(ctx context.Context, args TinArgs) ([]Prakriya, error) {
	pada := optional(args.Pada)
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, history FROM tinantas
		WHERE dhatu = ? AND lakara = ? AND prayoga = ? AND purusha = ? AND vacana = ?
			AND (? IS NULL OR pada = ?)
			AND sanadi IS ?
		ORDER BY rowid
	`, args.Dhatu, args.Lakara.String(), args.Prayoga.String(), args.Purusha.String(),
		args.Vacana.String(), pada, pada, optional(args.Sanadi))
	if err != nil {
		return nil, fmt.Errorf("querying tinantas: %w", err)
	}
	return scanPrakriyas(rows)
}

// DeriveKrdantas implements Engine.
func (s *Store) DeriveKrdantas(ctx context.Context, args KrtArgs) ([]Prakriya, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT text, history FROM krdantas
		WHERE dhatu = ? AND krt = ?
		ORDER BY rowid
	`, args.Dhatu, args.Krt.String())
	if err != nil {
		return nil, fmt.Errorf("querying krdantas: %w", err)
	}
	return scanPrakriyas(rows)
}

// PutTinantas replaces the derivations stored for args.
func (s *Store) PutTinantas(ctx context.Context, args TinArgs, ps []Prakriya) error {
	if args.Pada == nil {
		return ErrPadaRequired
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		sanadi := optional(args.Sanadi)
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM tinantas
			WHERE dhatu = ? AND lakara = ? AND prayoga = ? AND purusha = ? AND vacana = ?
				AND pada = ? AND sanadi IS ?
		`, args.Dhatu, args.Lakara.String(), args.Prayoga.String(), args.Purusha.String(),
			args.Vacana.String(), args.Pada.String(), sanadi); err != nil {
			return fmt.Errorf("clearing tinantas: %w", err)
		}

		for _, p := range ps {
			history, err := json.Marshal(p.History)
			if err != nil {
				return fmt.Errorf("marshaling history: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO tinantas (dhatu, lakara, prayoga, purusha, vacana, pada, sanadi, text, history)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, args.Dhatu, args.Lakara.String(), args.Prayoga.String(), args.Purusha.String(),
				args.Vacana.String(), args.Pada.String(), sanadi, p.Text, string(history)); err != nil {
				return fmt.Errorf("inserting tinanta %s: %w", p.Text, err)
			}
		}
		return nil
	})
}

// PutKrdantas replaces the derivations stored for args.
func (s *Store) PutKrdantas(ctx context.Context, args KrtArgs, ps []Prakriya) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM krdantas WHERE dhatu = ? AND krt = ?`,
			args.Dhatu, args.Krt.String()); err != nil {
			return fmt.Errorf("clearing krdantas: %w", err)
		}

		for _, p := range ps {
			history, err := json.Marshal(p.History)
			if err != nil {
				return fmt.Errorf("marshaling history: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO krdantas (dhatu, krt, text, history) VALUES (?, ?, ?, ?)`,
				args.Dhatu, args.Krt.String(), p.Text, string(history)); err != nil {
				return fmt.Errorf("inserting krdanta %s: %w", p.Text, err)
			}
		}
		return nil
	})
}

// Record is one line of a JSONL derivation dump.
type Record struct {
	Kind      string     `json:"kind"` // "tin" or "krt"
	Tin       *TinArgs   `json:"tin,omitempty"`
	Krt       *KrtArgs   `json:"krt,omitempty"`
	Prakriyas []Prakriya `json:"prakriyas"`
}

// ImportStats summarises an Import.
type ImportStats struct {
	Tinantas int
	Krdantas int
	Skipped  int
}

// Import loads a JSONL dump of Records. Malformed lines are skipped and
// counted; storage failures abort the import.
func (s *Store) Import(ctx context.Context, r io.Reader) (ImportStats, error) {
	var stats ImportStats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			s.logger.Debug("skipping malformed record", zap.Int("line", lineNum), zap.Error(err))
			stats.Skipped++
			continue
		}

		switch {
		case rec.Kind == "tin" && rec.Tin != nil && rec.Tin.Pada != nil:
			if err := s.PutTinantas(ctx, *rec.Tin, rec.Prakriyas); err != nil {
				return stats, fmt.Errorf("line %d: %w", lineNum, err)
			}
			stats.Tinantas++
		case rec.Kind == "krt" && rec.Krt != nil:
			if err := s.PutKrdantas(ctx, *rec.Krt, rec.Prakriyas); err != nil {
				return stats, fmt.Errorf("line %d: %w", lineNum, err)
			}
			stats.Krdantas++
		default:
			s.logger.Debug("skipping incomplete record", zap.Int("line", lineNum), zap.String("kind", rec.Kind))
			stats.Skipped++
		}
	}

	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("reading dump: %w", err)
	}

	s.logger.Info("import finished",
		zap.Int("tinantas", stats.Tinantas),
		zap.Int("krdantas", stats.Krdantas),
		zap.Int("skipped", stats.Skipped))

	return stats, nil
}

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

func scanPrakriyas(rows *sql.Rows) ([]Prakriya, error) {
	defer rows.Close()

	var out []Prakriya
	for rows.Next() {
		var p Prakriya
		var history string
		if err := rows.Scan(&p.Text, &history); err != nil {
			return nil, fmt.Errorf("scanning prakriya: %w", err)
		}
		if err := json.Unmarshal([]byte(history), &p.History); err != nil {
			return nil, fmt.Errorf("parsing history of %s: %w", p.Text, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// optional returns the name of *v, or nil for a SQL NULL.
func optional[T fmt.Stringer](v *T) any {
	if v == nil {
		return nil
	}
	return (*v).String()
}

var _ Engine = (*Store)(nil)
