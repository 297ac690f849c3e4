package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"tunefolder/internal/config"
	"tunefolder/internal/folder"
)

// ErrNotFound indicates no build exists for the requested folder.
var ErrNotFound = errors.New("folder not built")

// timeLayout keeps built_at fixed-width so text ordering matches time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages build persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// Open initializes or connects to the build database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.StorePath()
	// Pragmas in the DSN run on every pooled connection, not just the first.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect sqlite db: %w", err)
	}

	s := &Store{db: db, path: dbPath, now: time.Now}
	if err := s.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Save records a new build of f and returns it with its assigned ID.
func (s *Store) Save(ctx context.Context, sourcePath, format, digest string, f folder.Folder) (*Build, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, errors.New("folder name is required")
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal folder: %w", err)
	}

	build := &Build{
		ID:         uuid.NewString(),
		FolderName: name,
		SourcePath: sourcePath,
		Format:     format,
		Digest:     digest,
		Folder:     f,
		BuiltAt:    s.now().UTC(),
	}
	_, err = s.db.ExecContext(
		ctx,
		`INSERT INTO builds (
            id, folder_name, source_path, format, digest, folder_json,
            section_count, set_count, tune_count, built_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		build.ID,
		build.FolderName,
		build.SourcePath,
		build.Format,
		build.Digest,
		string(payload),
		len(f.Content),
		len(f.Sets()),
		f.TuneCount(),
		build.BuiltAt.Format(timeLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert build: %w", err)
	}
	return build, nil
}

// Latest returns the most recent build for a folder, or ErrNotFound.
func (s *Store) Latest(ctx context.Context, folderName string) (*Build, error) {
	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, folder_name, source_path, format, digest, folder_json, built_at
         FROM builds WHERE folder_name = ? COLLATE NOCASE
         ORDER BY built_at DESC, rowid DESC LIMIT 1`,
		strings.TrimSpace(folderName),
	)
	var (
		build    Build
		payload  string
		builtRaw string
	)
	err := row.Scan(&build.ID, &build.FolderName, &build.SourcePath, &build.Format, &build.Digest, &payload, &builtRaw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, folderName)
	}
	if err != nil {
		return nil, fmt.Errorf("get latest build: %w", err)
	}
	if err := json.Unmarshal([]byte(payload), &build.Folder); err != nil {
		return nil, fmt.Errorf("decode folder %s: %w", build.FolderName, err)
	}
	build.BuiltAt = parseTime(builtRaw)
	return &build, nil
}

// List returns the latest build summary for every folder, ordered by name.
func (s *Store) List(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT b.id, b.folder_name, b.source_path, b.format, b.digest,
                b.section_count, b.set_count, b.tune_count, b.built_at
         FROM builds b
         WHERE b.rowid = (
             SELECT rowid FROM builds
             WHERE folder_name = b.folder_name
             ORDER BY built_at DESC, rowid DESC LIMIT 1
         )
         ORDER BY b.folder_name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list builds: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// History returns up to limit builds for a folder, newest first.
func (s *Store) History(ctx context.Context, folderName string, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, folder_name, source_path, format, digest,
                section_count, set_count, tune_count, built_at
         FROM builds WHERE folder_name = ? COLLATE NOCASE
         ORDER BY built_at DESC, rowid DESC LIMIT ?`,
		strings.TrimSpace(folderName),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("build history: %w", err)
	}
	defer rows.Close()
	return scanSummaries(rows)
}

// Prune removes all but the newest keep builds of a folder and reports how
// many rows were deleted.
func (s *Store) Prune(ctx context.Context, folderName string, keep int) (int64, error) {
	if keep < 1 {
		keep = 1
	}
	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM builds
         WHERE folder_name = ? COLLATE NOCASE AND rowid NOT IN (
             SELECT rowid FROM builds WHERE folder_name = ? COLLATE NOCASE
             ORDER BY built_at DESC, rowid DESC LIMIT ?
         )`,
		folderName, folderName, keep,
	)
	if err != nil {
		return 0, fmt.Errorf("prune builds: %w", err)
	}
	return res.RowsAffected()
}

func scanSummaries(rows *sql.Rows) ([]Summary, error) {
	var out []Summary
	for rows.Next() {
		var (
			sum      Summary
			builtRaw string
		)
		if err := rows.Scan(
			&sum.ID, &sum.FolderName, &sum.SourcePath, &sum.Format, &sum.Digest,
			&sum.Sections, &sum.Sets, &sum.Tunes, &builtRaw,
		); err != nil {
			return nil, fmt.Errorf("scan build: %w", err)
		}
		sum.BuiltAt = parseTime(builtRaw)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate builds: %w", err)
	}
	return out, nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(timeLayout, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
