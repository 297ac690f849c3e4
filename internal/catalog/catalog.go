package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/errgroup"

	"tunefolder/internal/abcparse"
	"tunefolder/internal/config"
	"tunefolder/internal/folder"
	"tunefolder/internal/logging"
	"tunefolder/internal/outline"
	"tunefolder/internal/store"
)

// ErrBuildLocked indicates another process holds the build lock.
var ErrBuildLocked = errors.New("another build is in progress")

// Result reports the outcome of building one folder.
type Result struct {
	Build     *store.Build
	Unchanged bool
	Elapsed   time.Duration
}

// Builder assembles configured folders.
type Builder struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
	lock   *flock.Flock
}

// New constructs a Builder. A nil logger discards output.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger) (*Builder, error) {
	if cfg == nil || st == nil {
		return nil, errors.New("catalog requires config and store")
	}
	return &Builder{
		cfg:    cfg,
		store:  st,
		logger: logging.NewComponentLogger(logger, "catalog"),
		lock:   flock.New(cfg.LockPath()),
	}, nil
}

// Assemble reads and parses src, returning the linked folder. It touches
// neither the store nor the lock.
func (b *Builder) Assemble(src config.FolderSource) (folder.Folder, error) {
	format := src.Format
	if format == "" {
		format = config.InferFormat(src.Source)
	}

	var (
		parsed folder.Folder
		err    error
	)
	switch format {
	case config.FormatABC:
		var data []byte
		data, err = os.ReadFile(src.Source)
		if err != nil {
			return folder.Folder{}, fmt.Errorf("read source: %w", err)
		}
		parsed, err = abcparse.Parse(src.Name, string(data), b.parserOptions())
	case config.FormatLaTeX:
		dir, base := filepath.Split(src.Source)
		if dir == "" {
			dir = "."
		}
		parsed, err = outline.Parse(os.DirFS(dir), src.Name, base)
	default:
		return folder.Folder{}, fmt.Errorf("unsupported source format %q", format)
	}
	if err != nil {
		return folder.Folder{}, fmt.Errorf("%s: %w", src.Source, err)
	}
	return folder.LinkSets(parsed), nil
}

// Build assembles one folder under the build lock and stores it.
func (b *Builder) Build(ctx context.Context, src config.FolderSource, force bool) (*Result, error) {
	unlock, err := b.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()
	return b.build(ctx, src, force)
}

// BuildAll builds every configured folder, at most Build.Concurrency at a
// time. Results follow configuration order. The first failure cancels
// folders that have not started.
func (b *Builder) BuildAll(ctx context.Context, force bool) ([]Result, error) {
	if len(b.cfg.Folders) == 0 {
		return nil, errors.New("no folders configured")
	}
	unlock, err := b.acquire()
	if err != nil {
		return nil, err
	}
	defer unlock()

	results := make([]Result, len(b.cfg.Folders))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, b.cfg.Build.Concurrency))
	for i, src := range b.cfg.Folders {
		g.Go(func() error {
			res, err := b.build(ctx, src, force)
			if err != nil {
				return fmt.Errorf("folder %s: %w", src.Name, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (b *Builder) build(ctx context.Context, src config.FolderSource, force bool) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	started := time.Now()
	logger := b.logger.With(logging.Folder(src.Name))

	f, err := b.Assemble(src)
	if err != nil {
		logger.Error("folder build failed", logging.Error(err))
		return nil, err
	}
	payload, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal folder: %w", err)
	}
	digest := store.Digest(payload)

	if !force {
		latest, err := b.store.Latest(ctx, f.Name)
		switch {
		case err == nil && latest.Digest == digest:
			logger.Info("folder unchanged", logging.String("build_id", latest.ID))
			return &Result{Build: latest, Unchanged: true, Elapsed: time.Since(started)}, nil
		case err != nil && !errors.Is(err, store.ErrNotFound):
			logging.WarnWithContext(logger, "previous build unreadable", "store_read_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "folder will be rebuilt"),
			)
		}
	}

	format := src.Format
	if format == "" {
		format = config.InferFormat(src.Source)
	}
	saved, err := b.store.Save(ctx, src.Source, format, digest, f)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(started)
	logger.Info("folder built",
		logging.String("build_id", saved.ID),
		logging.Int("sections", len(f.Content)),
		logging.Int("sets", len(f.Sets())),
		logging.Int("tunes", f.TuneCount()),
		logging.Duration("elapsed", elapsed),
	)
	return &Result{Build: saved, Elapsed: elapsed}, nil
}

func (b *Builder) parserOptions() abcparse.Options {
	opts := abcparse.DefaultOptions()
	if b.cfg.Parser.PerTuneFields != nil {
		opts.PerTuneFields = append([]string{}, b.cfg.Parser.PerTuneFields...)
	}
	return opts
}

func (b *Builder) acquire() (func(), error) {
	if err := b.cfg.EnsureDirectories(); err != nil {
		return nil, err
	}
	ok, err := b.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire build lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock %s)", ErrBuildLocked, b.lock.Path())
	}
	return func() {
		if err := b.lock.Unlock(); err != nil {
			b.logger.Warn("release build lock failed", logging.Error(err))
		}
	}, nil
}
