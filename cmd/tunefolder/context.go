package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"tunefolder/internal/config"
	"tunefolder/internal/logging"
	"tunefolder/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configSeen bool
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, exists, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
		c.configSeen = exists
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		logger, err := logging.NewFromConfig(c.config)
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

// resolveFolderName returns name when set, otherwise the only stored folder.
func resolveFolderName(ctx context.Context, st *store.Store, name string) (string, error) {
	if name = strings.TrimSpace(name); name != "" {
		return name, nil
	}
	summaries, err := st.List(ctx)
	if err != nil {
		return "", err
	}
	switch len(summaries) {
	case 0:
		return "", errors.New("no folders built yet; run `tunefolder build` first")
	case 1:
		return summaries[0].FolderName, nil
	default:
		names := make([]string, len(summaries))
		for i, s := range summaries {
			names[i] = s.FolderName
		}
		return "", fmt.Errorf("several folders are built (%s); choose one with --folder", strings.Join(names, ", "))
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
