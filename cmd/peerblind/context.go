package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"peerblind/internal/config"
	"peerblind/internal/core/ports"
	"peerblind/internal/infrastructure/metadata/csvmeta"
	"peerblind/internal/infrastructure/metadata/xlsxmeta"
	"peerblind/internal/infrastructure/render/pandoc"
	"peerblind/internal/infrastructure/repository/postgres"
	"peerblind/internal/infrastructure/storage/csvstore"
	"peerblind/internal/infrastructure/storage/docdir"
	"peerblind/internal/observability/logging"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (config.Config, error) {
	c.configOnce.Do(func() {
		path := ""
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		if path != "" {
			c.config, c.configErr = config.LoadWithFile(path)
		} else {
			c.config, c.configErr = config.Load()
		}
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() *slog.Logger {
	c.loggerOnce.Do(func() {
		level := "info"
		if cfg, err := c.ensureConfig(); err == nil {
			level = cfg.LogLevel
		}
		c.logger = logging.NewJSONLogger("peerblind", level)
	})
	return c.logger
}

func (c *commandContext) rosterStore() (*csvstore.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return csvstore.NewStore(cfg.OutputDir), nil
}

func (c *commandContext) proposalDir() (*docdir.Dir, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return docdir.New(cfg.ProposalsDir), nil
}

func (c *commandContext) reviewsDir() (*docdir.Dir, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return docdir.New(cfg.ReviewsDir), nil
}

func (c *commandContext) reviewWriter() (*pandoc.Writer, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return pandoc.NewWriter(cfg.ReviewsDir, c.ensureLogger()), nil
}

// metadataSource prefers the XLSX workbook when one is configured.
func (c *commandContext) metadataSource() (ports.MetadataSource, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if cfg.MetadataXLSX != "" {
		return xlsxmeta.NewReader(cfg.MetadataXLSX, cfg.MetadataSheet, xlsxmeta.DefaultColumns()), nil
	}
	return csvmeta.NewReader(cfg.MetadataCSV, csvmeta.DefaultColumns()), nil
}

// runArchive returns nil without error when no DSN is configured; archival
// is optional.
func (c *commandContext) runArchive(cmdCtx context.Context) (ports.RunArchive, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, err
	}
	if cfg.PostgresDSN == "" {
		return nil, func() {}, nil
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open run archive: %w", err)
	}
	archive := postgres.NewRunArchive(db)
	if err := archive.EnsureSchema(cmdCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("prepare run archive schema: %w", err)
	}
	return archive, func() { _ = db.Close() }, nil
}
