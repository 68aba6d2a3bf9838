package commands

import (
	"database/sql"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/teranos/parigen/am"
	"github.com/teranos/parigen/db"
	"github.com/teranos/parigen/decl"
	"github.com/teranos/parigen/desc"
	"github.com/teranos/parigen/doc"
	"github.com/teranos/parigen/errors"
	"github.com/teranos/parigen/filter"
	"github.com/teranos/parigen/gen"
	"github.com/teranos/parigen/logger"
)

// loadConfig reads the configuration named by --config, or the cascade
// when it is not given, and applies the command line overrides.
func loadConfig(cmd *cobra.Command) (*am.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	var cfg *am.Config
	var err error
	if path != "" {
		cfg, err = am.LoadFromFile(path)
	} else {
		am.Reset()
		cfg, err = am.Load()
	}
	if err != nil {
		return nil, err
	}

	if f := cmd.Flags().Lookup("desc"); f != nil && f.Changed {
		cfg.Desc.Path = f.Value.String()
	}
	if f := cmd.Flags().Lookup("output-dir"); f != nil && f.Changed {
		cfg.Output.Dir = f.Value.String()
	}
	if f := cmd.Flags().Lookup("report"); f != nil && f.Changed {
		cfg.Output.Report = f.Value.String()
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// pipeline holds what a generator run needs and what must be closed after it
type pipeline struct {
	symbols decl.Symbols
	filter  *filter.Filter
	store   desc.Store
	opts    gen.Options
	db      *sql.DB
}

func (p *pipeline) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// newPipeline wires the configured store, filter and doc source into
// generator options
func newPipeline(cfg *am.Config, progress io.Writer, log *zap.SugaredLogger) (*pipeline, error) {
	symbols, err := decl.LoadFiles(cfg.Decl.Paths...)
	if err != nil {
		return nil, err
	}
	log.Debugw("Loaded declarations", logger.FieldCount, symbols.Len(), logger.FieldFile, cfg.Decl.Paths)

	f, err := filter.New(cfg.FilterConfig(symbols))
	if err != nil {
		return nil, err
	}

	p := &pipeline{symbols: symbols, filter: f}
	switch cfg.Store.Backend {
	case am.StoreSQLite:
		conn, err := db.OpenWithMigrations(cfg.Store.Database, log)
		if err != nil {
			return nil, errors.WrapStoreFailure(err, "opening descriptor database")
		}
		p.db = conn
		p.store = desc.NewSQLiteStore(conn, log)
	default:
		p.store = desc.NewFileStore(cfg.Desc.Path, log)
	}

	var docs doc.Extractor
	if cfg.Docs.Command != "" {
		docs, err = doc.NewCommandDocs(cfg.Docs.Command, log)
		if err != nil {
			p.Close()
			return nil, err
		}
	}

	p.opts = gen.Options{
		Store:        p.store,
		Filter:       f,
		Docs:         docs,
		Deprecations: cfg.DeprecationMap(),
		ValuePath:    cfg.GenPath(),
		EnginePath:   cfg.InstancePath(),
		Progress:     progress,
		Logger:       log,
	}
	return p, nil
}
