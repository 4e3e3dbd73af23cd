package main

import (
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	log "github.com/sirupsen/logrus"

	"torque-generator/internal/catalog"
	"torque-generator/internal/config"
	"torque-generator/internal/controller"
	"torque-generator/internal/outlet"
	"torque-generator/internal/output"
)

// project is a loaded configuration with its filesystems and outlets.
type project struct {
	cfg      *config.Config
	sourceFS billy.Filesystem
	targetFS billy.Filesystem
	outlets  *outlet.Configuration
}

func loadProject() (*project, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if err := setupLogging(cfg.Logging); err != nil {
		return nil, err
	}

	p := &project{
		cfg:      cfg,
		sourceFS: osfs.New(cfg.Path(cfg.Generator.SourceDir)),
		targetFS: osfs.New(cfg.Path(cfg.Generator.TargetDir)),
	}

	catalogs := make([]string, len(cfg.Generator.Catalogs))
	for i, c := range cfg.Generator.Catalogs {
		catalogs[i] = path.Clean(c)
	}

	p.outlets, err = catalog.Load(p.sourceFS, catalogs...)
	if err != nil {
		return nil, fmt.Errorf("loading outlet catalogs: %w", err)
	}

	p.outlets.Debug = p.outlets.Debug || cfg.Generator.Debug

	log.WithFields(log.Fields{
		"outlets": p.outlets.Len(),
		"units":   len(cfg.Units),
	}).Debug("project loaded")

	return p, nil
}

// controller returns a controller writing to the target directory.
func (p *project) controller(dryRun bool) *controller.Controller {
	w := output.NewWriter(p.targetFS)
	w.DryRun = dryRun
	w.KeepUnformatted = p.cfg.Generator.KeepUnformatted

	c := controller.New(p.outlets, p.sourceFS, w)
	c.Options = p.cfg.Generator.Options

	return c
}

func setupLogging(cfg config.LoggingConfig) error {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return err
	}

	if verbose {
		level = log.DebugLevel
	}

	log.SetLevel(level)

	if cfg.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	}

	return nil
}
