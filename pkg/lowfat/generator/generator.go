// Package generator runs the whole generation: it loads the configuration,
// computes every artefact in memory and only then writes the header and the
// linker scripts.
package generator

import (
	"context"
	"os"
	"path/filepath"

	"github.com/facebookgo/atomicfile"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/multierr"

	"github.com/lowfat-project/lfgen/pkg/lib/validate"
	"github.com/lowfat-project/lfgen/pkg/lowfat/config"
	"github.com/lowfat-project/lfgen/pkg/lowfat/geometry"
	"github.com/lowfat-project/lfgen/pkg/lowfat/header"
	"github.com/lowfat-project/lfgen/pkg/lowfat/linkerscript"
	"github.com/lowfat-project/lfgen/pkg/lowfat/sizeclass"
)

// Default paths, relative to the working directory.
const (
	DefaultConfigPath = "lf_config.json"
	DefaultSizesPath  = "src/sizes.h"
	DefaultScriptPath = "build/lowfat.ld"
)

const outputMode = 0o644

type Options struct {
	ConfigPath string
	SizesPath  string
	// ScriptPath is the standard linker script, skipped when empty.
	ScriptPath string
	// LLDScriptPath is the patched default script, skipped when empty.
	LLDScriptPath string

	Header       header.Options
	LinkerScript linkerscript.Options
	Patch        linkerscript.PatchOptions

	// Source provides the default script for LLDScriptPath.
	Source linkerscript.Source
}

func DefaultOptions() Options {
	return Options{
		ConfigPath:   DefaultConfigPath,
		SizesPath:    DefaultSizesPath,
		ScriptPath:   DefaultScriptPath,
		Header:       header.DefaultOptions(),
		LinkerScript: linkerscript.DefaultOptions(),
		Patch:        linkerscript.DefaultPatchOptions(),
		Source:       linkerscript.NewExecSource(linkerscript.DefaultLinker),
	}
}

// Plan holds everything derived from one configuration.
type Plan struct {
	Layout *geometry.Layout
	Tables *sizeclass.Tables
	Header []byte
	// Script is the standard linker script.
	Script []byte
}

// Prepare loads the configuration at opts.ConfigPath and plans it.
func Prepare(opts Options) (*Plan, error) {
	if err := validate.FileExists(opts.ConfigPath, "config file '%s' does not exist", opts.ConfigPath); err != nil {
		return nil, err
	}
	if err := validate.IsFile(opts.ConfigPath, "config file '%s' is not a regular file", opts.ConfigPath); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	return NewPlan(cfg, opts)
}

// NewPlan derives the layout, builds and checks the tables and renders the
// header and the standard script.
func NewPlan(cfg *config.Configuration, opts Options) (*Plan, error) {
	layout, err := geometry.Derive(cfg)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "invalid region layout")
	}
	tables, err := sizeclass.Build(layout)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build size-class tables")
	}
	if err := sizeclass.Verify(layout, tables); err != nil {
		return nil, err
	}
	return &Plan{
		Layout: layout,
		Tables: tables,
		Header: header.Render(layout, tables, opts.Header),
		Script: linkerscript.Render(layout, opts.LinkerScript),
	}, nil
}

// Run generates every requested output. A configuration error stops it
// before anything is written. A failure to produce the patched default
// script only skips that file; it is reported together with any write error.
func Run(ctx context.Context, opts Options) error {
	if err := validate.NotBlank(opts.SizesPath, "no path for the sizes header"); err != nil {
		return err
	}
	if opts.LLDScriptPath != "" {
		if err := validate.NotNil(opts.Source, "no linker to get the default script for '%s' from", opts.LLDScriptPath); err != nil {
			return err
		}
	}
	plan, err := Prepare(opts)
	if err != nil {
		return err
	}

	var errs error
	var patched string
	if opts.LLDScriptPath != "" {
		patched, err = linkerscript.FetchAndPatch(ctx, opts.Source, plan.Layout, opts.Patch)
		if err != nil {
			log.Ctx(ctx).Error().Err(err).Msgf("Skipping %s", opts.LLDScriptPath)
			errs = multierr.Append(errs, pkgerrors.Wrapf(err, "could not generate '%s'", opts.LLDScriptPath))
		}
	}

	errs = multierr.Append(errs, writeFile(ctx, opts.SizesPath, plan.Header))
	if opts.ScriptPath != "" {
		log.Ctx(ctx).Debug().Msgf("Generate %s", opts.ScriptPath)
		errs = multierr.Append(errs, writeFile(ctx, opts.ScriptPath, plan.Script))
	}
	if patched != "" {
		log.Ctx(ctx).Debug().Msgf("Generate %s", opts.LLDScriptPath)
		errs = multierr.Append(errs, writeFile(ctx, opts.LLDScriptPath, []byte(patched)))
	}
	return errs
}

// writeFile replaces path with content, creating missing parent directories.
// Readers of path never see a partially written file.
func writeFile(ctx context.Context, path string, content []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil { //nolint:gomnd
		return pkgerrors.Wrapf(err, "could not create directory for '%s'", path)
	}
	f, err := atomicfile.New(path, outputMode)
	if err != nil {
		return pkgerrors.Wrapf(err, "could not create '%s'", path)
	}
	if _, err := f.Write(content); err != nil {
		_ = f.Abort()
		return pkgerrors.Wrapf(err, "could not write '%s'", path)
	}
	if err := f.Close(); err != nil {
		return pkgerrors.Wrapf(err, "could not write '%s'", path)
	}
	log.Ctx(ctx).Debug().Str("path", path).Int("bytes", len(content)).Msg("Wrote file")
	return nil
}
