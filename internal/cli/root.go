// root.go: Root command and shared state for the pfz command.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

// Package cli implements the pfz command: export and import of encrypted
// provider profile archives, and password-free inspection of archives.
package cli

import (
	"os"

	"github.com/agilira/pfz"
	"github.com/agilira/pfz/internal/config"
	"github.com/agilira/pfz/internal/logger"
	"github.com/agilira/pfz/internal/ui"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs once configuration is loaded.
type app struct {
	environ map[string]string

	cfg *config.Config
	log *logger.Logger

	passwordFile string
	logLevel     string
}

// NewRootCommand builds the command tree. Configuration is read from environ,
// or from the process environment when environ is nil.
func NewRootCommand(environ map[string]string) *cobra.Command {
	a := &app{environ: environ, log: logger.Nop()}

	root := &cobra.Command{
		Use:   "pfz",
		Short: "Export and import encrypted provider profile archives",
		Long: `pfz moves API provider profiles between machines as a password
protected ZIP archive holding a single PFZ2 (or PFZ1) payload.

The password is read from --password-file, PFZ_PASSWORD_FILE or
PFZ_PASSWORD, in that order.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	root.PersistentFlags().StringVar(&a.passwordFile, "password-file", "", "file holding the archive password")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides PFZ_LOG_LEVEL)")

	root.AddCommand(
		a.newExportCommand(),
		a.newImportCommand(),
		a.newInspectCommand(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.environ)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	log, err := logger.New(cmd.ErrOrStderr(), cfg.LogLevel, ui.NoColor())
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log
	a.log.Debug().Str("command", cmd.Name()).Str("format", cfg.Format).Int("iterations", cfg.Iterations).Msg("configuration loaded")
	return nil
}

func (a *app) password() ([]byte, error) {
	return a.cfg.ResolvePassword(a.passwordFile)
}

// sealer applies flag overrides on top of the loaded configuration.
func (a *app) sealer(format string, iterations int) (pfz.Sealer, error) {
	if format == "" {
		format = a.cfg.Format
	}
	f, err := config.ParseFormat(format)
	if err != nil {
		return pfz.Sealer{}, err
	}
	if iterations == 0 {
		iterations = a.cfg.Iterations
	}
	return pfz.Sealer{
		Format:     f,
		Iterations: iterations,
		Strict:     a.cfg.StrictEntropy,
		Logger:     a.log.Zerolog(),
	}, nil
}

// writePrivateFile writes data to path with mode 0600, tightening the mode of
// an existing file before any byte is written.
func writePrivateFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) // #nosec G304 -- path is chosen by the operator
	if err != nil {
		return err
	}
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
