// export.go: The export subcommand.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"fmt"
	"os"

	"github.com/agilira/pfz"
	"github.com/agilira/pfz/internal/ui"
	"github.com/spf13/cobra"
)

func (a *app) newExportCommand() *cobra.Command {
	var (
		in, out, format, entry string
		iterations             int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Encrypt a JSON profile list into a ZIP archive",
		Long: `Reads a JSON array of profiles (id, name, apiKey, baseUrl, pluginId)
and writes it as an encrypted single-entry ZIP archive readable by import.

Examples:
  pfz export --in profiles.json --out providers.zip
  pfz export --in profiles.json --out providers.zip --format pfz1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := os.ReadFile(in) // #nosec G304 -- path is chosen by the operator
			if err != nil {
				return fmt.Errorf("failed to read profiles: %w", err)
			}
			profiles, err := pfz.DecodeProfiles(data)
			pfz.Zeroize(data)
			if err != nil {
				return err
			}

			password, err := a.password()
			if err != nil {
				return err
			}
			defer pfz.Zeroize(password)

			sealer, err := a.sealer(format, iterations)
			if err != nil {
				return err
			}
			t := pfz.Transfer{Sealer: sealer, EntryName: entry}
			archive, err := t.Export(profiles, password)
			if err != nil {
				return err
			}
			if err := writePrivateFile(out, archive); err != nil {
				return fmt.Errorf("failed to write archive: %w", err)
			}

			a.log.Info().Str("out", out).Int("profiles", len(profiles)).Int("bytes", len(archive)).Msg("archive written")
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d profiles to %s\n",
				ui.Success.Sprint("✓"), len(profiles), ui.Path.Sprint(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "JSON file with the profiles to export")
	cmd.Flags().StringVar(&out, "out", "", "archive file to write")
	cmd.Flags().StringVar(&format, "format", "", "payload format, pfz2 or pfz1 (overrides PFZ_FORMAT)")
	cmd.Flags().IntVar(&iterations, "iterations", 0, "PBKDF2 iterations for pfz2 (overrides PFZ_ITERATIONS)")
	cmd.Flags().StringVar(&entry, "entry", pfz.DefaultEntryName, "name of the entry inside the archive")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}
