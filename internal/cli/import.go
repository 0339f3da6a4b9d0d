// import.go: The import subcommand.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/agilira/pfz"
	"github.com/agilira/pfz/internal/ui"
	"github.com/spf13/cobra"
)

func (a *app) newImportCommand() *cobra.Command {
	var in, out string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Decrypt an archive back into a JSON profile list",
		Long: `Reads an archive written by export (or by the browser application) and
prints the recovered JSON profile array, or writes it to --out.

Examples:
  pfz import --in providers.zip
  pfz import --in providers.zip --out profiles.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archive, err := os.ReadFile(in) // #nosec G304 -- path is chosen by the operator
			if err != nil {
				return fmt.Errorf("failed to read archive: %w", err)
			}
			password, err := a.password()
			if err != nil {
				return err
			}
			defer pfz.Zeroize(password)

			var t pfz.Transfer
			profiles, err := t.Import(archive, password)
			if err != nil {
				return err
			}
			doc, err := json.MarshalIndent(profiles, "", "  ")
			if err != nil {
				return err
			}
			defer pfz.Zeroize(doc)
			doc = append(doc, '\n')

			a.log.Info().Str("in", in).Int("profiles", len(profiles)).Msg("archive decrypted")
			if out == "" {
				_, err := cmd.OutOrStdout().Write(doc)
				return err
			}
			if err := writePrivateFile(out, doc); err != nil {
				return fmt.Errorf("failed to write profiles: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Imported %d profiles to %s\n",
				ui.Success.Sprint("✓"), len(profiles), ui.Path.Sprint(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "archive file to read")
	cmd.Flags().StringVar(&out, "out", "", "file to write the profiles to (default stdout)")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
