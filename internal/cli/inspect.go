// inspect.go: The inspect subcommand.
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

func (a *app) newInspectCommand() *cobra.Command {
	var in string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show archive and payload headers without a password",
		Long: `Prints the entry name and size, whether the recorded CRC-32 matches,
the payload format and its declared PBKDF2 iteration count. None of this is
authenticated; only import proves the archive is intact.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			archive, err := os.ReadFile(in) // #nosec G304 -- path is chosen by the operator
			if err != nil {
				return fmt.Errorf("failed to read archive: %w", err)
			}
			entry, err := pfz.ReadSingle(archive)
			if err != nil {
				return err
			}
			info, err := pfz.Describe(entry.Content)
			if err != nil {
				return err
			}

			crcStatus := ui.Success.Sprint("ok")
			if err := entry.VerifyCRC(); err != nil {
				a.log.Warn().Err(err).Msg("container checksum mismatch")
				crcStatus = ui.Warning.Sprint("mismatch")
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s %s\n", ui.Label.Sprint("entry:     "), ui.Highlight.Sprint(entry.Name))
			fmt.Fprintf(w, "%s %d bytes\n", ui.Label.Sprint("size:      "), len(entry.Content))
			if !entry.Modified.IsZero() {
				fmt.Fprintf(w, "%s %s\n", ui.Label.Sprint("modified:  "), entry.Modified.Format("2006-01-02 15:04:05"))
			}
			fmt.Fprintf(w, "%s %08x (%s)\n", ui.Label.Sprint("crc32:     "), entry.CRC32, crcStatus)
			fmt.Fprintf(w, "%s %s\n", ui.Label.Sprint("format:    "), info.Format)
			fmt.Fprintf(w, "%s %d\n", ui.Label.Sprint("iterations:"), info.Iterations)
			fmt.Fprintf(w, "%s %d bytes\n", ui.Label.Sprint("plaintext: "), info.PlaintextSize)
			return nil
		},
	}

	cmd.Flags().StringVar(&in, "in", "", "archive file to inspect")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}
