// main.go: Entry point of the pfz command.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"github.com/agilira/pfz/internal/cli"
	"github.com/agilira/pfz/internal/ui"
)

func main() {
	if err := cli.NewRootCommand(nil).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Error.Sprint("✗"), err)
		os.Exit(1)
	}
}
