// logger_test.go: Tests for the console logger.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "warn", true)
	require.NoError(t, err)

	l.Info().Msg("hidden")
	l.Warn().Msg("weak entropy")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "weak entropy")
	assert.Contains(t, out, "WRN")
	assert.Contains(t, out, "role=pfz")
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, "chatty", true)
	assert.Error(t, err)
}

func TestNop(t *testing.T) {
	l := Nop()
	require.NotNil(t, l)
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}

func TestZerolog_SharesOutput(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, "debug", true)
	require.NoError(t, err)

	l.Zerolog().Debug().Msg("through pointer")
	assert.Contains(t, buf.String(), "through pointer")
}
