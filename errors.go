// errors.go: Error taxonomy shared by the archive, cipher and transfer layers.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"errors"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

// Public sentinel errors. Every error returned by this package wraps exactly
// one of them, so callers can branch with errors.Is().
var (
	// ErrFormat is returned for magic mismatches, truncated or malformed
	// payloads and containers, and unsupported ZIP compression methods.
	ErrFormat = errors.New("pfz: invalid archive format")

	// ErrAuthentication is returned when the authentication tag does not verify.
	// A wrong password and corrupted data are indistinguishable.
	ErrAuthentication = errors.New("pfz: wrong password or corrupted data")

	// ErrSchema is returned when decrypted data does not decode to a valid
	// list of profiles, or when a profile to export is incomplete.
	ErrSchema = errors.New("pfz: invalid profile data")

	// ErrParameter is returned for malformed call arguments such as a
	// non-positive iteration count or an empty password.
	ErrParameter = errors.New("pfz: invalid parameter")

	// ErrEntropy is returned by a strict Sealer when the secure random
	// source cannot supply salt and nonce bytes.
	ErrEntropy = errors.New("pfz: secure random source unavailable")

	// ErrCipherInit is returned when the native AES-GCM cipher cannot be built.
	ErrCipherInit = errors.New("pfz: cipher initialization error")
)

// Error codes for rich error handling
const (
	ErrCodeFormat     = "PFZ_FORMAT"
	ErrCodeAuth       = "PFZ_AUTH"
	ErrCodeSchema     = "PFZ_SCHEMA"
	ErrCodeParameter  = "PFZ_PARAMETER"
	ErrCodeEntropy    = "PFZ_ENTROPY"
	ErrCodeCipherInit = "PFZ_CIPHER_INIT"
)

func formatError(msg string) error {
	return fmt.Errorf("%w: %w", ErrFormat, goerrors.New(ErrCodeFormat, msg))
}

func authError() error {
	return fmt.Errorf("%w: %w", ErrAuthentication, goerrors.New(ErrCodeAuth, "tag verification failed"))
}

func schemaError(msg string) error {
	return fmt.Errorf("%w: %w", ErrSchema, goerrors.New(ErrCodeSchema, msg))
}

func parameterError(msg string) error {
	return fmt.Errorf("%w: %w", ErrParameter, goerrors.New(ErrCodeParameter, msg))
}
