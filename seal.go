// seal.go: Password-based encryption entry points and format dispatch.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Format identifies a payload layout by its 4-byte magic.
type Format string

const (
	// FormatPFZ2 is the self-contained format: own PBKDF2, HMAC counter-mode
	// keystream and encrypt-then-MAC tag. It is the default.
	FormatPFZ2 Format = magicPFZ2

	// FormatPFZ1 delegates to AES-256-GCM from the standard library.
	FormatPFZ1 Format = magicPFZ1
)

const (
	magicPFZ1 = "PFZ1"
	magicPFZ2 = "PFZ2"

	// MagicSize is the length of the format tag at the start of every payload.
	MagicSize = 4
)

// Sealer encrypts and decrypts payloads with a password. The zero value is
// ready to use and writes PFZ2 with DefaultIterations from crypto/rand.
//
// A Sealer holds no state between calls; every call derives its own key from
// a fresh salt, so one Sealer may be shared by concurrent goroutines as long
// as its fields are not modified.
//
// Example:
//
//	s := &pfz.Sealer{Strict: true}
//	payload, err := s.Encrypt([]byte("hello world"), []byte("correct-horse"))
//	if err != nil {
//		log.Fatal(err)
//	}
//	plaintext, err := s.Decrypt(payload, []byte("correct-horse"))
type Sealer struct {
	// Format selects the layout written by Encrypt. Empty means FormatPFZ2.
	// Decrypt ignores it and dispatches on the payload magic.
	Format Format

	// Iterations is the PBKDF2 iteration count for PFZ2. Zero means
	// DefaultIterations. PFZ1 always uses NativeIterations and ignores it.
	Iterations int

	// Rand is the source of salt and nonce bytes. Nil means crypto/rand.Reader,
	// which never returns an error (the runtime aborts the process instead),
	// so only a caller-supplied Rand can trigger Strict or the weak fallback.
	Rand io.Reader

	// Strict makes Encrypt fail with ErrEntropy when Rand fails, instead of
	// falling back to a weak generator. It has no effect with the default Rand.
	Strict bool

	// Logger receives the warning emitted when the weak generator is used.
	// Nil means no logging.
	Logger *zerolog.Logger

	// OnWeakEntropy, if set, is called with the random source error each
	// time Encrypt falls back to the weak generator.
	OnWeakEntropy func(err error)
}

func (s *Sealer) logger() *zerolog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	nop := zerolog.Nop()
	return &nop
}

func (s *Sealer) format() (Format, error) {
	switch s.Format {
	case "", FormatPFZ2:
		return FormatPFZ2, nil
	case FormatPFZ1:
		return FormatPFZ1, nil
	default:
		return "", parameterError(fmt.Sprintf("unknown format %q", string(s.Format)))
	}
}

func (s *Sealer) iterations() (int, error) {
	switch {
	case s.Iterations == 0:
		return DefaultIterations, nil
	case s.Iterations < 0 || s.Iterations > MaxIterations:
		return 0, parameterError(fmt.Sprintf("iterations must be between 1 and %d (got %d)", MaxIterations, s.Iterations))
	default:
		return s.Iterations, nil
	}
}

// Encrypt encrypts plaintext under password and returns a self-describing
// payload in the Sealer's format.
//
// The password must not be empty (ErrParameter). Plaintext may be empty.
// A fresh salt and nonce are drawn for every call.
func (s *Sealer) Encrypt(plaintext, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, parameterError("password cannot be empty")
	}
	format, err := s.format()
	if err != nil {
		return nil, err
	}
	iterations := NativeIterations
	if format == FormatPFZ2 {
		if iterations, err = s.iterations(); err != nil {
			return nil, err
		}
	}

	salt := make([]byte, SaltSize)
	nonce := make([]byte, NonceSize)
	if err := s.fillRandom(salt, nonce); err != nil {
		return nil, err
	}

	if format == FormatPFZ1 {
		return sealPFZ1(plaintext, password, salt, nonce)
	}
	return sealPFZ2(plaintext, password, salt, nonce, iterations)
}

// Decrypt authenticates and decrypts a payload produced by Encrypt in either
// format. The format is taken from the payload magic.
//
// Errors:
//   - ErrParameter: empty password
//   - ErrFormat: unknown magic, truncated payload, invalid header fields
//   - ErrAuthentication: wrong password or modified payload
//
// No plaintext is ever returned unless the tag verifies.
func (s *Sealer) Decrypt(payload, password []byte) ([]byte, error) {
	if len(password) == 0 {
		return nil, parameterError("password cannot be empty")
	}
	format, err := DetectFormat(payload)
	if err != nil {
		return nil, err
	}
	if format == FormatPFZ1 {
		return openPFZ1(payload, password)
	}
	return openPFZ2(payload, password)
}

// DetectFormat returns the format named by the payload magic.
func DetectFormat(payload []byte) (Format, error) {
	if len(payload) < MagicSize {
		return "", formatError(fmt.Sprintf("payload too short for magic: %d bytes", len(payload)))
	}
	switch string(payload[:MagicSize]) {
	case magicPFZ2:
		return FormatPFZ2, nil
	case magicPFZ1:
		return FormatPFZ1, nil
	default:
		return "", formatError("unrecognized payload magic")
	}
}

// PayloadInfo describes the unauthenticated header of a payload.
type PayloadInfo struct {
	Format Format
	// Iterations is the PBKDF2 iteration count the payload declares.
	Iterations int
	// PlaintextSize is the length the plaintext will have once decrypted.
	PlaintextSize int
}

// Describe parses the header of a payload without a password. Nothing it
// returns is authenticated.
func Describe(payload []byte) (PayloadInfo, error) {
	format, err := DetectFormat(payload)
	if err != nil {
		return PayloadInfo{}, err
	}
	switch format {
	case FormatPFZ1:
		if len(payload) < pfz1HeaderSize+gcmTagSize {
			return PayloadInfo{}, formatError("PFZ1 payload too short")
		}
		return PayloadInfo{
			Format:        format,
			Iterations:    NativeIterations,
			PlaintextSize: len(payload) - pfz1HeaderSize - gcmTagSize,
		}, nil
	default:
		if len(payload) < pfz2HeaderSize+TagSize {
			return PayloadInfo{}, formatError("PFZ2 payload too short")
		}
		return PayloadInfo{
			Format:        format,
			Iterations:    int(binary.LittleEndian.Uint32(payload[20:24])),
			PlaintextSize: len(payload) - pfz2HeaderSize - TagSize,
		}, nil
	}
}

// Encrypt encrypts plaintext with a zero-value Sealer (PFZ2, DefaultIterations).
//
// Example:
//
//	payload, err := pfz.Encrypt([]byte("hello world"), []byte("correct-horse"))
//	// len(payload) == 36 + 11 + 32
func Encrypt(plaintext, password []byte) ([]byte, error) {
	var s Sealer
	return s.Encrypt(plaintext, password)
}

// Decrypt decrypts a PFZ1 or PFZ2 payload.
func Decrypt(payload, password []byte) ([]byte, error) {
	var s Sealer
	return s.Decrypt(payload, password)
}
