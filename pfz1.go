// pfz1.go: PFZ1 format, delegating to the platform AES-256-GCM.
//
// Layout:
//
//	[4: "PFZ1"] [16: salt] [12: iv] [n+16: AES-256-GCM ciphertext || tag]
//
// key = PBKDF2-HMAC-SHA256(password, salt, 200000, 32). The header is not
// passed to GCM as additional data, matching archives written by the
// browser implementation of the format.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	goerrors "github.com/agilira/go-errors"
)

const (
	// NativeIterations is the fixed PBKDF2 iteration count of the PFZ1 format.
	NativeIterations = 200000

	pfz1HeaderSize = len(magicPFZ1) + SaltSize + NonceSize
	gcmTagSize     = 16
)

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		richErr := goerrors.Wrap(err, ErrCodeCipherInit, "failed to create AES cipher")
		return nil, fmt.Errorf("%w: %w", ErrCipherInit, richErr)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		richErr := goerrors.Wrap(err, ErrCodeCipherInit, "failed to create GCM cipher")
		return nil, fmt.Errorf("%w: %w", ErrCipherInit, richErr)
	}
	return gcm, nil
}

func sealPFZ1(plaintext, password, salt, nonce []byte) ([]byte, error) {
	key, err := DeriveKeyNative(password, salt, NativeIterations, KeySize)
	if err != nil {
		return nil, err
	}
	defer Zeroize(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, pfz1HeaderSize, pfz1HeaderSize+len(plaintext)+gcm.Overhead())
	copy(out[0:4], magicPFZ1)
	copy(out[4:20], salt)
	copy(out[20:pfz1HeaderSize], nonce)
	return gcm.Seal(out, nonce, plaintext, nil), nil // #nosec G407 -- nonce is fresh per call
}

func openPFZ1(payload, password []byte) ([]byte, error) {
	if len(payload) < pfz1HeaderSize+gcmTagSize {
		return nil, formatError(fmt.Sprintf("PFZ1 payload too short: %d bytes", len(payload)))
	}
	salt := payload[4:20]
	nonce := payload[20:pfz1HeaderSize]
	sealed := payload[pfz1HeaderSize:]

	key, err := DeriveKeyNative(password, salt, NativeIterations, KeySize)
	if err != nil {
		return nil, err
	}
	defer Zeroize(key)

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	// Open into a pooled buffer, wiped on return, and hand the caller a copy.
	buf := getBuffer(len(sealed))
	defer putBuffer(buf)

	plaintext, err := gcm.Open((*buf)[:0], nonce, sealed, nil)
	if err != nil {
		return nil, authError()
	}

	result := make([]byte, len(plaintext))
	copy(result, plaintext)
	Zeroize(plaintext)
	return result, nil
}
