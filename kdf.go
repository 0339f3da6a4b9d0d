// kdf.go: PBKDF2-HMAC-SHA256 key derivation, self-contained and native.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	pbkdf2 "golang.org/x/crypto/pbkdf2"
)

// KeySize is the size in bytes of the keys derived for both archive formats.
const KeySize = 32

func validateKDFParams(salt []byte, iterations, keyLen int) error {
	if iterations <= 0 {
		return parameterError(fmt.Sprintf("iterations must be positive (got %d)", iterations))
	}
	if keyLen <= 0 {
		return parameterError(fmt.Sprintf("key length must be positive (got %d)", keyLen))
	}
	if len(salt) == 0 {
		return parameterError("salt cannot be empty")
	}
	return nil
}

// DeriveKey derives keyLen bytes from password and salt with PBKDF2-HMAC-SHA256
// (RFC 8018), using the package's own HMAC.
//
// Parameters:
//   - password: The password (may be empty; password policy is enforced by Encrypt)
//   - salt: The salt (cannot be empty)
//   - iterations: The iteration count (must be positive)
//   - keyLen: The desired key length in bytes (must be positive)
//
// Example:
//
//	key, err := pfz.DeriveKey([]byte("password"), []byte("salt"), 4096, 32)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer pfz.Zeroize(key)
//
// Errors wrap ErrParameter.
func DeriveKey(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	if err := validateKDFParams(salt, iterations, keyLen); err != nil {
		return nil, err
	}
	return deriveKey(password, salt, iterations, keyLen), nil
}

// deriveKey assumes validated parameters.
func deriveKey(password, salt []byte, iterations, keyLen int) []byte {
	prf := newMACKey(password)
	defer prf.clear()

	blocks := (keyLen + Size - 1) / Size
	out := make([]byte, 0, blocks*Size)

	var index [4]byte
	for i := 1; i <= blocks; i++ {
		binary.BigEndian.PutUint32(index[:], uint32(i)) // #nosec G115 -- bounded by keyLen/Size

		u := prf.sum(salt, index[:])
		t := u
		for j := 2; j <= iterations; j++ {
			u = prf.sum(u[:])
			for k := range t {
				t[k] ^= u[k]
			}
		}
		out = append(out, t[:]...)

		clear(u[:])
		clear(t[:])
	}

	Zeroize(out[keyLen:])
	return out[:keyLen]
}

// DeriveKeyNative has the same contract as DeriveKey but delegates to
// golang.org/x/crypto/pbkdf2 over crypto/sha256. It backs the PFZ1 format.
func DeriveKeyNative(password, salt []byte, iterations, keyLen int) ([]byte, error) {
	if err := validateKDFParams(salt, iterations, keyLen); err != nil {
		return nil, err
	}
	return pbkdf2.Key(password, salt, iterations, keyLen, sha256.New), nil
}
