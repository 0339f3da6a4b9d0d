// Package pfz produces and consumes password-protected, integrity-checked
// archives of API endpoint profiles.
//
// An archive is a standard single-entry ZIP file (store method, no
// compression) whose entry holds an encrypted payload. Two payload formats
// exist and are told apart by their 4-byte magic:
//   - PFZ2: self-contained SHA-256, HMAC-SHA256, PBKDF2-HMAC-SHA256 and an
//     HMAC counter-mode keystream with an encrypt-then-MAC tag. It works
//     wherever Go runs and needs no platform cryptography.
//   - PFZ1: AES-256-GCM from the standard library with a key from
//     golang.org/x/crypto/pbkdf2 (200,000 iterations).
//
// Encrypt writes PFZ2 unless a Sealer selects PFZ1. Decrypt reads both.
//
// # Quick Start
//
// Exporting and importing profiles:
//
//	profiles := []pfz.Profile{{
//		ID:       "p1",
//		Name:     "OpenAI",
//		APIKey:   "sk-...",
//		BaseURL:  "https://api.openai.com/v1",
//		PluginID: "openai",
//	}}
//
//	archive, err := pfz.ExportProfiles(profiles, []byte("correct-horse"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	restored, err := pfz.ImportProfiles(archive, []byte("correct-horse"))
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Encrypting arbitrary bytes:
//
//	payload, err := pfz.Encrypt([]byte("hello world"), []byte("correct-horse"))
//	plaintext, err := pfz.Decrypt(payload, []byte("correct-horse"))
//
// # Error Handling
//
// Every error wraps one sentinel, usable with errors.Is, and a rich error
// from github.com/agilira/go-errors carrying a stable code:
//
//	restored, err := pfz.ImportProfiles(archive, password)
//	switch {
//	case errors.Is(err, pfz.ErrAuthentication):
//		// wrong password or corrupted data
//	case errors.Is(err, pfz.ErrFormat):
//		// not a PFZ archive, truncated, or compressed entry
//	case errors.Is(err, pfz.ErrSchema):
//		// decrypted, but not a list of complete profiles
//	}
//
// Authentication failures never say whether the password or the data was at
// fault, and no plaintext is returned before the tag verifies.
//
// # Entropy
//
// Salt and nonce come from crypto/rand unless Sealer.Rand names another
// source. crypto/rand never reports an error (the runtime aborts the process
// when the system generator fails), so the paths below only run with a
// caller-supplied Rand. If that source fails, a Sealer with Strict set
// returns ErrEntropy; otherwise it falls back to a weaker generator, logs a
// warning on its zerolog logger and calls OnWeakEntropy.
//
// # Concurrency
//
// All functions are synchronous and share no mutable state. Keys, keystream
// blocks and decrypted buffers are wiped before each call returns.
//
// Copyright (c) 2025 AGILira
// Series: an AGLIra library
// SPDX-License-Identifier: MPL-2.0
package pfz
