// keyutils.go: Zeroization and constant-time comparison helpers.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

// Zeroize securely wipes a byte slice from memory.
//
// This function overwrites all bytes in the slice with zeros to prevent
// derived keys, keystream blocks and decrypted plaintext from remaining in
// memory after use.
//
// Note: This function modifies the original slice in place.
//
// Example:
//
//	key, _ := pfz.DeriveKey(password, salt, pfz.DefaultIterations, pfz.KeySize)
//	defer pfz.Zeroize(key)
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeEqual reports whether a and b hold the same bytes.
//
// Slices of different lengths are rejected immediately, which reveals only the
// length. For equal lengths every position is compared without an early exit,
// so the running time does not depend on where the first mismatch occurs.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := range a {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
