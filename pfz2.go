// pfz2.go: PFZ2 format, HMAC-SHA256 counter-mode keystream with encrypt-then-MAC.
//
// Layout (total 36 + len(plaintext) + 32 bytes):
//
//	[4: "PFZ2"] [16: salt] [4: iterations, little endian] [12: nonce]
//	[n: ciphertext] [32: tag]
//
// key       = PBKDF2-HMAC-SHA256(password, salt, iterations, 32)
// block c   = HMAC(key, nonce || be32(c)), c = 0, 1, 2, ...
// ciphertext = plaintext XOR keystream
// tag       = HMAC(key, header || ciphertext)
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"encoding/binary"
	"fmt"
)

const (
	// SaltSize is the size of the random salt stored in both formats.
	SaltSize = 16

	// NonceSize is the size of the random nonce (PFZ2) or IV (PFZ1).
	NonceSize = 12

	// TagSize is the size of the PFZ2 authentication tag.
	TagSize = Size

	// DefaultIterations is the PBKDF2 iteration count written by PFZ2 encryptions.
	DefaultIterations = 50000

	// MaxIterations bounds the iteration count a PFZ2 payload may declare,
	// since the count is read from untrusted input before authentication.
	MaxIterations = 10_000_000

	pfz2HeaderSize = len(magicPFZ2) + SaltSize + 4 + NonceSize

	// The keystream counter is 32 bits wide.
	maxPFZ2Plaintext = uint64(1<<32) * Size
)

func sealPFZ2(plaintext, password, salt, nonce []byte, iterations int) ([]byte, error) {
	if uint64(len(plaintext)) > maxPFZ2Plaintext {
		return nil, parameterError("plaintext too large for PFZ2 keystream")
	}

	key := deriveKey(password, salt, iterations, KeySize)
	defer Zeroize(key)
	mk := newMACKey(key)
	defer mk.clear()

	out := make([]byte, pfz2HeaderSize+len(plaintext)+TagSize)
	copy(out[0:4], magicPFZ2)
	copy(out[4:20], salt)
	binary.LittleEndian.PutUint32(out[20:24], uint32(iterations)) // #nosec G115 -- bounded by MaxIterations
	copy(out[24:pfz2HeaderSize], nonce)

	header := out[:pfz2HeaderSize]
	body := out[pfz2HeaderSize : pfz2HeaderSize+len(plaintext)]
	xorKeyStream(&mk, nonce, body, plaintext)

	tag := mk.sum(header, body)
	copy(out[pfz2HeaderSize+len(plaintext):], tag[:])
	return out, nil
}

func openPFZ2(payload, password []byte) ([]byte, error) {
	if len(payload) < pfz2HeaderSize+TagSize {
		return nil, formatError(fmt.Sprintf("PFZ2 payload too short: %d bytes", len(payload)))
	}

	header := payload[:pfz2HeaderSize]
	salt := header[4:20]
	iterations := binary.LittleEndian.Uint32(header[20:24])
	nonce := header[24:pfz2HeaderSize]
	if iterations == 0 || iterations > MaxIterations {
		return nil, formatError(fmt.Sprintf("PFZ2 iteration count out of range: %d", iterations))
	}
	body := payload[pfz2HeaderSize : len(payload)-TagSize]
	tag := payload[len(payload)-TagSize:]

	key := deriveKey(password, salt, int(iterations), KeySize)
	defer Zeroize(key)
	mk := newMACKey(key)
	defer mk.clear()

	expected := mk.sum(header, body)
	defer clear(expected[:])
	if !ConstantTimeEqual(expected[:], tag) {
		return nil, authError()
	}

	plaintext := make([]byte, len(body))
	xorKeyStream(&mk, nonce, plaintext, body)
	return plaintext, nil
}

// xorKeyStream XORs src with the keystream for nonce into dst. The block
// counter is local to the call and starts at zero.
func xorKeyStream(mk *macKey, nonce, dst, src []byte) {
	var counter [4]byte
	for c := uint32(0); len(src) > 0; c++ {
		binary.BigEndian.PutUint32(counter[:], c)
		block := mk.sum(nonce, counter[:])

		n := min(len(src), Size)
		for i := 0; i < n; i++ {
			dst[i] = src[i] ^ block[i]
		}
		clear(block[:])

		dst = dst[n:]
		src = src[n:]
	}
}
