// hmac.go: HMAC-SHA256 built on the package's own SHA-256.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

const (
	innerPadByte = 0x36
	outerPadByte = 0x5c
)

// macKey holds the SHA-256 states after absorbing the inner and outer pads.
// PBKDF2 and the keystream generator evaluate thousands of MACs under one key,
// so the pads are absorbed once and each message starts from a copy.
type macKey struct {
	inner digest
	outer digest
}

func newMACKey(key []byte) macKey {
	var k [BlockSize]byte
	if len(key) > BlockSize {
		hk := Sum256(key)
		copy(k[:], hk[:])
		clear(hk[:])
	} else {
		copy(k[:], key)
	}

	var pad [BlockSize]byte
	var m macKey

	for i := range pad {
		pad[i] = k[i] ^ innerPadByte
	}
	m.inner.reset()
	m.inner.write(pad[:])

	for i := range pad {
		pad[i] = k[i] ^ outerPadByte
	}
	m.outer.reset()
	m.outer.write(pad[:])

	clear(k[:])
	clear(pad[:])
	return m
}

// sum returns the MAC of the concatenation of parts.
func (m *macKey) sum(parts ...[]byte) Digest {
	in := m.inner
	for _, p := range parts {
		in.write(p)
	}
	innerHash := in.sum()
	in.clear()

	out := m.outer
	out.write(innerHash[:])
	tag := out.sum()
	out.clear()
	clear(innerHash[:])
	return tag
}

func (m *macKey) clear() {
	m.inner.clear()
	m.outer.clear()
}

// HMACSHA256 returns the HMAC-SHA256 tag of message under key (RFC 2104).
//
// Keys longer than BlockSize are first replaced by their SHA-256 digest.
// The function is deterministic and has no error conditions.
func HMACSHA256(key, message []byte) Digest {
	m := newMACKey(key)
	defer m.clear()
	return m.sum(message)
}
