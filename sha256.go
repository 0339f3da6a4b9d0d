// sha256.go: Self-contained SHA-256 used by the PFZ2 format.
//
// The PFZ2 format has to be producible and verifiable in environments where
// no platform hash is available, so the primitive is carried here instead of
// being delegated to crypto/sha256. The standard library implementation is
// only used in tests, as a cross-check.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"encoding/binary"
	"encoding/hex"
	"math/bits"
)

const (
	// Size is the size of a SHA-256 digest in bytes.
	Size = 32

	// BlockSize is the SHA-256 block size in bytes. It is also the HMAC pad size.
	BlockSize = 64
)

// Digest is a SHA-256 digest or an HMAC-SHA256 tag.
type Digest [Size]byte

// String returns the lowercase hexadecimal form of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

var initState = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

var roundConstants = [64]uint32{
	0x428a2f98, 0x71374491, 0xb5c0fbcf, 0xe9b5dba5, 0x3956c25b, 0x59f111f1, 0x923f82a4, 0xab1c5ed5,
	0xd807aa98, 0x12835b01, 0x243185be, 0x550c7dc3, 0x72be5d74, 0x80deb1fe, 0x9bdc06a7, 0xc19bf174,
	0xe49b69c1, 0xefbe4786, 0x0fc19dc6, 0x240ca1cc, 0x2de92c6f, 0x4a7484aa, 0x5cb0a9dc, 0x76f988da,
	0x983e5152, 0xa831c66d, 0xb00327c8, 0xbf597fc7, 0xc6e00bf3, 0xd5a79147, 0x06ca6351, 0x14292967,
	0x27b70a85, 0x2e1b2138, 0x4d2c6dfc, 0x53380d13, 0x650a7354, 0x766a0abb, 0x81c2c92e, 0x92722c85,
	0xa2bfe8a1, 0xa81a664b, 0xc24b8b70, 0xc76c51a3, 0xd192e819, 0xd6990624, 0xf40e3585, 0x106aa070,
	0x19a4c116, 0x1e376c08, 0x2748774c, 0x34b0bcb5, 0x391c0cb3, 0x4ed8aa4a, 0x5b9cca4f, 0x682e6ff3,
	0x748f82ee, 0x78a5636f, 0x84c87814, 0x8cc70208, 0x90befffa, 0xa4506ceb, 0xbef9a3f7, 0xc67178f2,
}

// digest is the running state of a SHA-256 computation. It is a plain value:
// copying it clones a partially absorbed prefix, which is how the HMAC layer
// reuses its keyed pads.
type digest struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

func (d *digest) reset() {
	d.h = initState
	d.nx = 0
	d.len = 0
}

// clear wipes the state, including any buffered message bytes.
func (d *digest) clear() {
	d.h = [8]uint32{}
	clear(d.x[:])
	d.nx = 0
	d.len = 0
}

func (d *digest) write(p []byte) {
	d.len += uint64(len(p))
	if d.nx > 0 {
		n := copy(d.x[d.nx:], p)
		d.nx += n
		if d.nx == BlockSize {
			compress(&d.h, d.x[:])
			d.nx = 0
		}
		p = p[n:]
	}
	if len(p) >= BlockSize {
		n := len(p) &^ (BlockSize - 1)
		compress(&d.h, p[:n])
		p = p[n:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
}

// sum finalizes a copy of the state, so d itself can keep absorbing data.
func (d *digest) sum() Digest {
	c := *d
	defer c.clear()

	// 0x80, then zeros until the length is 56 mod 64, then the bit length
	// as a big-endian 64-bit integer (high word first).
	var tail [BlockSize + 8]byte
	tail[0] = 0x80
	padLen := (55-int(c.len%BlockSize)+BlockSize)%BlockSize + 1
	bitLen := c.len << 3
	binary.BigEndian.PutUint32(tail[padLen:], uint32(bitLen>>32))
	binary.BigEndian.PutUint32(tail[padLen+4:], uint32(bitLen))
	c.write(tail[:padLen+8])

	var out Digest
	for i, v := range c.h {
		binary.BigEndian.PutUint32(out[i*4:], v)
	}
	return out
}

// compress runs the SHA-256 compression function over every full block of p.
func compress(state *[8]uint32, p []byte) {
	var w [64]uint32
	defer clear(w[:])

	for len(p) >= BlockSize {
		for i := 0; i < 16; i++ {
			w[i] = binary.BigEndian.Uint32(p[i*4:])
		}
		for i := 16; i < 64; i++ {
			v1 := w[i-2]
			s1 := bits.RotateLeft32(v1, -17) ^ bits.RotateLeft32(v1, -19) ^ (v1 >> 10)
			v2 := w[i-15]
			s0 := bits.RotateLeft32(v2, -7) ^ bits.RotateLeft32(v2, -18) ^ (v2 >> 3)
			w[i] = w[i-16] + s0 + w[i-7] + s1
		}

		a, b, c, d := state[0], state[1], state[2], state[3]
		e, f, g, h := state[4], state[5], state[6], state[7]

		for i := 0; i < 64; i++ {
			bigS1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
			ch := (e & f) ^ (^e & g)
			t1 := h + bigS1 + ch + roundConstants[i] + w[i]
			bigS0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
			maj := (a & b) ^ (a & c) ^ (b & c)
			t2 := bigS0 + maj

			h = g
			g = f
			f = e
			e = d + t1
			d = c
			c = b
			b = a
			a = t1 + t2
		}

		state[0] += a
		state[1] += b
		state[2] += c
		state[3] += d
		state[4] += e
		state[5] += f
		state[6] += g
		state[7] += h

		p = p[BlockSize:]
	}
}

// Sum256 returns the SHA-256 digest of message. It accepts any length,
// including zero, and never fails.
//
// Example:
//
//	d := pfz.Sum256([]byte("abc"))
//	fmt.Println(d) // ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad
func Sum256(message []byte) Digest {
	var d digest
	d.reset()
	d.write(message)
	out := d.sum()
	d.clear()
	return out
}
