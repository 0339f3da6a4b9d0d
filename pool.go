// pool.go: Pooled scratch buffers for decrypted plaintext.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"sync"
)

const (
	smallBufferSize = 4 * 1024
	largeBufferSize = 64 * 1024
)

var (
	// A profile export is typically a few hundred bytes to a few KB of JSON.
	smallBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 0, smallBufferSize)
			return &buf
		},
	}

	largeBufferPool = sync.Pool{
		New: func() interface{} {
			buf := make([]byte, 0, largeBufferSize)
			return &buf
		},
	}
)

// getBuffer returns an empty buffer with capacity for at least size bytes.
// Sizes above largeBufferSize are allocated directly and never pooled.
func getBuffer(size int) *[]byte {
	switch {
	case size <= smallBufferSize:
		buf := smallBufferPool.Get().(*[]byte)
		*buf = (*buf)[:0]
		return buf
	case size <= largeBufferSize:
		buf := largeBufferPool.Get().(*[]byte)
		*buf = (*buf)[:0]
		return buf
	default:
		buf := make([]byte, 0, size)
		return &buf
	}
}

// putBuffer wipes the whole capacity of buf and returns it to its pool.
// Everything that passes through these buffers is plaintext, so the wipe is
// unconditional.
func putBuffer(buf *[]byte) {
	if buf == nil {
		return
	}
	full := (*buf)[:cap(*buf)]
	Zeroize(full)
	*buf = full[:0]

	switch cap(full) {
	case smallBufferSize:
		smallBufferPool.Put(buf)
	case largeBufferSize:
		largeBufferPool.Put(buf)
	}
}
