// entropy.go: Salt and nonce generation with an explicit weak fallback.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	mrand "math/rand/v2"
	"os"
	"time"

	goerrors "github.com/agilira/go-errors"
)

// fillRandom fills every buffer from the Sealer's random source. The source is
// queried once per call and nothing is cached between calls.
//
// When the source fails, a strict Sealer returns ErrEntropy. Otherwise the
// buffers are filled from weakRandom, a warning is logged and OnWeakEntropy is
// invoked: the archive is still produced, with salt and nonce that an attacker
// may be able to predict. With the default crypto/rand source neither path
// is reachable: that reader never returns an error.
func (s *Sealer) fillRandom(bufs ...[]byte) error {
	src := s.Rand
	if src == nil {
		src = rand.Reader
	}

	var readErr error
	for _, b := range bufs {
		if _, err := io.ReadFull(src, b); err != nil {
			readErr = err
			break
		}
	}
	if readErr == nil {
		return nil
	}

	if s.Strict {
		richErr := goerrors.Wrap(readErr, ErrCodeEntropy, "failed to read salt and nonce")
		return fmt.Errorf("%w: %w", ErrEntropy, richErr)
	}

	logger := s.logger()
	logger.Warn().Err(readErr).Msg("secure random source unavailable, using weak generator for salt and nonce")
	if s.OnWeakEntropy != nil {
		s.OnWeakEntropy(readErr)
	}

	weak := weakRandom()
	for _, b := range bufs {
		_, _ = weak.Read(b)
	}
	return nil
}

// weakRandom returns a ChaCha8 generator seeded from the wall clock, the
// process id and the runtime-seeded math/rand state. It is not a substitute
// for crypto/rand.
func weakRandom() *mrand.ChaCha8 {
	var seed [32]byte
	binary.LittleEndian.PutUint64(seed[0:], uint64(time.Now().UnixNano())) // #nosec G115 -- seed material only
	binary.LittleEndian.PutUint64(seed[8:], uint64(os.Getpid()))           // #nosec G115 -- seed material only
	binary.LittleEndian.PutUint64(seed[16:], mrand.Uint64())
	binary.LittleEndian.PutUint64(seed[24:], mrand.Uint64())
	return mrand.NewChaCha8(seed)
}
