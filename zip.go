// zip.go: Single-entry, store-only ZIP container.
//
// Writer output is a standard local file header + data + central directory +
// end of central directory record, readable by any ZIP tool. The reader is
// tolerant: it scans for the first local file header instead of
// requiring it at offset 0, so bytes prepended by transport or storage layers
// do not break imports.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/agilira/go-timecache"
)

const (
	localHeaderSignature   = 0x04034b50
	centralHeaderSignature = 0x02014b50
	endOfCentralSignature  = 0x06054b50

	zipVersion  = 20
	methodStore = 0

	flagDataDescriptor = 0x0008
	flagUTF8           = 0x0800

	localHeaderLen   = 30
	centralHeaderLen = 46
	endOfCentralLen  = 22

	crcPolynomial = 0xedb88320
)

var localHeaderMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// Entry is the single file carried by a container.
type Entry struct {
	Name    string
	Content []byte

	// Modified is stored as an MS-DOS timestamp (two second resolution)
	// holding UTC wall-clock fields, and is read back in UTC. The zero time
	// is written as all-zero date and time fields.
	Modified time.Time

	// CRC32 is the checksum recorded in the local header. It is set by
	// ReadSingle and ignored by WriteEntry, which always computes it.
	CRC32 uint32
}

// CRC32 returns the IEEE CRC-32 of data (reflected polynomial 0xEDB88320,
// initial value and final XOR 0xFFFFFFFF), computed one bit at a time.
func CRC32(data []byte) uint32 {
	crc := ^uint32(0)
	for _, b := range data {
		crc ^= uint32(b)
		for range 8 {
			mask := -(crc & 1)
			crc = (crc >> 1) ^ (crcPolynomial & mask)
		}
	}
	return ^crc
}

// WriteSingle wraps content in a container holding one entry called name,
// stamped with the current time.
//
// Example:
//
//	archive, err := pfz.WriteSingle("providers.pfz", payload)
func WriteSingle(name string, content []byte) ([]byte, error) {
	return WriteEntry(Entry{Name: name, Content: content, Modified: timecache.CachedTime()})
}

// WriteEntry serializes e as a single-entry ZIP archive using the store method.
// All multi-byte fields are little endian.
func WriteEntry(e Entry) ([]byte, error) {
	if len(e.Name) > math.MaxUint16 {
		return nil, parameterError(fmt.Sprintf("entry name too long: %d bytes", len(e.Name)))
	}
	total := uint64(localHeaderLen+centralHeaderLen+endOfCentralLen) + 2*uint64(len(e.Name)) + uint64(len(e.Content))
	if total > math.MaxUint32 {
		return nil, parameterError(fmt.Sprintf("content too large for ZIP32 container: %d bytes", len(e.Content)))
	}

	var flags uint16
	if !isASCII(e.Name) {
		flags |= flagUTF8
	}
	modTime, modDate := dosDateTime(e.Modified)
	crc := CRC32(e.Content)
	size := uint32(len(e.Content)) // #nosec G115 -- checked against MaxUint32 above
	nameLen := uint16(len(e.Name)) // #nosec G115 -- checked against MaxUint16 above

	le := binary.LittleEndian
	buf := make([]byte, 0, int(total))

	buf = le.AppendUint32(buf, localHeaderSignature)
	buf = le.AppendUint16(buf, zipVersion) // version needed
	buf = le.AppendUint16(buf, flags)
	buf = le.AppendUint16(buf, methodStore)
	buf = le.AppendUint16(buf, modTime)
	buf = le.AppendUint16(buf, modDate)
	buf = le.AppendUint32(buf, crc)
	buf = le.AppendUint32(buf, size) // compressed
	buf = le.AppendUint32(buf, size) // uncompressed
	buf = le.AppendUint16(buf, nameLen)
	buf = le.AppendUint16(buf, 0) // extra length
	buf = append(buf, e.Name...)
	buf = append(buf, e.Content...)

	centralOffset := uint32(len(buf)) // #nosec G115 -- bounded by total
	buf = le.AppendUint32(buf, centralHeaderSignature)
	buf = le.AppendUint16(buf, zipVersion) // version made by
	buf = le.AppendUint16(buf, zipVersion) // version needed
	buf = le.AppendUint16(buf, flags)
	buf = le.AppendUint16(buf, methodStore)
	buf = le.AppendUint16(buf, modTime)
	buf = le.AppendUint16(buf, modDate)
	buf = le.AppendUint32(buf, crc)
	buf = le.AppendUint32(buf, size)
	buf = le.AppendUint32(buf, size)
	buf = le.AppendUint16(buf, nameLen)
	buf = le.AppendUint16(buf, 0) // extra length
	buf = le.AppendUint16(buf, 0) // comment length
	buf = le.AppendUint16(buf, 0) // disk number start
	buf = le.AppendUint16(buf, 0) // internal attributes
	buf = le.AppendUint32(buf, 0) // external attributes
	buf = le.AppendUint32(buf, 0) // local header offset
	buf = append(buf, e.Name...)
	centralSize := uint32(len(buf)) - centralOffset // #nosec G115 -- bounded by total

	buf = le.AppendUint32(buf, endOfCentralSignature)
	buf = le.AppendUint16(buf, 0) // this disk
	buf = le.AppendUint16(buf, 0) // central directory disk
	buf = le.AppendUint16(buf, 1) // entries on this disk
	buf = le.AppendUint16(buf, 1) // entries total
	buf = le.AppendUint32(buf, centralSize)
	buf = le.AppendUint32(buf, centralOffset)
	buf = le.AppendUint16(buf, 0) // comment length

	return buf, nil
}

// ReadSingle returns the first entry of a store-only ZIP archive.
//
// The first local file header signature found anywhere in archive is used,
// so leading junk is skipped. The recorded CRC-32 is returned in Entry.CRC32
// but not verified; integrity of PFZ payloads comes from their own tag. Use
// Entry.VerifyCRC for a container-level check.
//
// Errors wrap ErrFormat.
func ReadSingle(archive []byte) (Entry, error) {
	start := bytes.Index(archive, localHeaderMagic)
	if start < 0 {
		return Entry{}, formatError("local file header not found")
	}
	if len(archive)-start < localHeaderLen {
		return Entry{}, formatError("local file header truncated")
	}

	le := binary.LittleEndian
	hdr := archive[start : start+localHeaderLen]
	flags := le.Uint16(hdr[6:8])
	method := le.Uint16(hdr[8:10])
	modTime := le.Uint16(hdr[10:12])
	modDate := le.Uint16(hdr[12:14])
	crc := le.Uint32(hdr[14:18])
	compressedSize := le.Uint32(hdr[18:22])
	uncompressedSize := le.Uint32(hdr[22:26])
	nameLen := le.Uint16(hdr[26:28])
	extraLen := le.Uint16(hdr[28:30])

	if method != methodStore {
		return Entry{}, formatError(fmt.Sprintf("unsupported compression method %d (only store is supported)", method))
	}
	if flags&flagDataDescriptor != 0 {
		return Entry{}, formatError("entries with a trailing data descriptor are not supported")
	}
	if compressedSize != uncompressedSize {
		return Entry{}, formatError("stored entry sizes disagree")
	}

	nameStart := uint64(start) + localHeaderLen
	dataStart := nameStart + uint64(nameLen) + uint64(extraLen)
	dataEnd := dataStart + uint64(compressedSize)
	if dataEnd > uint64(len(archive)) {
		return Entry{}, formatError("entry data extends past end of archive")
	}

	content := make([]byte, compressedSize)
	copy(content, archive[dataStart:dataEnd])

	return Entry{
		Name:     string(archive[nameStart : nameStart+uint64(nameLen)]),
		Content:  content,
		Modified: fromDOSDateTime(modTime, modDate),
		CRC32:    crc,
	}, nil
}

// VerifyCRC checks Content against the recorded CRC32.
func (e Entry) VerifyCRC() error {
	if got := CRC32(e.Content); got != e.CRC32 {
		return formatError(fmt.Sprintf("CRC-32 mismatch: recorded %08x, computed %08x", e.CRC32, got))
	}
	return nil
}

// dosDateTime encodes t in UTC, the zone fromDOSDateTime decodes in.
func dosDateTime(t time.Time) (uint16, uint16) {
	t = t.UTC()
	if t.IsZero() || t.Year() < 1980 || t.Year() > 2107 {
		return 0, 0
	}
	dosTime := uint16(t.Hour()<<11 | t.Minute()<<5 | t.Second()>>1)     // #nosec G115 -- fields are range bounded
	dosDate := uint16((t.Year()-1980)<<9 | int(t.Month())<<5 | t.Day()) // #nosec G115 -- year checked above
	return dosTime, dosDate
}

func fromDOSDateTime(dosTime, dosDate uint16) time.Time {
	if dosDate == 0 && dosTime == 0 {
		return time.Time{}
	}
	return time.Date(
		int(dosDate>>9)+1980,
		time.Month(dosDate>>5&0xf),
		int(dosDate&0x1f),
		int(dosTime>>11),
		int(dosTime>>5&0x3f),
		int(dosTime&0x1f)*2,
		0,
		time.UTC,
	)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
