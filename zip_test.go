// zip_test.go: Container writer and tolerant reader tests.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package pfz_test

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/agilira/pfz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCRC32(t *testing.T) {
	assert.Equal(t, uint32(0xcbf43926), pfz.CRC32([]byte("123456789")))
	assert.Equal(t, uint32(0x0d4a1185), pfz.CRC32([]byte("hello world")))
	assert.Equal(t, uint32(0), pfz.CRC32(nil))

	data := make([]byte, 1000)
	for i := range data {
		data[i] = byte(i * 31)
	}
	for _, n := range []int{1, 7, 64, 513, 1000} {
		assert.Equal(t, crc32.ChecksumIEEE(data[:n]), pfz.CRC32(data[:n]), "length %d", n)
	}
}

func TestZip_RoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		entry   string
		content []byte
	}{
		{"Typical", "providers.pfz", []byte("PFZ2 payload bytes")},
		{"EmptyContent", "empty.bin", nil},
		{"EmptyName", "", []byte("nameless")},
		{"BinaryContent", "bin", []byte{0x00, 0x50, 0x4b, 0x03, 0x04, 0xff}},
		{"UnicodeName", "profils-été.pfz", []byte("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive, err := pfz.WriteSingle(tt.entry, tt.content)
			require.NoError(t, err)
			assert.Len(t, archive, 30+46+22+2*len(tt.entry)+len(tt.content))

			entry, err := pfz.ReadSingle(archive)
			require.NoError(t, err)
			assert.Equal(t, tt.entry, entry.Name)
			assert.True(t, bytes.Equal(tt.content, entry.Content))
			assert.Equal(t, pfz.CRC32(tt.content), entry.CRC32)
			assert.NoError(t, entry.VerifyCRC())
		})
	}
}

func TestZip_ReadableByStandardLibrary(t *testing.T) {
	content := []byte(strings.Repeat("encrypted payload ", 50))
	archive, err := pfz.WriteSingle("providers.pfz", content)
	require.NoError(t, err)

	r, err := zip.NewReader(bytes.NewReader(archive), int64(len(archive)))
	require.NoError(t, err)
	require.Len(t, r.File, 1)

	f := r.File[0]
	assert.Equal(t, "providers.pfz", f.Name)
	assert.Equal(t, zip.Store, f.Method)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, content, got)
}

func TestZip_HeaderLayout(t *testing.T) {
	archive, err := pfz.WriteSingle("é.pfz", []byte("abc"))
	require.NoError(t, err)

	le := binary.LittleEndian
	assert.Equal(t, uint32(0x04034b50), le.Uint32(archive[0:4]))
	assert.Equal(t, uint16(20), le.Uint16(archive[4:6]), "version needed")
	assert.NotZero(t, le.Uint16(archive[6:8])&0x0800, "UTF-8 flag")
	assert.Zero(t, le.Uint16(archive[8:10]), "method")

	eocd := archive[len(archive)-22:]
	assert.Equal(t, uint32(0x06054b50), le.Uint32(eocd[0:4]))
	assert.Equal(t, uint16(1), le.Uint16(eocd[10:12]), "total entries")

	ascii, err := pfz.WriteSingle("plain.pfz", []byte("abc"))
	require.NoError(t, err)
	assert.Zero(t, le.Uint16(ascii[6:8])&0x0800, "UTF-8 flag on ASCII name")
}

func TestZip_LeadingJunkIsSkipped(t *testing.T) {
	archive, err := pfz.WriteSingle("providers.pfz", []byte("payload"))
	require.NoError(t, err)

	prefixed := append([]byte("junk from a transport layer\r\n"), archive...)
	entry, err := pfz.ReadSingle(prefixed)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(entry.Content))
}

// Only the local header is consulted, so a missing central directory is fine.
func TestZip_CentralDirectoryNotRequired(t *testing.T) {
	archive, err := pfz.WriteSingle("a", []byte("payload"))
	require.NoError(t, err)

	entry, err := pfz.ReadSingle(archive[:30+1+7])
	require.NoError(t, err)
	assert.Equal(t, "payload", string(entry.Content))
}

func TestZip_ReadErrors(t *testing.T) {
	archive, err := pfz.WriteSingle("providers.pfz", []byte("payload bytes"))
	require.NoError(t, err)

	deflated := bytes.Clone(archive)
	binary.LittleEndian.PutUint16(deflated[8:10], 8)

	descriptor := bytes.Clone(archive)
	binary.LittleEndian.PutUint16(descriptor[6:8], 0x0008)

	mismatched := bytes.Clone(archive)
	binary.LittleEndian.PutUint32(mismatched[18:22], 3)

	oversized := bytes.Clone(archive)
	binary.LittleEndian.PutUint32(oversized[18:22], 0xffffffff)
	binary.LittleEndian.PutUint32(oversized[22:26], 0xffffffff)

	tests := []struct {
		name    string
		archive []byte
	}{
		{"Empty", nil},
		{"NoSignature", []byte("this is not a zip archive at all")},
		{"EncryptedPayloadNotZip", []byte("PFZ2" + strings.Repeat("\x00", 80))},
		{"TruncatedHeader", archive[:20]},
		{"TruncatedData", archive[:30+13+5]},
		{"DeflateMethod", deflated},
		{"DataDescriptor", descriptor},
		{"SizeMismatch", mismatched},
		{"SizeBeyondArchive", oversized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := pfz.ReadSingle(tt.archive)
			assert.ErrorIs(t, err, pfz.ErrFormat)
		})
	}
}

// Archives written by archive/zip stream their entries with a data descriptor.
func TestZip_RejectsStreamedEntries(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.CreateHeader(&zip.FileHeader{Name: "providers.pfz", Method: zip.Store})
	require.NoError(t, err)
	_, err = f.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, err = pfz.ReadSingle(buf.Bytes())
	assert.ErrorIs(t, err, pfz.ErrFormat)
}

func TestEntry_VerifyCRC(t *testing.T) {
	archive, err := pfz.WriteSingle("providers.pfz", []byte("payload bytes"))
	require.NoError(t, err)

	archive[30+len("providers.pfz")] ^= 0xff
	entry, err := pfz.ReadSingle(archive)
	require.NoError(t, err, "CRC is not checked by ReadSingle")
	assert.ErrorIs(t, entry.VerifyCRC(), pfz.ErrFormat)
}

func TestWriteEntry_ModifiedTime(t *testing.T) {
	tests := []struct {
		name     string
		modified time.Time
		want     time.Time
	}{
		{"EvenSeconds", time.Date(2024, 5, 6, 7, 8, 10, 0, time.UTC), time.Date(2024, 5, 6, 7, 8, 10, 0, time.UTC)},
		{"OddSecondsTruncated", time.Date(2031, 12, 31, 23, 59, 59, 999, time.UTC), time.Date(2031, 12, 31, 23, 59, 58, 0, time.UTC)},
		{"OtherZone", time.Date(2024, 5, 6, 10, 30, 0, 0, time.FixedZone("UTC+5", 5*3600)), time.Date(2024, 5, 6, 5, 30, 0, 0, time.UTC)},
		{"Zero", time.Time{}, time.Time{}},
		{"BeforeDOSEpoch", time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC), time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			archive, err := pfz.WriteEntry(pfz.Entry{Name: "f", Content: []byte("c"), Modified: tt.modified})
			require.NoError(t, err)
			entry, err := pfz.ReadSingle(archive)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(entry.Modified), "got %v, want %v", entry.Modified, tt.want)
		})
	}
}

func TestWriteSingle_StampsCurrentTime(t *testing.T) {
	archive, err := pfz.WriteSingle("f", []byte("c"))
	require.NoError(t, err)
	entry, err := pfz.ReadSingle(archive)
	require.NoError(t, err)
	assert.False(t, entry.Modified.IsZero())
	assert.GreaterOrEqual(t, entry.Modified.Year(), 2025)
}

func TestWriteEntry_NameTooLong(t *testing.T) {
	_, err := pfz.WriteEntry(pfz.Entry{Name: strings.Repeat("n", 1<<16), Content: []byte("c")})
	assert.ErrorIs(t, err, pfz.ErrParameter)
}
