// Package codec encodes record batches for bulk transfer: a fixed header
// followed by a msgpack array of records, lz4 block compressed when that helps.
package codec

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-filter/pkg/domain"
)

const (
	// Magic bytes to identify our format
	MagicBytes = "GOXF"
	// Current version
	FormatVersion = 1
	// File extension for seed files in this format
	FileExtension = ".goxf"
	// ContentType for HTTP bodies in this format
	ContentType = "application/x-goxf"

	// MaxPayload bounds the decoded payload size.
	MaxPayload = 1 << 30
)

const flagLZ4 uint8 = 1

// Header is the fixed-size prefix of an encoded batch
type Header struct {
	Magic    [4]byte // "GOXF"
	Version  uint8   // Format version
	Flags    uint8   // flagLZ4 when the payload is compressed
	Reserved [2]byte // Reserved for future use
	Length   uint32  // Uncompressed payload length
}

// WriteHeader writes the header to the given writer
func WriteHeader(w io.Writer, flags uint8, length int) error {
	header := Header{
		Magic:   [4]byte{'G', 'O', 'X', 'F'},
		Version: FormatVersion,
		Flags:   flags,
		Length:  uint32(length),
	}
	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the header
func ReadHeader(r io.Reader) (*Header, error) {
	var header Header
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid format: expected %s, got %q", MagicBytes, string(header.Magic[:]))
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported format version: %d", header.Version)
	}
	if header.Length > MaxPayload {
		return nil, fmt.Errorf("payload of %d bytes exceeds limit of %d", header.Length, MaxPayload)
	}
	return &header, nil
}

// maxLZ4Ratio bounds how far one compressed byte can expand in an lz4 block
const maxLZ4Ratio = 255

// Encode writes records to w.
func Encode(w io.Writer, records []domain.Record) error {
	plain := make([]map[string]interface{}, len(records))
	for i, r := range records {
		plain[i] = r
	}

	payload, err := msgpack.Marshal(plain)
	if err != nil {
		return fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	if len(payload) > MaxPayload {
		return fmt.Errorf("payload of %d bytes exceeds limit of %d", len(payload), MaxPayload)
	}

	flags := uint8(0)
	body := payload
	compressed := make([]byte, lz4.CompressBlockBound(len(payload)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(payload, compressed, hashTable[:])
	if err != nil {
		return fmt.Errorf("failed to compress data: %w", err)
	}
	// n is 0 when the payload is incompressible
	if n > 0 && n < len(payload) {
		flags |= flagLZ4
		body = compressed[:n]
	}

	if err := WriteHeader(w, flags, len(payload)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("failed to write payload: %w", err)
	}
	return nil
}

// Decode reads records written by Encode.
func Decode(r io.Reader) ([]domain.Record, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(r, MaxPayload+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}

	payload := body
	if header.Flags&flagLZ4 != 0 {
		if uint64(header.Length) > uint64(len(body))*maxLZ4Ratio {
			return nil, fmt.Errorf("payload length mismatch: header says %d, %d compressed bytes cannot expand that far", header.Length, len(body))
		}
		payload = make([]byte, header.Length)
		n, err := lz4.UncompressBlock(body, payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress data: %w", err)
		}
		payload = payload[:n]
	}
	if len(payload) != int(header.Length) {
		return nil, fmt.Errorf("payload length mismatch: header says %d, got %d", header.Length, len(payload))
	}

	var plain []map[string]interface{}
	if err := msgpack.Unmarshal(payload, &plain); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	records := make([]domain.Record, len(plain))
	for i, m := range plain {
		records[i] = m
	}
	return records, nil
}
