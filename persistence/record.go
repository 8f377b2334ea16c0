package persistence

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"github.com/nullstyle/go-xdr/xdr3"
	"go.uber.org/zap"

	"github.com/spacemeshos/bitpack/bitbuffer"
	"github.com/spacemeshos/bitpack/shared"
)

const RecordVersion = 1

var (
	ErrRecordNotExist     = errors.New("record doesn't exist")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
	ErrUnsupportedVersion = errors.New("unsupported version")
)

// Record is the XDR encoded on-disk form of a packed buffer.
type Record struct {
	Version  uint32
	BitWidth uint32
	Count    uint64
	Checksum uint64
	Data     []byte
}

func NewRecord(buf *bitbuffer.Buffer) *Record {
	return &Record{
		Version:  RecordVersion,
		BitWidth: uint32(buf.BitWidth()),
		Count:    uint64(buf.Len()),
		Checksum: buf.Checksum(),
		Data:     buf.Bytes(),
	}
}

// Buffer validates the record and returns the buffer it holds.
func (r *Record) Buffer() (*bitbuffer.Buffer, error) {
	if r.Version != RecordVersion {
		return nil, fmt.Errorf("%w: record version %d, expected %d", ErrUnsupportedVersion, r.Version, RecordVersion)
	}

	if err := shared.ValidateBitWidth(uint(r.BitWidth)); err != nil {
		return nil, err
	}
	if err := shared.ValidateCount(uint(r.BitWidth), r.Count); err != nil {
		return nil, err
	}

	buf, err := bitbuffer.FromBytes(r.Data, uint(r.BitWidth), int(r.Count))
	if err != nil {
		return nil, err
	}

	if checksum := buf.Checksum(); checksum != r.Checksum {
		return nil, fmt.Errorf("%w: expected %x, found %x", ErrChecksumMismatch, r.Checksum, checksum)
	}
	return buf, nil
}

// Save atomically writes buf to path as a Record.
func Save(path string, buf *bitbuffer.Buffer, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	var w bytes.Buffer
	if _, err := xdr.Marshal(&w, NewRecord(buf)); err != nil {
		return fmt.Errorf("serialization failure: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, shared.OwnerReadWriteExec); err != nil {
		return fmt.Errorf("dir creation failure: %w", err)
	}
	if o.checkSpace {
		if err := shared.ValidateSpace(dir, uint64(w.Len())); err != nil {
			return err
		}
	}

	size := w.Len()
	if err := atomic.WriteFile(path, &w); err != nil {
		return fmt.Errorf("write to disk failure: %w", err)
	}

	o.logger.Info("packed buffer saved",
		zap.String("path", path),
		zap.Uint("bitWidth", buf.BitWidth()),
		zap.Int("count", buf.Len()),
		zap.Int("size", size),
	)
	return nil
}

// Load reads the Record at path and returns the buffer it holds.
func Load(path string, opts ...Option) (*bitbuffer.Buffer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	rec, err := LoadRecord(path)
	if err != nil {
		return nil, err
	}

	buf, err := rec.Buffer()
	if err != nil {
		return nil, fmt.Errorf("invalid record %v: %w", path, err)
	}

	o.logger.Debug("packed buffer loaded",
		zap.String("path", path),
		zap.Uint("bitWidth", buf.BitWidth()),
		zap.Int("count", buf.Len()),
	)
	return buf, nil
}

// LoadRecord reads and decodes the Record at path without validating it.
func LoadRecord(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrRecordNotExist
		}
		return nil, fmt.Errorf("read file failure: %w", err)
	}

	rec := &Record{}
	if _, err := xdr.Unmarshal(bytes.NewReader(data), rec); err != nil {
		return nil, fmt.Errorf("deserialization failure: %w", err)
	}
	return rec, nil
}
