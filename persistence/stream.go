package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"

	"github.com/spacemeshos/bitpack/bitbuffer"
	"github.com/spacemeshos/bitpack/config"
	"github.com/spacemeshos/bitpack/shared"
)

const StreamVersion = 1

// ErrStreamMetadataFileMissing is returned when the metadata file is missing.
var ErrStreamMetadataFileMissing = errors.New("metadata file is missing")

// StreamMetadata is the data associated with a values stream, persisted in its directory
// next to the values files.
type StreamMetadata struct {
	Version  int
	BitWidth uint
	Count    uint64
	Layout   config.FilesLayout
	Checksum uint64
}

// SaveStream writes the values of buf to dir as a sequence of values files, split according
// to the configured max file size, followed by the stream metadata. Values files of a previous
// stream in dir are removed first.
func SaveStream(dir string, buf *bitbuffer.Buffer, opts ...Option) error {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	width := buf.BitWidth()
	if o.maxFileSize < uint64(width) {
		return fmt.Errorf("max file size %d is too small for %d-bit values; expected: >= %d", o.maxFileSize, width, width)
	}

	if err := os.MkdirAll(dir, shared.OwnerReadWriteExec); err != nil {
		return fmt.Errorf("dir creation failure: %w", err)
	}
	if err := removeStream(dir); err != nil {
		return err
	}

	layout := config.DeriveFilesLayout(width, uint64(buf.Len()), o.maxFileSize)
	if o.checkSpace {
		// Each file may add a padding byte.
		if err := shared.ValidateSpace(dir, uint64(len(buf.Bytes()))+uint64(layout.NumFiles)); err != nil {
			return err
		}
	}

	var index int
	for i := uint(0); i < layout.NumFiles; i++ {
		w, err := NewValuesWriter(dir, int(i), width)
		if err != nil {
			return err
		}

		for n := layout.NumValues(i); n > 0; n-- {
			v, err := buf.Value(index)
			if err != nil {
				_, _ = w.Close()
				return err
			}
			if err := w.WriteValue(v); err != nil {
				_, _ = w.Close()
				return fmt.Errorf("failed to write value %d: %w", index, err)
			}
			index++
		}

		info, err := w.Close()
		if err != nil {
			return err
		}
		o.logger.Debug("values file written",
			zap.String("name", (*info).Name()),
			zap.Int64("size", (*info).Size()),
			zap.Uint64("numValues", layout.NumValues(i)),
		)
	}

	metadata := StreamMetadata{
		Version:  StreamVersion,
		BitWidth: width,
		Count:    uint64(buf.Len()),
		Layout:   layout,
		Checksum: buf.Checksum(),
	}
	if err := SaveStreamMetadata(dir, &metadata); err != nil {
		return err
	}

	o.logger.Info("values stream saved",
		zap.String("dir", dir),
		zap.Uint("bitWidth", width),
		zap.Int("count", buf.Len()),
		zap.Uint("numFiles", layout.NumFiles),
	)
	return nil
}

// LoadStream reads the values stream in dir back into a buffer.
func LoadStream(dir string, opts ...Option) (*bitbuffer.Buffer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	metadata, err := LoadStreamMetadata(dir)
	if err != nil {
		return nil, err
	}
	if metadata.Version != StreamVersion {
		return nil, fmt.Errorf("%w: stream version %d, expected %d", ErrUnsupportedVersion, metadata.Version, StreamVersion)
	}

	if err := shared.ValidateBitWidth(metadata.BitWidth); err != nil {
		return nil, err
	}
	if err := shared.ValidateCount(metadata.BitWidth, metadata.Count); err != nil {
		return nil, err
	}

	reader, err := NewValuesReader(dir, metadata.BitWidth)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	available, err := reader.NumValues()
	if err != nil {
		return nil, err
	}
	if available < metadata.Count {
		return nil, fmt.Errorf("stream in %v is truncated; expected: %d values, found: %d", dir, metadata.Count, available)
	}

	buf, err := bitbuffer.Generate(metadata.BitWidth, int(metadata.Count), func(index int) (uint32, error) {
		v, err := reader.ReadValue()
		if err != nil {
			return 0, fmt.Errorf("failed to read value %d: %w", index, err)
		}
		return v, nil
	})
	if err != nil {
		return nil, err
	}

	if checksum := buf.Checksum(); checksum != metadata.Checksum {
		return nil, fmt.Errorf("%w: expected %x, found %x", ErrChecksumMismatch, metadata.Checksum, checksum)
	}

	o.logger.Debug("values stream loaded",
		zap.String("dir", dir),
		zap.Uint("bitWidth", metadata.BitWidth),
		zap.Uint64("count", metadata.Count),
	)
	return buf, nil
}

func SaveStreamMetadata(dir string, v *StreamMetadata) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("serialization failure: %w", err)
	}

	if err := atomic.WriteFile(filepath.Join(dir, MetadataFileName), bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write to disk failure: %w", err)
	}
	return nil
}

func LoadStreamMetadata(dir string) (*StreamMetadata, error) {
	filename := filepath.Join(dir, MetadataFileName)
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrStreamMetadataFileMissing
		}
		return nil, fmt.Errorf("read file failure: %w", err)
	}

	metadata := StreamMetadata{}
	if err := json.Unmarshal(data, &metadata); err != nil {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &metadata, nil
}

func removeStream(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return err
		}
		if IsValuesFile(info) || info.Name() == MetadataFileName {
			if err := os.Remove(filepath.Join(dir, info.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}
