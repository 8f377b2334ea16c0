package persistence

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/spacemeshos/bitpack/bitbuffer"
	"github.com/spacemeshos/bitpack/shared"
)

func TestSaveLoadStream(t *testing.T) {
	req := require.New(t)
	logger := zaptest.NewLogger(t)
	rnd := rand.New(rand.NewSource(1))

	for _, width := range []uint{1, 3, 8, 12, 16, 24, 31, 32} {
		count := 300 + rnd.Intn(100)
		buf, err := bitbuffer.Generate(width, count, func(int) (uint32, error) {
			return rnd.Uint32() & shared.Mask(width), nil
		})
		req.NoError(err)

		dir := t.TempDir()
		req.NoError(SaveStream(dir, buf, WithLogger(logger), WithMaxFileSize(32)))

		metadata, err := LoadStreamMetadata(dir)
		req.NoError(err)
		req.Equal(width, metadata.BitWidth)
		req.EqualValues(count, metadata.Count)
		req.True(metadata.Layout.NumFiles > 1, "width %d", width)

		for i := 0; i < int(metadata.Layout.NumFiles); i++ {
			info, err := os.Stat(filepath.Join(dir, ValuesFileName(i)))
			req.NoError(err)
			req.LessOrEqual(info.Size(), int64(32), "width %d file %d", width, i)
		}

		n, err := NumBytesWritten(dir, IsValuesFile)
		req.NoError(err)
		req.GreaterOrEqual(n, uint64(len(buf.Bytes())))

		loaded, err := LoadStream(dir, WithLogger(logger))
		req.NoError(err)
		req.True(loaded.Equal(buf), "width %d", width)
	}
}

func TestSaveStream_MaxFileSizeTooSmall(t *testing.T) {
	req := require.New(t)

	buf, err := bitbuffer.New(32, 20)
	req.NoError(err)

	dir := t.TempDir()
	req.Error(SaveStream(dir, buf, WithMaxFileSize(31)))
	req.NoError(SaveStream(dir, buf, WithMaxFileSize(32)))

	metadata, err := LoadStreamMetadata(dir)
	req.NoError(err)
	req.EqualValues(3, metadata.Layout.NumFiles)
}

func TestSaveStream_SingleFile(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	buf := sampleBuffer(t)
	req.NoError(SaveStream(dir, buf))

	data, err := os.ReadFile(filepath.Join(dir, ValuesFileName(0)))
	req.NoError(err)
	req.Equal(buf.Bytes(), data)

	loaded, err := LoadStream(dir)
	req.NoError(err)
	req.True(loaded.Equal(buf))
}

func TestSaveStream_ReplacesPrevious(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	big, err := bitbuffer.New(8, 100)
	req.NoError(err)
	req.NoError(SaveStream(dir, big, WithMaxFileSize(8)))

	small := sampleBuffer(t)
	req.NoError(SaveStream(dir, small))

	readers, err := GetReaders(dir, 12)
	req.NoError(err)
	req.Len(readers, 1)
	req.NoError(readers[0].Close())

	loaded, err := LoadStream(dir)
	req.NoError(err)
	req.True(loaded.Equal(small))
}

func TestSaveLoadStream_Empty(t *testing.T) {
	req := require.New(t)

	dir := t.TempDir()
	buf, err := bitbuffer.New(5, 0)
	req.NoError(err)
	req.NoError(SaveStream(dir, buf))

	loaded, err := LoadStream(dir)
	req.NoError(err)
	req.Zero(loaded.Len())
}

func TestLoadStream_Errors(t *testing.T) {
	req := require.New(t)

	_, err := LoadStream(t.TempDir())
	req.ErrorIs(err, ErrStreamMetadataFileMissing)

	// Truncated values file.
	dir := t.TempDir()
	req.NoError(SaveStream(dir, sampleBuffer(t)))
	req.NoError(os.Truncate(filepath.Join(dir, ValuesFileName(0)), 4))
	_, err = LoadStream(dir)
	req.Error(err)

	// Corrupted values file.
	dir = t.TempDir()
	req.NoError(SaveStream(dir, sampleBuffer(t)))
	req.NoError(os.WriteFile(filepath.Join(dir, ValuesFileName(0)), make([]byte, 8), shared.OwnerReadWrite))
	_, err = LoadStream(dir)
	req.ErrorIs(err, ErrChecksumMismatch)

	// Count overflowing the packed size.
	dir = t.TempDir()
	req.NoError(SaveStream(dir, sampleBuffer(t)))
	metadata, err := LoadStreamMetadata(dir)
	req.NoError(err)
	metadata.BitWidth = 32
	metadata.Count = 1 << 61
	req.NoError(SaveStreamMetadata(dir, metadata))
	_, err = LoadStream(dir)
	req.ErrorIs(err, shared.ErrOutOfRange)

	// Unknown version.
	dir = t.TempDir()
	req.NoError(SaveStream(dir, sampleBuffer(t)))
	metadata, err = LoadStreamMetadata(dir)
	req.NoError(err)
	metadata.Version = StreamVersion + 1
	req.NoError(SaveStreamMetadata(dir, metadata))
	_, err = LoadStream(dir)
	req.ErrorIs(err, ErrUnsupportedVersion)
}
