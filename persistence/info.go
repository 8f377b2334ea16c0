package persistence

import (
	"os"
)

// NumBytesWritten returns the total size of the files in dir matching predicate.
func NumBytesWritten(dir string, predicate func(os.FileInfo) bool) (uint64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}

	var numBytesWritten uint64
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			return 0, err
		}
		if predicate(info) {
			numBytesWritten += uint64(info.Size())
		}
	}

	return numBytesWritten, nil
}
