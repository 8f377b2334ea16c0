package shared

import (
	"fmt"

	"github.com/ricochet2200/go-disk-usage/du"
)

// AvailableSpace returns the number of bytes available to the user on the volume of path.
// path must exist.
func AvailableSpace(path string) uint64 {
	usage := du.NewDiskUsage(path)
	return usage.Available()
}

// ValidateSpace indicates whether the volume of dir has room for size more bytes.
func ValidateSpace(dir string, size uint64) error {
	if available := AvailableSpace(dir); available < size {
		return fmt.Errorf("not enough space in %v; required: %d, available: %d", dir, size, available)
	}
	return nil
}
