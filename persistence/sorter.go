package persistence

import (
	"os"
	"sort"
	"strconv"
	"strings"
)

type numericalSorter []os.FileInfo

// A compile time check to ensure that numericalSorter fully implements sort.Interface.
var _ sort.Interface = (*numericalSorter)(nil)

func (s numericalSorter) Len() int      { return len(s) }
func (s numericalSorter) Swap(i, j int) { s[i], s[j] = s[j], s[i] }
func (s numericalSorter) Less(i, j int) bool {
	pathA := s[i].Name()
	pathB := s[j].Name()

	// Get the integer values of each filename, placed between the delimiter and the extension.
	a, err1 := strconv.ParseInt(fileIndex(pathA), 10, 64)
	b, err2 := strconv.ParseInt(fileIndex(pathB), 10, 64)

	// If any were not numbers, sort lexicographically.
	if err1 != nil || err2 != nil {
		return pathA < pathB
	}

	return a < b
}

func fileIndex(name string) string {
	name = name[strings.Index(name, "-")+1:]
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[:i]
	}
	return name
}
