package persistence

import (
	"fmt"
	"os"
	"strings"
)

const (
	MetadataFileName = "bitpack_metadata.json"

	valuesFilePrefix = "values-"
	valuesFileExt    = ".bin"
)

func ValuesFileName(index int) string {
	return fmt.Sprintf("%s%d%s", valuesFilePrefix, index, valuesFileExt)
}

func IsValuesFile(info os.FileInfo) bool {
	name := info.Name()
	return !info.IsDir() && strings.HasPrefix(name, valuesFilePrefix) && strings.HasSuffix(name, valuesFileExt)
}
