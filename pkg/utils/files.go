package utils

import (
	"fmt"
	"io"
	"os"
)

// LoadFile reads the named file whole. Static data tables (C3) and party
// section templates are small, fixed-layout blobs — no streaming needed.
func LoadFile(filename string) ([]byte, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return data, nil
}

// IsSize reports whether filename exists and is exactly size bytes long.
func IsSize(filename string, size int64) bool {
	fi, err := os.Stat(filename)
	if err != nil {
		return false
	}
	return fi.Size() == size
}
