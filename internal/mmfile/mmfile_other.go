//go:build !(linux || darwin || freebsd)

// Package mmfile maps input files read-only so large allocation traces can
// be parsed without copying them onto the Go heap.
package mmfile

import "os"

// Map reads the whole file where mmap is unavailable.
func Map(path string) ([]byte, func() error, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return nil }, nil
}
