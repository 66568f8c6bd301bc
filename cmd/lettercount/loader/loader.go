// Package loader reads input files into records.
package loader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"lettercount/mapreduce/types"
)

var (
	ErrIO      = errors.New("cannot read input")
	ErrNotText = errors.New("input is not a text file")
)

var logger = log.New(os.Stderr, "[loader] ", log.Lmicroseconds)

// sniffSize is how much of a file IsTextFile inspects.
const sniffSize = 1024

// LoadRecord reads the file at path. The record is named after the file's
// base name.
func LoadRecord(path string) (types.Record, error) {
	isText, err := IsTextFile(path)
	if err != nil {
		return types.Record{}, fmt.Errorf("%w %s: %w", ErrIO, path, err)
	}
	if !isText {
		return types.Record{}, fmt.Errorf("%w: %s", ErrNotText, path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Record{}, fmt.Errorf("%w %s: %w", ErrIO, path, err)
	}
	return types.Record{
		Name:    filepath.Base(path),
		Content: string(content),
	}, nil
}

// LoadAll loads every path. When two paths share a base name the later one
// wins. Records are returned sorted by name.
func LoadAll(paths []string) ([]types.Record, error) {
	byName := make(map[string]types.Record, len(paths))
	for _, path := range paths {
		record, err := LoadRecord(path)
		if err != nil {
			return nil, err
		}
		if prev, ok := byName[record.Name]; ok {
			logger.Printf("duplicate record name %q, replacing content of %d bytes", prev.Name, len(prev.Content))
		}
		byName[record.Name] = record
	}
	records := make([]types.Record, 0, len(byName))
	for _, record := range byName {
		records = append(records, record)
	}
	slices.SortFunc(records, func(a, b types.Record) int {
		return strings.Compare(a.Name, b.Name)
	})
	return records, nil
}

// IsTextFile checks if the beginning of the file looks like text.
// It reads up to 1024 bytes and checks for null bytes or invalid UTF-8
// sequences. An empty file is text.
func IsTextFile(filename string) (bool, error) {
	f, err := os.Open(filename)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buffer := make([]byte, sniffSize)
	n, err := io.ReadFull(f, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return false, err
	}
	buffer = buffer[:n]

	if slices.Contains(buffer, 0) {
		return false, nil
	}
	// a multi-byte rune may be cut at the end of a full buffer
	if n == sniffSize {
		for i := 0; i < utf8.UTFMax && len(buffer) > 0 && !utf8.Valid(buffer); i++ {
			buffer = buffer[:len(buffer)-1]
		}
	}
	return utf8.Valid(buffer), nil
}
