package blob

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// ReadText fetches a blob as text. Names ending in .zip are unpacked and every
// file entry is rendered under a "--- File: name ---" header.
func ReadText(ctx context.Context, s Store, name string) (string, error) {
	data, err := s.Get(ctx, name)
	if err != nil {
		return "", err
	}
	if strings.HasSuffix(strings.ToLower(name), ".zip") {
		return unpackZip(name, data)
	}
	if !utf8.Valid(data) {
		return "", &Error{Kind: KindMalformed, Op: "read", Name: name, Err: errors.New("content is not UTF-8 text")}
	}
	return string(data), nil
}

func unpackZip(name string, data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", &Error{Kind: KindMalformed, Op: "read", Name: name, Err: fmt.Errorf("not a valid zip file: %w", err)}
	}

	var parts []string
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || strings.HasSuffix(f.Name, "/") {
			continue
		}
		text, err := readEntry(f)
		if err != nil {
			return "", &Error{Kind: KindMalformed, Op: "read", Name: name, Err: fmt.Errorf("entry %s: %w", f.Name, err)}
		}
		if !utf8.Valid(text) {
			parts = append(parts, fmt.Sprintf("--- File: %s (Skipped: Binary or non-UTF-8) ---\n", f.Name))
			continue
		}
		parts = append(parts, fmt.Sprintf("--- File: %s ---\n%s\n", f.Name, text))
	}
	if len(parts) == 0 {
		return "", &Error{Kind: KindMalformed, Op: "read", Name: name, Err: errors.New("empty zip file or no readable text files found")}
	}
	return strings.Join(parts, "\n"), nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
