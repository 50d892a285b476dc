package loanbook

import (
	"fmt"
	"os"
	"path/filepath"
)

// DefaultBookFile is the book file used when none is specified.
const DefaultBookFile = "loanbook.jsonl"

// BookEnv is the environment variable overriding the default book file.
const BookEnv = "LOANBOOK"

// ResolveBookPath returns the book file to use: the explicit path when
// set, else the BookEnv variable, else DefaultBookFile in the working
// directory.
func ResolveBookPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(BookEnv); env != "" {
		return env
	}
	return DefaultBookFile
}

// LoadBook opens and decodes the book file. A missing file is not an
// error: it yields an empty book, so a book can be built up before its
// file exists.
func LoadBook(path string) (*Book, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return NewBook(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not open book file %q: %w", path, err)
	}
	defer f.Close()

	book, err := DecodeBook(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode book file %q: %w", path, err)
	}
	return book, nil
}

// SaveBook writes the book to its file in canonical JSONL form,
// creating parent directories as needed.
func SaveBook(path string, book *Book) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create directory for book %q: %w", path, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error opening book file %q for writing: %w", path, err)
	}
	defer file.Close()

	return EncodeBook(file, book)
}
