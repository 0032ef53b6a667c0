// Package loader reads source files from disk into documents.
package loader

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"

	"ragbot/internal/domain"
	"ragbot/internal/retrieval"
)

// DefaultExtensions are the file types read when none are configured.
var DefaultExtensions = []string{".txt", ".md", ".pdf"}

// LoadDir reads every file in dir (not recursive) whose extension is in exts.
// A missing directory is logged and yields no documents.
func LoadDir(dir string, exts []string) ([]domain.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Printf("[WARN] data directory %s does not exist", dir)
			return nil, nil
		}
		return nil, err
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !Supported(e.Name(), exts) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return load(paths)
}

// LoadFiles reads the given paths. Glob patterns are expanded and files with
// unsupported extensions are skipped.
func LoadFiles(patterns []string, exts []string) ([]domain.Document, error) {
	var paths []string
	for _, p := range patterns {
		matches, _ := filepath.Glob(p)
		if matches == nil {
			matches = []string{p}
		}
		for _, m := range matches {
			if Supported(m, exts) {
				paths = append(paths, m)
			}
		}
	}
	return load(paths)
}

// Supported reports whether path has one of exts (DefaultExtensions when empty).
func Supported(path string, exts []string) bool {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// LoadFile reads one file into a document whose collection is the file stem.
func LoadFile(path string) (domain.Document, error) {
	var content string
	var err error
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		content, err = readPDF(path)
	} else {
		var data []byte
		data, err = os.ReadFile(path)
		content = string(data)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	name := filepath.Base(path)
	return domain.Document{
		ID:      hashString(path),
		Path:    path,
		Content: content,
		Metadata: map[string]string{
			domain.MetaSource:     name,
			domain.MetaCollection: retrieval.CollectionName(name),
		},
	}, nil
}

func load(paths []string) ([]domain.Document, error) {
	docs := make([]domain.Document, 0, len(paths))
	for _, p := range paths {
		d, err := LoadFile(p)
		if err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, nil
}

func readPDF(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	text, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, text); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
