// Package snapshot caches raw product nodes on disk, one JSON file per
// status partition.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/saturnines/catalog-export/pkg/catalog"
	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/errors"
)

const indent = "    "

// Store reads and writes snapshot files under dir. File names come from
// pattern with "{status}" replaced by the partition status.
type Store struct {
	dir     string
	pattern string
}

func NewStore(dir, pattern string) *Store {
	if dir == "" {
		dir = config.DefaultOutputDir
	}
	if pattern == "" {
		pattern = config.DefaultSnapshotPattern
	}
	return &Store{dir: dir, pattern: pattern}
}

// Path returns the snapshot file path for a status.
func (s *Store) Path(status string) string {
	return filepath.Join(s.dir, strings.ReplaceAll(s.pattern, config.StatusPlaceholder, status))
}

// Save writes the products as a pretty-printed JSON array of the nodes as
// received. An empty partition is written as [].
func (s *Store) Save(status string, products []catalog.Product) (string, error) {
	path := s.Path(status)

	raws := make([]json.RawMessage, 0, len(products))
	for _, p := range products {
		raw, err := p.JSON()
		if err != nil {
			return "", errors.WrapError(err, errors.ErrSnapshot, fmt.Sprintf("encode product %s", p.ID))
		}
		raws = append(raws, raw)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(raws); err != nil {
		return "", errors.WrapError(err, errors.ErrSnapshot, fmt.Sprintf("encode %s snapshot", status))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.WrapError(err, errors.ErrSnapshot, "create snapshot dir")
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return "", errors.WrapError(err, errors.ErrSnapshot, fmt.Sprintf("write %s", tmp))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", errors.WrapError(err, errors.ErrSnapshot, fmt.Sprintf("rename %s", tmp))
	}
	return path, nil
}

// Load reads a snapshot back. Each product keeps its raw node bytes.
func (s *Store) Load(status string) ([]catalog.Product, error) {
	path := s.Path(status)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrSnapshot, fmt.Sprintf("read %s", path))
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, errors.WrapError(err, errors.ErrSnapshot, fmt.Sprintf("decode %s", path))
	}

	products, err := catalog.DecodeProducts(raws)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrSnapshot, fmt.Sprintf("decode %s", path))
	}
	return products, nil
}
