package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/intelligrit/room-index/internal/model"
)

// WriteIndexFile stores idx as JSON at path. The file is written to a
// temporary file next to path and renamed into place, so path either keeps
// its previous content or holds the complete new index.
func WriteIndexFile(path string, idx *model.Index) error {
	data, err := json.Marshal(idx)
	if err != nil {
		return fmt.Errorf("encoding index: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".index-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing index: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing index: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

// ReadIndexFile loads an index written by WriteIndexFile.
func ReadIndexFile(path string) (*model.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var idx model.Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &idx, nil
}
