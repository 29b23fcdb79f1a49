package store

import (
	"os"
	"path/filepath"

	"github.com/djjrip/ggloop-bots/internal/boterr"
	"github.com/goccy/go-json"
)

// WriteFile replaces the file at path with content.
// The content is written to a temporary file in the same directory and renamed, so readers never see a half-written file.
// Parent directories are created if needed.
func WriteFile(path string, content []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to create directory")
	}

	tmp, err := os.CreateTemp(dir, ".ggbot-tmp-*")
	if err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to create temporary file")
	}
	tmpName := tmp.Name()

	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(content); err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to write %s", path)
	}
	if err := tmp.Sync(); err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to write %s", path)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to write %s", path)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to replace %s", path)
	}

	return nil
}

// WriteJSON writes v as indented JSON to path atomically.
func WriteJSON(path string, v interface{}) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to encode %s", path)
	}
	return WriteFile(path, append(content, '\n'))
}

// ReadJSON reads JSON file at path into v.
// The error wraps os.ErrNotExist if the file does not exist.
func ReadJSON(path string, v interface{}) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to read %s", path)
	}
	if err := json.Unmarshal(content, v); err != nil {
		return boterr.New(boterr.ErrIO, err, "failed to parse %s", path)
	}
	return nil
}
