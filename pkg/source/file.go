package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/orgchart/pkg/org"
)

// File reads a dataset from a JSON or TOML file on every fetch. The format
// is chosen by extension; anything but .toml is read as JSON.
//
// JSON:
//
//	{
//	  "billets": [{"id": "co", "role": "Commander"}, {"id": "xo", "role": "XO", "superior_id": "co"}],
//	  "elements": [{"id": "hq", "name": "Headquarters"}]
//	}
//
// TOML:
//
//	[[billets]]
//	id = "co"
//	role = "Commander"
type File struct {
	Path string
}

// NewFile returns a File source for path.
func NewFile(path string) *File { return &File{Path: path} }

// Name returns "file:<path>".
func (f *File) Name() string { return KindFile + ":" + f.Path }

// Fetch reads and decodes the file.
func (f *File) Fetch(ctx context.Context) (org.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return org.Dataset{}, err
	}
	r, err := os.Open(f.Path)
	if err != nil {
		return org.Dataset{}, fetchFailed(f.Name(), err)
	}
	defer r.Close()

	ds, err := ReadDataset(r, strings.ToLower(filepath.Ext(f.Path)) == ".toml")
	if err != nil {
		return org.Dataset{}, fetchFailed(f.Name(), err)
	}
	return ds, nil
}

// Close does nothing.
func (f *File) Close() error { return nil }

// ReadDataset decodes a dataset from r as TOML or JSON.
func ReadDataset(r io.Reader, isTOML bool) (org.Dataset, error) {
	var ds org.Dataset
	if isTOML {
		if _, err := toml.NewDecoder(r).Decode(&ds); err != nil {
			return org.Dataset{}, fmt.Errorf("decode toml: %w", err)
		}
		return ds, nil
	}
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return org.Dataset{}, fmt.Errorf("decode json: %w", err)
	}
	return ds, nil
}

// WriteFile writes ds as indented JSON to path.
func WriteFile(ds org.Dataset, path string) error {
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0644)
}
