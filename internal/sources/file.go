package sources

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrEmptyTable is returned when a sources file contains no rows.
var ErrEmptyTable = errors.New("sources: no entries")

// fileFormat is the on-disk layout:
//
//	sources:
//	  - repo: emberjs/ember.js
//	    label: Help Wanted
//	    category: core
type fileFormat struct {
	Sources []Source `yaml:"sources"`
}

// Parse decodes a YAML sources document and builds a Table from it.
// Every row must name a repo in "owner/name" form, a label and a category.
func Parse(data []byte) (*Table, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse sources: %w", err)
	}
	if len(f.Sources) == 0 {
		return nil, ErrEmptyTable
	}
	for i, s := range f.Sources {
		if err := validate(s); err != nil {
			return nil, fmt.Errorf("sources[%d]: %w", i, err)
		}
	}
	return New(f.Sources), nil
}

// LoadFile reads and parses the sources file at path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}
	return Parse(data)
}

// Load returns the table from path, or the built-in table when path is empty.
func Load(path string) (*Table, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadFile(path)
}

func validate(s Source) error {
	switch {
	case s.Repo == "":
		return errors.New("repo is required")
	case s.Org() == s.Repo:
		return fmt.Errorf("repo %q must be owner/name", s.Repo)
	case s.Label == "":
		return errors.New("label is required")
	case s.Category == "":
		return errors.New("category is required")
	}
	return nil
}
