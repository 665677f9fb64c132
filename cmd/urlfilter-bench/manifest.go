package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// manifest is the on-disk configuration of a benchmark run: which rule lists
// to load and which URL stream to match against them. It is grounded on the
// teacher's internal/cmd.configuration: a single struct, parsed once with
// gopkg.in/yaml.v2.
type manifest struct {
	// Lists is the set of rule-list files to load, each keyed by the list ID
	// used in logging and metrics labels.
	Lists map[string]string `yaml:"lists"`

	// URLsFile is the path to a newline-delimited file of "rawURL docDomain"
	// pairs to match.
	URLsFile string `yaml:"urls_file"`

	// TypeMask names the resource type to match against; see rules.ParseContentTypeName.
	TypeMask string `yaml:"type_mask"`
}

// readManifest reads and parses the manifest at path.
func readManifest(path string) (m *manifest, err error) {
	// #nosec G304 -- the path is an operator-supplied CLI flag, not
	// untrusted input.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m = &manifest{}
	err = yaml.Unmarshal(data, m)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if len(m.Lists) == 0 {
		return nil, fmt.Errorf("manifest: at least one rule list is required")
	}

	if m.URLsFile == "" {
		return nil, fmt.Errorf("manifest: urls_file is required")
	}

	return m, nil
}
