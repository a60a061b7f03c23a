package classifier

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadPatternFile reads a YAML pattern table from disk. This is the intended
// extension point for deploying language- or domain-specific phrase lists
// without a rebuild; tiers missing from the file keep the built-in patterns.
func LoadPatternFile(path string) (*PatternTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", err)
	}

	var spec PatternSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse pattern file %s: %w", path, err)
	}

	table, err := CompileTable(spec)
	if err != nil {
		return nil, fmt.Errorf("pattern file %s: %w", path, err)
	}
	return table, nil
}
