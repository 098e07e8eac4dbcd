package registry

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noveng05/splits/types"
)

// splitsDocument is the on-disk YAML shape for a split registry.
//
// Example document:
//
//	splits:
//	  blue_button:
//	    "false": 50
//	    "true": 50
//	  checkout_flow:
//	    classic: 75
//	    one_page: 25
type splitsDocument struct {
	Splits map[string]map[string]uint64 `yaml:"splits"`
}

// LoadFile reads a YAML split registry document and returns a static client
// serving it.
//
// Weight tables are validated on load; an unusable table is a configuration
// error surfaced immediately rather than at first assignment.
//
// Parameters:
//   - path: Path to the YAML weights document
//
// Returns:
//   - *Static: Static client serving the file's splits
//   - error: Read, parse, or weight validation error
//
// Example:
//
//	client, err := registry.LoadFile("config/splits.yaml")
//	if err != nil { /* handle */ }
//	v, err := splits.NewVisitor(client)
func LoadFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read split registry file: %w", err)
	}

	return Parse(data)
}

// Parse decodes a YAML split registry document.
//
// Parameters:
//   - data: YAML document bytes
//
// Returns:
//   - *Static: Static client serving the document's splits
//   - error: Parse or weight validation error
func Parse(data []byte) (*Static, error) {
	var doc splitsDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse split registry document: %w", err)
	}

	registry := make(types.SplitRegistry, len(doc.Splits))
	for name, weights := range doc.Splits {
		table := types.Weights(weights)
		if err := table.Validate(); err != nil {
			return nil, fmt.Errorf("split %s: %w", name, err)
		}
		registry[name] = table
	}

	return NewStatic(registry), nil
}
