// Package ruleset loads pattern sets from YAML files into expressions ready
// for compilation.
package ruleset

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/runescan/runescan/pkg/types"
)

// Loader parses YAML pattern files.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses a patterns file from YAML bytes. Entries keep their file
// order, which becomes the compile order of the resulting database.
func (l *Loader) Load(data []byte) ([]*types.Expression, error) {
	var file yamlPatternsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing patterns file: %w", err)
	}
	if len(file.Patterns) == 0 {
		return nil, fmt.Errorf("no patterns found")
	}

	exprs := make([]*types.Expression, 0, len(file.Patterns))
	for i, p := range file.Patterns {
		var flags types.Flag
		for _, name := range p.Flags {
			f, err := types.ParseFlag(name)
			if err != nil {
				return nil, fmt.Errorf("pattern %d: %w", i, err)
			}
			flags |= f
		}
		expr, err := types.NewExpressionWithID(p.Pattern, p.ID, flags)
		if err != nil {
			return nil, fmt.Errorf("pattern %d: %w", i, err)
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// LoadFile parses a patterns file from disk.
func (l *Loader) LoadFile(path string) ([]*types.Expression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading patterns file %s: %w", path, err)
	}
	return l.Load(data)
}
