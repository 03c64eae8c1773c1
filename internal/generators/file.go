package generators

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/wallet-wrapped/internal/generation"
	"gopkg.in/yaml.v3"
)

// fileDefinition is one prompt-only generator in a generators file.
type fileDefinition struct {
	Kind        string   `yaml:"kind"`
	Version     int      `yaml:"version"`
	Order       int      `yaml:"order"`
	Requires    []string `yaml:"requires"`
	Tools       []string `yaml:"tools"`
	DataPrompt  string   `yaml:"dataPrompt"`
	MediaPrompt string   `yaml:"mediaPrompt"`
}

type generatorsFile struct {
	Generators []fileDefinition `yaml:"generators"`
}

// ParseFile decodes a generators file:
//
//	generators:
//	  - kind: gas-guzzler
//	    version: 1
//	    order: 30
//	    requires: [txs]
//	    dataPrompt: |
//	      How much did {{address}} spend on gas?
//	    mediaPrompt: |
//	      Draw a fuel gauge.
//
// Unknown keys are rejected.
func ParseFile(data []byte) ([]generation.Spec, error) {
	var file generatorsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: parse generators file: %v", generation.ErrInvalidSpec, err)
	}

	specs := make([]generation.Spec, 0, len(file.Generators))
	for i, def := range file.Generators {
		requires := make([]generation.Requirement, len(def.Requires))
		for j, r := range def.Requires {
			requires[j] = generation.Requirement(r)
		}
		spec, err := generation.NewSpec(generation.Definition{
			Kind:        def.Kind,
			Version:     def.Version,
			Order:       def.Order,
			Requires:    requires,
			Tools:       def.Tools,
			DataPrompt:  def.DataPrompt,
			MediaPrompt: def.MediaPrompt,
		})
		if err != nil {
			return nil, fmt.Errorf("generator %d: %w", i, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// LoadFile reads the generators file at path and registers every generator
// in it. Nothing is registered when any entry is invalid or collides.
func (r *Registry) LoadFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read generators file: %w", err)
	}
	specs, err := ParseFile(data)
	if err != nil {
		return 0, err
	}

	seen := make(map[string]bool, len(specs))
	for _, spec := range specs {
		key := CanonicalID(spec.Kind)
		if _, err := r.Get(key); err == nil || seen[key] {
			return 0, fmt.Errorf("%w: %s", ErrDuplicateKind, spec.Kind)
		}
		seen[key] = true
	}
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return 0, err
		}
	}
	return len(specs), nil
}
