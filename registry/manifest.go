package registry

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/scribeware/wasmload/errors"
)

// Manifest is the on-disk YAML form of a module catalog.
//
//	modules:
//	  - id: core
//	    name: Document Core
//	    binary_url: https://cdn.example.com/core.wasm
//	    bindings_url: core
//	    priority: high
//	    required: true
//	    features: [doc]
//	    estimated_size_bytes: 524288
type Manifest struct {
	Modules []Descriptor `yaml:"modules"`
}

// Parse builds a registry from manifest bytes.
func Parse(data []byte) (*Registry, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, &errors.Error{
			Phase:  errors.PhaseRegistry,
			Kind:   errors.KindInvalidInput,
			Detail: "parse manifest",
			Cause:  err,
		}
	}
	if len(m.Modules) == 0 {
		return nil, errors.InvalidInput(errors.PhaseRegistry, "manifest lists no modules")
	}

	r := New()
	for _, d := range m.Modules {
		if err := r.Add(d); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Load reads and parses a manifest file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.Error{
			Phase:  errors.PhaseRegistry,
			Kind:   errors.KindNotFound,
			Detail: "read manifest " + path,
			Cause:  err,
		}
	}
	return Parse(data)
}
