// Package encode holds the ENCODE reference tables: data types, GEO project
// ids and assembly organisms. A Registry is built once and shared read-only.
package encode

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Placeholder marks a reference field that still needs curating.
const Placeholder = "REPLACE"

var ErrUnknownDataType = errors.New("unknown data type")

//go:embed registry.yaml
var defaultRegistryYAML []byte

// DataType describes how an assay is submitted to GEO.
type DataType struct {
	Name      string `yaml:"-" json:"name"`
	Molecule  string `yaml:"molecule" json:"molecule"`
	Strategy  string `yaml:"strategy" json:"strategy"`
	Source    string `yaml:"source" json:"source"`
	Selection string `yaml:"selection" json:"selection"`
	Type      string `yaml:"type" json:"type"` // "" means no submission type
}

// Valid is true when every field is curated and a submission type exists.
func (d DataType) Valid() bool {
	for _, v := range []string{d.Name, d.Molecule, d.Strategy, d.Source, d.Selection, d.Type} {
		if v == Placeholder {
			return false
		}
	}
	return d.Type != ""
}

func (d DataType) ShouldSubmit() bool {
	return d.Type != "NotGeo"
}

type registryFile struct {
	DataTypes map[string]DataType `yaml:"dataTypes"`
	GpIDs     map[string]string   `yaml:"gpIds"`
	Organisms map[string]string   `yaml:"organisms"`
}

// Registry is immutable after construction.
type Registry struct {
	dataTypes map[string]DataType
	gpIDs     map[string]string
	organisms map[string]string
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
	defaultErr      error
)

// DefaultRegistry returns the registry built from the embedded tables.
func DefaultRegistry() (*Registry, error) {
	defaultOnce.Do(func() {
		defaultRegistry, defaultErr = ParseRegistry(defaultRegistryYAML)
	})
	return defaultRegistry, defaultErr
}

// LoadRegistry reads a registry override file in the embedded YAML layout.
func LoadRegistry(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return ParseRegistry(data)
}

func ParseRegistry(data []byte) (*Registry, error) {
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	reg := &Registry{
		dataTypes: make(map[string]DataType, len(rf.DataTypes)),
		gpIDs:     make(map[string]string, len(rf.GpIDs)),
		organisms: make(map[string]string, len(rf.Organisms)),
	}
	for name, dt := range rf.DataTypes {
		dt.Name = name
		reg.dataTypes[name] = dt
	}
	for k, v := range rf.GpIDs {
		reg.gpIDs[k] = v
	}
	for k, v := range rf.Organisms {
		reg.organisms[k] = v
	}
	return reg, nil
}

func (r *Registry) DataType(name string) (DataType, error) {
	dt, ok := r.dataTypes[name]
	if !ok {
		return DataType{}, fmt.Errorf("%w: %s", ErrUnknownDataType, name)
	}
	return dt, nil
}

func (r *Registry) DataTypeNames() []string {
	names := make([]string, 0, len(r.dataTypes))
	for name := range r.dataTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GpID returns the GEO project id for an organism and data source.
func (r *Registry) GpID(organism, source string) (string, bool) {
	id, ok := r.gpIDs[organism+" "+source]
	return id, ok
}

// Organism maps an assembly database such as hg19 to its organism.
func (r *Registry) Organism(database string) (string, bool) {
	org, ok := r.organisms[database]
	return org, ok
}
