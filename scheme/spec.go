package scheme

import (
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Spec is the on-disk description of a layer scheme.
type Spec struct {
	Name             string            `yaml:"name"`
	BroadPhaseLayers []string          `yaml:"broad_phase_layers"`
	ObjectLayers     []ObjectLayerSpec `yaml:"object_layers"`
	// Collide lists unordered pairs of object layer names that collide.
	Collide [][]string `yaml:"collide"`
	// BroadPhaseCollide optionally spells out, per object layer, the buckets it
	// may touch. When empty the bucket policy is derived from Collide.
	BroadPhaseCollide map[string][]string `yaml:"broad_phase_collide"`
	// Script names a Tengo policy defining collide(a, b). It replaces Collide.
	Script string `yaml:"script"`
}

type ObjectLayerSpec struct {
	Name       string `yaml:"name"`
	BroadPhase string `yaml:"broad_phase"`
}

// LoadSpec reads and decodes the named scheme.
func LoadSpec(dir, name string) (*Spec, error) {
	data, err := Load(dir, name)
	if err != nil {
		return nil, eris.Wrapf(err, "scheme: load %s", name)
	}
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, eris.Wrapf(err, "scheme: unmarshal %s", name)
	}
	return spec, nil
}

// ParseSpec decodes a scheme document.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}
