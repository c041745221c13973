package export

import (
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest records what a cleaning run read and wrote.
type Manifest struct {
	RunID     uuid.UUID `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`
	Inputs    Inputs    `yaml:"inputs"`
	Outputs   Result    `yaml:"outputs"`
}

// Inputs names the source files of a run.
type Inputs struct {
	RawPath      string   `yaml:"raw_path"`
	CodesPath    string   `yaml:"codes_path"`
	Departements []string `yaml:"departements,omitempty"`
}

// NewManifest creates a manifest with a fresh run id.
func NewManifest(inputs Inputs, outputs Result) *Manifest {
	return &Manifest{
		RunID:     uuid.New(),
		CreatedAt: time.Now().UTC(),
		Inputs:    inputs,
		Outputs:   outputs,
	}
}

// ManifestPath returns the manifest location for an output directory and prefix.
func ManifestPath(dir, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return filepath.Join(dir, prefix+"manifest.yaml")
}

// WriteManifest writes m as YAML to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return eris.Wrap(err, "export: marshal manifest")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return eris.Wrap(err, "export: write manifest")
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "export: read manifest")
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, eris.Wrap(err, "export: parse manifest")
	}
	return &m, nil
}
