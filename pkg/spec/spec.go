package spec

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ProjectFile is the recipe file name inside a project directory.
const ProjectFile = "world.yaml"

// Load reads a world recipe from a YAML file and fills in defaults.
func Load(path string) (*Recipe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading recipe file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML recipe and fills in defaults.
func Parse(data []byte) (*Recipe, error) {
	var r Recipe
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing recipe YAML: %w", err)
	}
	d := r.WithDefaults()
	return &d, nil
}

// LoadProject loads a recipe from a project directory.
// It looks for world.yaml in the given directory.
func LoadProject(projectDir string) (*Recipe, error) {
	return Load(filepath.Join(projectDir, ProjectFile))
}

// Marshal encodes the recipe back to YAML.
func (r *Recipe) Marshal() ([]byte, error) {
	return yaml.Marshal(r)
}
