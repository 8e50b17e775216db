package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/ChicagoDave/trailworld/pkg/preview"
	"github.com/ChicagoDave/trailworld/pkg/scene2d"
	"github.com/ChicagoDave/trailworld/pkg/spec"
	"github.com/ChicagoDave/trailworld/pkg/validation"
	"github.com/ChicagoDave/trailworld/pkg/world"
)

var errInvalid = errors.New("recipe has validation errors")

// loadAndValidate loads the recipe and runs schema validation.
func loadAndValidate(projectPath string) (*spec.Recipe, *validation.Report, error) {
	recipe, err := spec.LoadProject(projectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading recipe: %w", err)
	}
	return recipe, validation.ValidateRecipe(recipe), nil
}

// generate loads, validates and generates, printing the report on failure.
func generate(w io.Writer, projectPath string, opts world.Options) (*world.World, error) {
	recipe, report, err := loadAndValidate(projectPath)
	if err != nil {
		return nil, err
	}
	if !report.Valid {
		printValidationReport(w, report)
		return nil, errInvalid
	}
	return world.Generate(recipe, opts)
}

func runValidate(w io.Writer, projectPath string) error {
	recipe, report, err := loadAndValidate(projectPath)
	if err != nil {
		return err
	}
	if !report.Valid {
		printValidationReport(w, report)
		return errInvalid
	}

	// The world report already includes the recipe checks.
	generated, err := world.Generate(recipe, world.Options{})
	if err != nil {
		return err
	}
	printSummary(w, generated.Summary())
	fmt.Fprintln(w)
	printValidationReport(w, generated.Report)

	if !generated.Report.Valid {
		return errors.New("generated world failed validation")
	}
	return nil
}

func runGenerate(w io.Writer, projectPath string, workers int) error {
	generated, err := generate(w, projectPath, world.Options{Workers: workers})
	if err != nil {
		return err
	}
	output := map[string]any{
		"summary":  generated.Summary(),
		"overview": scene2d.Assemble2D(generated),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func runPreview(projectPath, outPath string, size int) error {
	generated, err := generate(os.Stdout, projectPath, world.Options{})
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := preview.WritePNG(&buf, scene2d.Assemble2D(generated), size); err != nil {
		return err
	}
	if err := writeFileAtomic(outPath, buf.Bytes()); err != nil {
		return err
	}
	fmt.Printf("Wrote %s (%dx%d)\n", outPath, size, size)
	return nil
}

func runSchema(w io.Writer, outPath string) error {
	data, err := json.MarshalIndent(buildSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	data = append(data, '\n')
	if outPath == "" {
		_, err := w.Write(data)
		return err
	}
	return writeFileAtomic(outPath, data)
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
	}
	schema := reflector.Reflect(new(spec.Recipe))
	schema.Title = "Trailworld recipe"
	schema.Description = "Validates " + spec.ProjectFile + " project recipes"
	return schema
}

func writeFileAtomic(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace %s: %w", outPath, err)
	}
	return nil
}
