package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/description.schema.json
var descriptionSchema []byte

const schemaURL = "description.schema.json"

// DescriptionLoader loads beamline descriptions from YAML files.
type DescriptionLoader struct {
	schema *jsonschema.Schema
}

// NewDescriptionLoader creates a loader with the embedded description schema.
func NewDescriptionLoader() (*DescriptionLoader, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource(schemaURL, bytes.NewReader(descriptionSchema)); err != nil {
		return nil, fmt.Errorf("failed to add description schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile description schema: %w", err)
	}
	return &DescriptionLoader{schema: schema}, nil
}

// LoadFile loads and validates a description from a YAML file.
func (l *DescriptionLoader) LoadFile(path string) (*Description, error) {
	// Security: Use os.OpenRoot to prevent path traversal attacks
	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open description directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open description: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	d, err := l.LoadFromReader(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// LoadFromReader loads and validates a description from an io.Reader.
func (l *DescriptionLoader) LoadFromReader(r io.Reader) (*Description, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}

	if err := l.validateSchema(data); err != nil {
		return nil, err
	}

	var d Description
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&d); err != nil {
		return nil, fmt.Errorf("failed to decode description YAML: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, fmt.Errorf("description validation failed: %w", err)
	}
	return &d, nil
}

func (l *DescriptionLoader) validateSchema(data []byte) error {
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fmt.Errorf("failed to decode description YAML: %w", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(jsonData))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("failed to decode description YAML: %w", err)
	}

	if err := l.schema.Validate(doc); err != nil {
		var validationErr *jsonschema.ValidationError
		if errors.As(err, &validationErr) {
			return formatSchemaValidationError(validationErr)
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// formatSchemaValidationError formats a JSON Schema validation error into a readable message.
func formatSchemaValidationError(err *jsonschema.ValidationError) error {
	var messages []string

	var collectErrors func(*jsonschema.ValidationError)
	collectErrors = func(e *jsonschema.ValidationError) {
		if e.Message != "" && len(e.Causes) == 0 {
			location := e.InstanceLocation
			if location == "" {
				location = "(root)"
			}
			messages = append(messages, fmt.Sprintf("%s: %s", location, e.Message))
		}

		for _, cause := range e.Causes {
			collectErrors(cause)
		}
	}

	collectErrors(err)

	if len(messages) == 0 {
		return fmt.Errorf("schema validation failed")
	}

	return fmt.Errorf("schema validation failed:\n    - %s", strings.Join(messages, "\n    - "))
}
