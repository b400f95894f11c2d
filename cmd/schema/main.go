package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/MauAlvarado43/open-valobook-sub000/internal/catalog"
	"github.com/MauAlvarado43/open-valobook-sub000/internal/document"
)

func main() {
	var outPath, kind string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema")
	flag.StringVar(&kind, "kind", "document", "schema to generate: document or catalog")
	flag.Parse()

	if outPath == "" {
		fmt.Fprintln(os.Stderr, "--out is required")
		os.Exit(1)
	}

	schema, err := buildSchema(kind)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := writeSchema(outPath, schema); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

func buildSchema(kind string) (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{}
	switch kind {
	case "document":
		schema := reflector.Reflect(new(document.Document))
		schema.Title = "Tactic board document"
		schema.Description = "A saved board: map reference, active side and the z-ordered element list"
		return schema, nil
	case "catalog":
		reflector.AllowAdditionalProperties = true
		schema := reflector.Reflect(new(catalog.File))
		schema.Title = "Ability catalog"
		schema.Description = "Per-ability dimension ranges in metres (or px when unit is set)"
		return schema, nil
	default:
		return nil, fmt.Errorf("unknown schema kind %q", kind)
	}
}

func writeSchema(outPath string, schema *jsonschema.Schema) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}

	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}

	return nil
}
