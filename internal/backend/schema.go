package backend

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Request body schemas, by file name without extension.
const (
	schemaVerifyPayment = "verify-payment"
	schemaGameEnd       = "game-end"
	schemaPowerUpUse    = "powerup-use"
)

const maxBodyBytes = 64 << 10

// compileSchemas loads every embedded request schema.
func compileSchemas() (map[string]*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	names := []string{schemaVerifyPayment, schemaGameEnd, schemaPowerUpUse}
	for _, name := range names {
		data, err := schemaFS.ReadFile("schemas/" + name + ".schema.json")
		if err != nil {
			return nil, fmt.Errorf("backend: schema %s: %w", name, err)
		}
		if err := c.AddResource(schemaURL(name), bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("backend: schema %s: %w", name, err)
		}
	}

	out := make(map[string]*jsonschema.Schema, len(names))
	for _, name := range names {
		s, err := c.Compile(schemaURL(name))
		if err != nil {
			return nil, fmt.Errorf("backend: compile schema %s: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}

func schemaURL(name string) string {
	return "mem://schemas/" + name + ".schema.json"
}

// decodeValidated reads a JSON body, validates it against schema and
// decodes it into dst. Any failure is an ErrInvalidRequest.
func decodeValidated(r *http.Request, schema *jsonschema.Schema, dst any) error {
	data, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrInvalidRequest, err)
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("%w: malformed json: %v", ErrInvalidRequest, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
