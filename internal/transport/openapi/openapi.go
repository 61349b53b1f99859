package openapi

import (
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// Load parses and validates the OpenAPI document at path. The server
// refuses to start with a broken contract file.
func Load(path string) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi document: %w", err)
	}
	return doc, nil
}
