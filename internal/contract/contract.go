// Package contract loads the OpenAPI description of the remote conversion service.
package contract

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	listFormatsOperation = "listFormats"
	convertOperation     = "convertDocument"
	multipartMediaType   = "multipart/form-data"
)

//go:embed pandoc-api.yaml
var specData []byte

// Endpoints holds the parts of the contract the HTTP client needs.
type Endpoints struct {
	FormatsPath string
	ConvertPath string
	TargetParam string
	FileField   string
}

// Default returns the endpoints the service has always exposed.
func Default() *Endpoints {
	return &Endpoints{
		FormatsPath: "/formats",
		ConvertPath: "/convert",
		TargetParam: "to",
		FileField:   "file",
	}
}

// Load parses and validates the embedded contract.
func Load(ctx context.Context) (*Endpoints, error) {
	return LoadFromData(ctx, specData)
}

// LoadFromData parses and validates an OpenAPI document and resolves the endpoints from it.
func LoadFromData(ctx context.Context, data []byte) (*Endpoints, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service contract: %w", err)
	}

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid service contract: %w", err)
	}

	return resolve(doc)
}

func resolve(doc *openapi3.T) (*Endpoints, error) {
	endpoints := &Endpoints{}

	for path, item := range doc.Paths.Map() {
		if item.Get != nil && item.Get.OperationID == listFormatsOperation {
			endpoints.FormatsPath = path
		}

		if item.Post != nil && item.Post.OperationID == convertOperation {
			endpoints.ConvertPath = path

			param, err := targetParam(item.Post)
			if err != nil {
				return nil, err
			}
			endpoints.TargetParam = param

			field, err := fileField(item.Post)
			if err != nil {
				return nil, err
			}
			endpoints.FileField = field
		}
	}

	if endpoints.FormatsPath == "" {
		return nil, fmt.Errorf("service contract has no %s operation", listFormatsOperation)
	}
	if endpoints.ConvertPath == "" {
		return nil, fmt.Errorf("service contract has no %s operation", convertOperation)
	}

	return endpoints, nil
}

func targetParam(op *openapi3.Operation) (string, error) {
	for _, ref := range op.Parameters {
		if ref == nil || ref.Value == nil {
			continue
		}
		if ref.Value.In == openapi3.ParameterInQuery && ref.Value.Required {
			return ref.Value.Name, nil
		}
	}

	return "", fmt.Errorf("operation %s has no required query parameter", op.OperationID)
}

func fileField(op *openapi3.Operation) (string, error) {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return "", fmt.Errorf("operation %s has no request body", op.OperationID)
	}

	media := op.RequestBody.Value.Content.Get(multipartMediaType)
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return "", fmt.Errorf("operation %s does not accept %s", op.OperationID, multipartMediaType)
	}

	for name, prop := range media.Schema.Value.Properties {
		if prop != nil && prop.Value != nil && strings.EqualFold(prop.Value.Format, "binary") {
			return name, nil
		}
	}

	return "", fmt.Errorf("operation %s has no binary form field", op.OperationID)
}
