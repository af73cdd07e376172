package domain

import "context"

// CatalogSource supplies the format identifiers known to the conversion service.
type CatalogSource interface {
	FetchFormats(ctx context.Context) ([]Format, error)
}

// ConversionService performs one remote conversion and returns the raw response body.
type ConversionService interface {
	Convert(ctx context.Context, upload Upload) ([]byte, error)
}
