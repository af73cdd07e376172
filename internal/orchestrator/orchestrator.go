// Package orchestrator turns user actions into conversion calls and routes their results.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/GabrielNunesIT/go-libs/logger"
	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

// Service is the remote side of the orchestrator.
type Service interface {
	domain.CatalogSource
	domain.ConversionService
}

// Orchestrator owns catalog loading and the request/response rules for conversions.
// It is safe for concurrent use; conversions share no state.
type Orchestrator struct {
	log     logger.ILogger
	service Service

	loadMu  sync.Mutex
	catalog atomic.Pointer[domain.Catalog]
}

// New creates an orchestrator backed by service.
func New(log logger.ILogger, service Service) *Orchestrator {
	return &Orchestrator{
		log:     log,
		service: service,
	}
}

// LoadCatalog fetches the format catalog once. After a successful load the
// catalog is fixed for the lifetime of the orchestrator and later calls make
// no network request. A failed load leaves no catalog; calling again is the
// manual reload.
func (o *Orchestrator) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	if c := o.catalog.Load(); c != nil {
		return c, nil
	}

	o.loadMu.Lock()
	defer o.loadMu.Unlock()

	if c := o.catalog.Load(); c != nil {
		return c, nil
	}

	formats, err := o.service.FetchFormats(ctx)
	if err != nil {
		o.log.Errorf("Failed to load formats: %v", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	catalog := domain.NewCatalog(formats)
	o.catalog.Store(catalog)

	o.log.Infof("Loaded %d formats", catalog.Len())

	return catalog, nil
}

// Catalog returns the loaded catalog, or nil while none has been loaded.
func (o *Orchestrator) Catalog() *domain.Catalog {
	return o.catalog.Load()
}

// CanConvertToRaw reports whether target may be requested in ToRaw mode.
// Every surface that offers raw output asks this before calling Convert.
func (o *Orchestrator) CanConvertToRaw(target domain.Format) bool {
	return domain.IsRawTextFormat(target)
}

// CheckMode returns ErrRawTextNotSupported when mode is ToRaw and target is not allow-listed.
// An empty target is left to Convert's validation.
func (o *Orchestrator) CheckMode(target domain.Format, mode domain.Mode) error {
	if mode == domain.ToRaw && target != "" && !o.CanConvertToRaw(target) {
		return fmt.Errorf("%w: %s", domain.ErrRawTextNotSupported, target)
	}

	return nil
}

// Convert validates req, issues exactly one call to the service and wraps the
// response according to mode. The response content type is not inspected, and
// the raw-text allow-list is not enforced here; see CheckMode.
func (o *Orchestrator) Convert(ctx context.Context, req domain.ConversionRequest, mode domain.Mode) (domain.Result, error) {
	if err := Validate(req, mode); err != nil {
		o.log.Infof("Rejected %s conversion to %q: %v", mode, req.Target, err)
		return nil, err
	}

	upload := BuildUpload(req)

	o.log.Infof("Converting %s to %s (%s, %d bytes)", upload.Filename, upload.Target, mode, len(upload.Data))

	data, err := o.service.Convert(ctx, upload)
	if err != nil {
		var convErr *domain.ConversionError
		if !errors.As(err, &convErr) {
			err = &domain.ConversionError{Err: err}
		}

		o.log.Errorf("Conversion to %s failed: %v", upload.Target, err)

		return nil, err
	}

	o.log.Infof("Converted %s to %s (%d bytes)", upload.Filename, upload.Target, len(data))

	if mode == domain.ToRaw {
		return domain.TextArtifact{Text: string(data)}, nil
	}

	return domain.BinaryArtifact{Data: data, Filename: OutputFilename(req.Target)}, nil
}

// Present hands result to exactly one sink method.
func (o *Orchestrator) Present(result domain.Result, sink domain.Presenter) {
	switch r := result.(type) {
	case domain.BinaryArtifact:
		sink.PresentDownload(r.Data, r.Filename)
	case domain.TextArtifact:
		sink.PresentText(r.Text)
	}
}

// Run converts and presents. The sink is only called after a successful response.
func (o *Orchestrator) Run(ctx context.Context, req domain.ConversionRequest, mode domain.Mode, sink domain.Presenter) error {
	result, err := o.Convert(ctx, req, mode)
	if err != nil {
		return err
	}

	o.Present(result, sink)

	return nil
}
