package orchestrator

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/GabrielNunesIT/pandoc-web/internal/domain"
)

const (
	textContentType   = "text/plain"
	binaryContentType = "application/octet-stream"
	fallbackInputName = "input.txt"
)

// Validate checks req before anything is sent.
// Failures wrap domain.ErrInvalidRequest.
func Validate(req domain.ConversionRequest, mode domain.Mode) error {
	if mode != domain.ToFile && mode != domain.ToRaw {
		return fmt.Errorf("%w: unknown mode %s", domain.ErrInvalidRequest, mode)
	}

	err := validation.ValidateStruct(&req,
		validation.Field(&req.Target, validation.Required),
		validation.Field(&req.Source, validation.When(req.RequireSource, validation.Required)),
		validation.Field(&req.Text,
			validation.When(req.File == nil, validation.Required.Error("text or file is required")),
			validation.When(req.File != nil, validation.Empty.Error("cannot be combined with a file")),
		),
		validation.Field(&req.File, validation.By(nonEmptyFile)),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	return nil
}

func nonEmptyFile(value interface{}) error {
	f, _ := value.(*domain.File)
	if f == nil {
		return nil
	}

	if len(f.Data) == 0 {
		return errors.New("must not be empty")
	}

	return nil
}

// BuildUpload maps a validated request onto the outbound call.
// Text is sent as a synthetic file whose extension names the source format;
// a named file keeps its name.
func BuildUpload(req domain.ConversionRequest) domain.Upload {
	if req.File != nil {
		name := req.File.Name
		if name == "" {
			name = InputFilename(req.Source)
		}

		return domain.Upload{
			Target:      req.Target,
			Filename:    name,
			ContentType: binaryContentType,
			Data:        req.File.Data,
		}
	}

	return domain.Upload{
		Target:      req.Target,
		Filename:    InputFilename(req.Source),
		ContentType: textContentType,
		Data:        []byte(req.Text),
	}
}

// InputFilename is the synthetic upload name for text in the given source format.
func InputFilename(source domain.Format) string {
	if source == "" {
		return fallbackInputName
	}

	return "input." + source.String()
}

// OutputFilename is the suggested download name for a target format.
func OutputFilename(target domain.Format) string {
	return "output." + target.String()
}
