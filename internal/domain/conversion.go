package domain

import "fmt"

// Mode is the caller's declared presentation intent for a conversion.
type Mode int

const (
	// ToFile presents the converted output as a downloadable file.
	ToFile Mode = iota
	// ToRaw presents the converted output as inline text.
	ToRaw
)

// String returns the mode name used in logs and forms.
func (m Mode) String() string {
	switch m {
	case ToFile:
		return "file"
	case ToRaw:
		return "raw"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode maps a form or flag value to a Mode. Empty means ToFile.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "file":
		return ToFile, nil
	case "raw", "text":
		return ToRaw, nil
	default:
		return ToFile, fmt.Errorf("%w: unknown mode %q", ErrInvalidRequest, s)
	}
}

// File is an uploaded document whose name is sent unchanged.
type File struct {
	Name string
	Data []byte
}

// ConversionRequest describes one user action. Exactly one of Text or File carries the payload.
type ConversionRequest struct {
	Source Format
	Target Format
	Text   string
	File   *File

	// RequireSource makes an empty Source a validation failure.
	RequireSource bool
}

// Result is the outcome of a successful conversion: a BinaryArtifact or a TextArtifact.
type Result interface {
	isResult()
}

// BinaryArtifact is output meant to be saved as a file.
type BinaryArtifact struct {
	Data     []byte
	Filename string
}

// TextArtifact is output meant to be shown inline.
type TextArtifact struct {
	Text string
}

func (BinaryArtifact) isResult() {}
func (TextArtifact) isResult()   {}

// Presenter accepts a final result. Both calls are fire-and-forget.
type Presenter interface {
	PresentDownload(data []byte, filename string)
	PresentText(text string)
}

// Upload is the single outbound call built from a ConversionRequest.
type Upload struct {
	Target      Format
	Filename    string
	ContentType string
	Data        []byte
}
