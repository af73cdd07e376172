// Package presenters provides the CLI presentation sinks for conversion results.
package presenters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GabrielNunesIT/go-libs/logger"
)

// DirectoryPresenter saves downloads into a directory.
type DirectoryPresenter struct {
	log   logger.ILogger
	dir   string
	saved []string
	err   error
}

// NewDirectoryPresenter creates a presenter that writes into dir.
func NewDirectoryPresenter(log logger.ILogger, dir string) *DirectoryPresenter {
	return &DirectoryPresenter{log: log, dir: dir}
}

// PresentDownload writes data to dir/filename. Only the base name of filename is used.
func (p *DirectoryPresenter) PresentDownload(data []byte, filename string) {
	path, err := p.save(data, filename)
	if err != nil {
		p.log.Errorf("Could not save %s: %v", filename, err)
		if p.err == nil {
			p.err = err
		}
		return
	}

	p.saved = append(p.saved, path)
	p.log.Infof("Successfully created: %s", path)
}

// PresentText is not supported by a directory; the text is dropped.
func (p *DirectoryPresenter) PresentText(text string) {
	p.log.Errorf("Discarding %d characters of text output: directory presenter only saves files", len(text))
}

// Saved returns the paths written so far.
func (p *DirectoryPresenter) Saved() []string {
	return p.saved
}

// Err returns the first write error, if any.
func (p *DirectoryPresenter) Err() error {
	return p.err
}

func (p *DirectoryPresenter) save(data []byte, filename string) (string, error) {
	name := filepath.Base(filename)
	if name == "." || name == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("invalid output file name %q", filename)
	}

	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	path := filepath.Join(p.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write output file: %w", err)
	}

	return path, nil
}

// WriterPresenter writes every result to an io.Writer.
type WriterPresenter struct {
	w   io.Writer
	err error
}

// NewWriterPresenter creates a presenter over w.
func NewWriterPresenter(w io.Writer) *WriterPresenter {
	return &WriterPresenter{w: w}
}

// PresentDownload writes the raw bytes.
func (p *WriterPresenter) PresentDownload(data []byte, _ string) {
	p.write(data)
}

// PresentText writes the text, ending it with a newline.
func (p *WriterPresenter) PresentText(text string) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	p.write([]byte(text))
}

// Err returns the first write error, if any.
func (p *WriterPresenter) Err() error {
	return p.err
}

func (p *WriterPresenter) write(data []byte) {
	if p.err != nil {
		return
	}

	if _, err := p.w.Write(data); err != nil {
		p.err = fmt.Errorf("failed to write output: %w", err)
	}
}
