// Package renderer turns source documents into the layout preserving text the sheet parser reads
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/timetable-sheets/pkg/util"
)

const defaultPDFToTextPath = "pdftotext"

type Renderer interface {
	Render(ctx context.Context, document []byte) ([]byte, error)
}

// PDFToText runs poppler's pdftotext in layout mode
type PDFToText struct {
	Path string
}

func NewPDFToText() *PDFToText {
	path := defaultPDFToTextPath

	env := util.GetEnvironmentVariables()
	if env["TRAVIGO_PDFTOTEXT_PATH"] != "" {
		path = env["TRAVIGO_PDFTOTEXT_PATH"]
	}

	return &PDFToText{Path: path}
}

// Command builds the invocation that writes the rendering of input to stdout
func (p *PDFToText) Command(ctx context.Context, input string) *exec.Cmd {
	return exec.CommandContext(ctx, p.Path, "-layout", "-q", input, "-")
}

func (p *PDFToText) Render(ctx context.Context, document []byte) ([]byte, error) {
	tmpFile, err := os.CreateTemp(os.TempDir(), "timetable-sheets-render-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmpFile.Name())

	if _, err := tmpFile.Write(document); err != nil {
		tmpFile.Close()
		return nil, err
	}
	if err := tmpFile.Close(); err != nil {
		return nil, err
	}

	var stdout, stderr bytes.Buffer

	command := p.Command(ctx, tmpFile.Name())
	command.Stdout = &stdout
	command.Stderr = &stderr

	log.Debug().Str("command", command.String()).Msg("Rendering document")

	if err := command.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", p.Path, err, strings.TrimSpace(stderr.String()))
	}

	return stdout.Bytes(), nil
}
