package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

const (
	documentPart = "word/document.xml"
	corePart     = "docProps/core.xml"
)

// Normaliser handles DOCX documents.
type Normaliser struct{}

// New creates a new DOCX normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format this normaliser handles.
func (n *Normaliser) Format() domain.DocumentFormat {
	return domain.FormatDOCX
}

// Normalise extracts paragraph text from a DOCX archive. Paragraphs are
// separated by blank lines so the splitter can break on them.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	archive, err := zip.NewReader(bytes.NewReader(raw.Content), int64(len(raw.Content)))
	if err != nil {
		return nil, fmt.Errorf("open docx archive %s: %w", raw.URI, domain.ErrInvalidInput)
	}

	body, err := readPart(archive, documentPart)
	if err != nil {
		return nil, fmt.Errorf("read docx %s: %w", raw.URI, err)
	}

	content, err := paragraphs(body)
	if err != nil {
		return nil, fmt.Errorf("parse docx %s: %w", raw.URI, domain.ErrInvalidInput)
	}

	return &driven.NormaliseResult{
		Document: raw.ToDocument(coreTitle(archive), content),
	}, nil
}

// readPart returns the bytes of one archive member.
func readPart(archive *zip.Reader, name string) ([]byte, error) {
	f, err := archive.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, domain.ErrInvalidInput)
	}
	defer f.Close()
	return io.ReadAll(f)
}

// paragraphs walks the WordprocessingML token stream. Text runs inside
// tables, hyperlinks and text boxes are picked up as well as body runs.
func paragraphs(body []byte) (string, error) {
	dec := xml.NewDecoder(bytes.NewReader(body))

	var (
		out    []string
		para   strings.Builder
		inText bool
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}

		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr", "rPr":
				// Property blocks hold tab stop definitions, not text.
				if err := dec.Skip(); err != nil {
					return "", err
				}
			case "t":
				inText = true
			case "tab":
				para.WriteByte('\t')
			case "br", "cr":
				para.WriteByte('\n')
			}
		case xml.EndElement:
			switch el.Name.Local {
			case "t":
				inText = false
			case "p":
				if text := strings.TrimSpace(para.String()); text != "" {
					out = append(out, text)
				}
				para.Reset()
			}
		case xml.CharData:
			if inText {
				para.Write(el)
			}
		}
	}
	return strings.Join(out, "\n\n"), nil
}

type coreProperties struct {
	Title string `xml:"title"`
}

// coreTitle reads dc:title from the package properties, or "".
func coreTitle(archive *zip.Reader) string {
	data, err := readPart(archive, corePart)
	if err != nil {
		return ""
	}
	var props coreProperties
	if err := xml.Unmarshal(data, &props); err != nil {
		return ""
	}
	return strings.TrimSpace(props.Title)
}
