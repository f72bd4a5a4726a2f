package extract

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor concatenates the plain text of every page in page order.
type PDFExtractor struct{}

func (PDFExtractor) MediaType() string { return MediaTypePDF }

func (PDFExtractor) Extension() string { return "pdf" }

func (PDFExtractor) Extract(data []byte) (text string, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			text = ""
			err = fmt.Errorf("%w: pdf parser panic: %v", ErrExtractionFailed, rec)
		}
	}()

	pdfReader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: open pdf: %w", ErrExtractionFailed, err)
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("%w: read pdf text: %w", ErrExtractionFailed, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", fmt.Errorf("%w: copy pdf text: %w", ErrExtractionFailed, err)
	}
	return buf.String(), nil
}
