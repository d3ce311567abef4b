package ingest

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
)

// ExtractFile pulls plain text out of an uploaded file. Supported formats are
// pdf via the pdf reader and docx/odt/rtf/txt via cat.
func ExtractFile(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path)
	case ".docx", ".odt", ".rtf", ".txt", ".md":
		return extractWithCat(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
}

func extractPDF(path string) (string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	numPages := f.NumPage()
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// A single bad page should not sink the whole document.
			logger.Error("failed to parse pdf page", "page", i, "error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(content)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no extractable text in %s", path)
	}
	return sb.String(), nil
}

func extractWithCat(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract document text: %w", err)
	}
	return text, nil
}

// protectExtract guards against the pdf reader hanging on malformed pages.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		return "", errors.New("timeout extracting pdf page")
	}
}
