package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Currency-like tokens: optional leading R marker, thousands separators,
// exactly two decimal places.
var currencyRe = regexp.MustCompile(`(?i)(?:r\s*)?\b(?:[0-9]{1,3}(?:[,\s][0-9]{3})+|[0-9]+)\.[0-9]{2}\b`)

var currencyPrefixRe = regexp.MustCompile(`(?i)^r\s*`)

// A TextExtractor turns raw document bytes into plain text. Isolating it
// behind an interface lets the analysis heuristics be tested without PDFs.
type TextExtractor interface {
	ExtractText(r io.ReaderAt, size int64) (string, error)
}

// PDFExtractor extracts text page by page.
type PDFExtractor struct{}

func (PDFExtractor) ExtractText(r io.ReaderAt, size int64) (string, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var all strings.Builder
	for i := 1; i <= doc.NumPage(); i++ {
		page := doc.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		all.WriteString(text)
		all.WriteString("\n")
	}
	return all.String(), nil
}

// InvoiceAnalyzer finds the most plausible total in invoice text: the largest
// currency token on a keyword line, falling back to the largest token in the
// whole document.
type InvoiceAnalyzer struct {
	extractor TextExtractor
}

func NewInvoiceAnalyzer(extractor TextExtractor) *InvoiceAnalyzer {
	return &InvoiceAnalyzer{extractor: extractor}
}

// AnalyzeFiles produces one report block per uploaded file. Non-PDF files get
// an unsupported-type notice; empty input yields "".
func (a *InvoiceAnalyzer) AnalyzeFiles(files []*multipart.FileHeader) string {
	var parts []string
	for _, f := range files {
		if f == nil || f.Size == 0 {
			continue
		}
		if strings.ToLower(filepath.Ext(f.Filename)) != ".pdf" {
			parts = append(parts, fmt.Sprintf("Unsupported file type for analysis: %s", f.Filename))
			continue
		}
		parts = append(parts, fmt.Sprintf("Invoice: %s\n%s", f.Filename, a.analyzeOne(f)))
	}
	return strings.Join(parts, "\n\n")
}

func (a *InvoiceAnalyzer) analyzeOne(f *multipart.FileHeader) string {
	src, err := f.Open()
	if err != nil {
		return "No readable text in PDF."
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return "No readable text in PDF."
	}

	text, err := a.extractor.ExtractText(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "No readable text in PDF."
	}

	return AnalyzeInvoiceText(text)
}

// AnalyzeInvoiceText runs the keyword-line scan and global fallback over
// already-extracted text.
func AnalyzeInvoiceText(text string) string {
	if strings.TrimSpace(text) == "" {
		return "No readable text in PDF."
	}

	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\r' || r == '\n' })

	best := 0.0
	source := ""
	keywordMatches := 0
	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "total") && !strings.Contains(lower, "amount due") && !strings.Contains(lower, "balance") {
			continue
		}
		for _, tok := range currencyRe.FindAllString(line, -1) {
			amt, ok := parseCurrency(tok)
			if !ok {
				continue
			}
			keywordMatches++
			if amt > best {
				best = amt
				source = strings.TrimSpace(line)
			}
		}
	}

	// Fall back only when no keyword line carried an amount at all. A keyword
	// line with a zero amount is a match we refuse to second-guess.
	if keywordMatches == 0 {
		// No keyword line matched: take the largest currency token anywhere.
		for _, line := range lines {
			for _, tok := range currencyRe.FindAllString(line, -1) {
				if amt, ok := parseCurrency(tok); ok && amt > best {
					best = amt
					source = strings.TrimSpace(line)
				}
			}
		}
	}

	if best > 0 {
		return fmt.Sprintf("Detected total: R %.2f. (From: '%s')", best, source)
	}
	return "Could not confidently extract a total from the invoice. Try a clearer PDF."
}

func parseCurrency(token string) (float64, bool) {
	token = currencyPrefixRe.ReplaceAllString(strings.TrimSpace(token), "")
	token = strings.ReplaceAll(token, ",", "")
	token = strings.ReplaceAll(token, " ", "")
	value, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
