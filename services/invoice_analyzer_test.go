package services

import (
	"io"
	"strings"
	"testing"
)

type fakeExtractor struct {
	text string
	err  error
}

func (f fakeExtractor) ExtractText(r io.ReaderAt, size int64) (string, error) {
	return f.text, f.err
}

func TestAnalyzeInvoiceTextPicksLargestOnKeywordLines(t *testing.T) {
	text := strings.Join([]string{
		"Invoice #42",
		"Item A 9999.99",
		"Subtotal: R 1,200.00",
		"VAT: R 180.00",
		"Total due: R 1 380.00",
	}, "\n")

	got := AnalyzeInvoiceText(text)
	if got != "Detected total: R 1380.00. (From: 'Total due: R 1 380.00')" {
		t.Fatalf("AnalyzeInvoiceText = %q", got)
	}
}

func TestAnalyzeInvoiceTextKeywordLinesBeatLargerValuesElsewhere(t *testing.T) {
	// 9999.99 is larger, but sits on a non-keyword line; keyword lines win.
	text := "Item A 9999.99\nAmount due: 150.00"

	got := AnalyzeInvoiceText(text)
	if !strings.Contains(got, "Detected total: R 150.00.") {
		t.Fatalf("AnalyzeInvoiceText = %q", got)
	}
}

func TestAnalyzeInvoiceTextFallsBackToGlobalMax(t *testing.T) {
	text := "Line item one 100.00\nLine item two R 2,500.00\nthanks for your business"

	got := AnalyzeInvoiceText(text)
	if !strings.Contains(got, "Detected total: R 2500.00.") {
		t.Fatalf("AnalyzeInvoiceText = %q", got)
	}
	if !strings.Contains(got, "Line item two") {
		t.Fatalf("expected source line in %q", got)
	}
}

func TestAnalyzeInvoiceTextZeroKeywordTotalSkipsFallback(t *testing.T) {
	// A keyword line that reads R 0.00 is still a match; a stray larger
	// number elsewhere must not be promoted to the total.
	got := AnalyzeInvoiceText("Total: R 0.00\nref 523443.00")
	if !strings.Contains(got, "Could not confidently extract a total") {
		t.Fatalf("AnalyzeInvoiceText = %q", got)
	}
	if strings.Contains(got, "523443") {
		t.Fatalf("non-keyword amount leaked into answer %q", got)
	}
}

func TestAnalyzeInvoiceTextWithoutCurrencyTokens(t *testing.T) {
	got := AnalyzeInvoiceText("no numbers to be found here")
	if !strings.Contains(got, "Could not confidently extract a total") {
		t.Fatalf("AnalyzeInvoiceText = %q", got)
	}

	if got := AnalyzeInvoiceText("   "); got != "No readable text in PDF." {
		t.Fatalf("blank text answer = %q", got)
	}
}

func TestAnalyzeInvoiceTextIgnoresIntegerTokens(t *testing.T) {
	// Only tokens with exactly two decimals are currency-like.
	got := AnalyzeInvoiceText("Total order number 123456\nTotal: 99.50")
	if !strings.Contains(got, "Detected total: R 99.50.") {
		t.Fatalf("AnalyzeInvoiceText = %q", got)
	}
}

func TestAnalyzeFilesReportsPerFile(t *testing.T) {
	analyzer := NewInvoiceAnalyzer(fakeExtractor{text: "Total: R 321.00"})

	files := makeFileHeaders(t, []uploadFixture{
		{name: "invoice.pdf", data: []byte("%PDF-fake")},
		{name: "notes.txt", data: []byte("text")},
	})

	got := analyzer.AnalyzeFiles(files)

	parts := strings.Split(got, "\n\n")
	if len(parts) != 2 {
		t.Fatalf("expected 2 report blocks, got %d:\n%s", len(parts), got)
	}
	if !strings.HasPrefix(parts[0], "Invoice: invoice.pdf") || !strings.Contains(parts[0], "Detected total: R 321.00.") {
		t.Fatalf("pdf block = %q", parts[0])
	}
	if parts[1] != "Unsupported file type for analysis: notes.txt" {
		t.Fatalf("txt block = %q", parts[1])
	}
}

func TestAnalyzeFilesEmptyInput(t *testing.T) {
	analyzer := NewInvoiceAnalyzer(fakeExtractor{text: "irrelevant"})
	if got := analyzer.AnalyzeFiles(nil); got != "" {
		t.Fatalf("AnalyzeFiles(nil) = %q, want empty", got)
	}
}

func TestAnalyzeFilesUnreadablePDF(t *testing.T) {
	analyzer := NewInvoiceAnalyzer(fakeExtractor{err: io.ErrUnexpectedEOF})

	files := makeFileHeaders(t, []uploadFixture{
		{name: "broken.pdf", data: []byte("not a pdf")},
	})

	got := analyzer.AnalyzeFiles(files)
	if got != "Invoice: broken.pdf\nNo readable text in PDF." {
		t.Fatalf("AnalyzeFiles = %q", got)
	}
}
