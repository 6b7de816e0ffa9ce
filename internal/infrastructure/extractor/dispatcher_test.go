package extractor

import (
	"context"
	"testing"

	"github.com/AswanthAllu/agentic/internal/core/domain"
)

type namedExtractor struct {
	name   string
	called *string
}

func (e namedExtractor) Extract(context.Context, string, string) (string, error) {
	*e.called = e.name
	return e.name, nil
}

func newTestDispatcher() (*Dispatcher, *string) {
	called := new(string)
	return NewDispatcher(
		namedExtractor{"plaintext", called},
		namedExtractor{"pdf", called},
		namedExtractor{"spreadsheet", called},
	), called
}

func TestDispatchByExtension(t *testing.T) {
	cases := map[string]string{
		"k_report.pdf":  "pdf",
		"k_data.xlsx":   "spreadsheet",
		"k_notes.md":    "plaintext",
		"k_main.go":     "plaintext",
		"k_upper.PDF":   "pdf",
		"k_table.csv":   "plaintext",
		"k_script.py":   "plaintext",
		"k_legacy.xls":  "spreadsheet",
		"k_readme.txt":  "plaintext",
		"k_page.html":   "plaintext",
		"k_conf.yaml":   "plaintext",
		"k_weird.xlsm":  "spreadsheet",
		"k_doc.unknown": "",
	}

	for path, want := range cases {
		d, called := newTestDispatcher()
		_, err := d.Extract(context.Background(), path, "")
		if want == "" {
			if !domain.IsKind(err, domain.ErrExtraction) {
				t.Fatalf("%s: expected extraction error, got %v", path, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: Extract() error = %v", path, err)
		}
		if *called != want {
			t.Fatalf("%s routed to %s, want %s", path, *called, want)
		}
	}
}

func TestDispatchByMimeType(t *testing.T) {
	d, called := newTestDispatcher()
	if _, err := d.Extract(context.Background(), "k_blob", "application/pdf"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if *called != "pdf" {
		t.Fatalf("mime routing failed, got %s", *called)
	}

	d, called = newTestDispatcher()
	if _, err := d.Extract(context.Background(), "k_blob", "text/plain"); err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if *called != "plaintext" {
		t.Fatalf("mime routing failed, got %s", *called)
	}
}
