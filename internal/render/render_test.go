package render

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"codeberg.org/go-pdf/fpdf"

	"cardforge/internal/config"
	"cardforge/internal/domain"
)

// writeTemplate creates a minimal single-page template PDF sized like the
// production card template.
func writeTemplate(t *testing.T) string {
	t.Helper()
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: 842, Ht: 792},
	})
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", 24)
	pdf.Text(100, 60, "Farewell!")

	path := filepath.Join(t.TempDir(), "template.pdf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("template create failed: %v", err)
	}
	defer f.Close()
	if err := pdf.Output(f); err != nil {
		t.Fatalf("template output failed: %v", err)
	}
	return path
}

func testRenderer(t *testing.T, templatePath string) *Renderer {
	t.Helper()
	cfg := config.Default()
	cfg.Cards.TemplatePath = templatePath
	return New(cfg)
}

func TestRender_TemplateMissing(t *testing.T) {
	r := testRenderer(t, filepath.Join(t.TempDir(), "absent.pdf"))

	out, err := r.Render(domain.CardRequest{Name: "Ada", Message: "bye"})
	if !errors.Is(err, domain.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
	if out != nil {
		t.Fatalf("no output must be produced when the template is missing")
	}
}

func TestRender_ProducesMergedPDF(t *testing.T) {
	r := testRenderer(t, writeTemplate(t))

	out, err := r.Render(domain.CardRequest{
		Name:    "Ada Lovelace",
		Message: "Thank you for everything.\nGood luck out there!",
	})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
}

func TestRender_EmptyMessageUsesSignatureFallback(t *testing.T) {
	// The renderer itself tolerates an empty message; validation happens
	// upstream. Zero wrapped lines places the signature at the fallback y.
	r := testRenderer(t, writeTemplate(t))

	out, err := r.Render(domain.CardRequest{Name: "Ada", Message: ""})
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if len(out) == 0 {
		t.Fatalf("expected output bytes")
	}
}

func TestRender_OverlongMessageTruncatesSilently(t *testing.T) {
	r := testRenderer(t, writeTemplate(t))

	long := strings.Repeat("farewell and thanks for all the fish ", 400)
	out, err := r.Render(domain.CardRequest{Name: "Ada", Message: long})
	if err != nil {
		t.Fatalf("overlong message must truncate, not error: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Fatalf("output does not look like a PDF")
	}
}

func TestRender_CorruptTemplateReportsRenderFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.pdf")
	if err := os.WriteFile(path, []byte("not a pdf"), 0o644); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	r := testRenderer(t, path)

	_, err := r.Render(domain.CardRequest{Name: "Ada", Message: "bye"})
	if !errors.Is(err, domain.ErrRenderFailed) {
		t.Fatalf("expected ErrRenderFailed, got %v", err)
	}
}
