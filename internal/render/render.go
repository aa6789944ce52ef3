// Package render produces a finished card PDF: wrapped message text and a
// signature line drawn as a vector overlay, merged on top of the single-page
// template so the template artwork stays visible beneath the text.
package render

import (
	"bytes"
	"errors"
	"io/fs"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"cardforge/internal/config"
	"cardforge/internal/domain"
	"cardforge/internal/layout"
)

const (
	bodyFont = "Helvetica"
	bodySize = 12.0

	signatureSize      = 14.0
	signatureInset     = 10.0
	signatureGap       = 25.0
	signatureFallbackY = 200.0
)

// Text color #2C3E50, tuned to the card template artwork.
const (
	textR = 0x2C
	textG = 0x3E
	textB = 0x50
)

// Renderer turns card requests into merged single-page PDFs.
type Renderer struct {
	templatePath string
	box          layout.Box
}

// New builds a Renderer from the loaded configuration.
func New(cfg config.Config) *Renderer {
	return &Renderer{
		templatePath: cfg.Cards.TemplatePath,
		box: layout.Box{
			Left:       cfg.Box.Left,
			Right:      cfg.Box.Right,
			Top:        cfg.Box.Top,
			Bottom:     cfg.Box.Bottom,
			LineHeight: cfg.Box.LineHeight,
		},
	}
}

// Render produces the finished card. It returns domain.ErrTemplateNotFound
// when the template is missing and wraps any other fault in
// domain.ErrRenderFailed. Nothing is persisted here; the caller only writes
// the returned bytes after success.
func (r *Renderer) Render(req domain.CardRequest) ([]byte, error) {
	if _, err := os.Stat(r.templatePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, errors.Join(domain.ErrRenderFailed, err)
	}

	// The template's media box determines the overlay page size.
	dims, err := api.PageDimsFile(r.templatePath)
	if err != nil {
		return nil, errors.Join(domain.ErrRenderFailed, err)
	}
	if len(dims) == 0 {
		return nil, errors.Join(domain.ErrRenderFailed, errors.New("template has no pages"))
	}

	overlay, err := r.drawOverlay(req, dims[0].Width, dims[0].Height)
	if err != nil {
		return nil, errors.Join(domain.ErrRenderFailed, err)
	}

	merged, err := r.mergeOntoTemplate(overlay)
	if err != nil {
		return nil, errors.Join(domain.ErrRenderFailed, err)
	}
	return merged, nil
}

// drawOverlay renders the wrapped message and the signature line onto a blank
// page the size of the template. Coordinates in the layout box use the PDF
// convention (origin bottom-left); fpdf draws top-down, so y flips at draw time.
func (r *Renderer) drawOverlay(req domain.CardRequest, pageW, pageH float64) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetTextColor(textR, textG, textB)
	pdf.SetFont(bodyFont, "", bodySize)

	lines := layout.Wrap(req.Message, r.box.MaxWidth(), pdf.GetStringWidth)
	if maxLines := r.box.MaxLines(); len(lines) > maxLines {
		// Excess content is dropped silently, no truncation indicator.
		lines = lines[:maxLines]
	}
	for i, line := range lines {
		y := r.box.Top - float64(i)*r.box.LineHeight
		if y < r.box.Bottom {
			break
		}
		pdf.Text(r.box.Left, pageH-y, line)
	}

	signatureY := signatureFallbackY
	if len(lines) > 0 {
		lastLineY := r.box.Top - float64(len(lines)-1)*r.box.LineHeight
		signatureY = lastLineY - signatureGap
	}
	signature := "- " + req.Name
	pdf.SetFont(bodyFont, "B", signatureSize)
	signatureX := r.box.Right - pdf.GetStringWidth(signature) - signatureInset
	pdf.Text(signatureX, pageH-signatureY, signature)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// mergeOntoTemplate stamps the overlay page on top of the template page and
// returns the serialized single-page document.
func (r *Renderer) mergeOntoTemplate(overlay []byte) ([]byte, error) {
	tmp, err := os.CreateTemp("", "card-overlay-*.pdf")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(overlay); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	wm, err := pdfcpu.ParsePDFWatermarkDetails(tmp.Name(), "pos:full, rot:0, scale:1 abs", true, types.POINTS)
	if err != nil {
		return nil, err
	}

	tpl, err := os.Open(r.templatePath)
	if err != nil {
		return nil, err
	}
	defer tpl.Close()

	var out bytes.Buffer
	if err := api.AddWatermarks(tpl, &out, nil, wm, model.NewDefaultConfiguration()); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
