// Package handlers maps HTTP requests onto the card components: submission,
// listing, download, and the password-gated admin view.
package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"cardforge/internal/auth"
	"cardforge/internal/config"
	"cardforge/internal/domain"
	"cardforge/internal/infra/logging"
	"cardforge/internal/render"
	"cardforge/internal/store"
)

//go:embed templates/*.html
var templatesFS embed.FS

var pages = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// CardService bundles configuration and dependencies for the card routes.
type CardService struct {
	cfg      config.Config
	store    *store.Store
	renderer *render.Renderer
	gate     *auth.Gate
}

// NewCardService creates a new CardService instance.
func NewCardService(cfg config.Config, st *store.Store, r *render.Renderer, g *auth.Gate) *CardService {
	return &CardService{cfg: cfg, store: st, renderer: r, gate: g}
}

type indexPage struct {
	Error           string
	Cards           []string
	Name            string
	Message         string
	MaxMessageChars int
}

type adminPage struct {
	Error      string
	Cards      []string
	Authorized bool
	Password   string
}

// HandleIndex serves the submission form plus the current card listing.
func (s *CardService) HandleIndex(c *fiber.Ctx) error {
	return s.renderIndex(c, fiber.StatusOK, indexPage{})
}

// HandleSubmit validates the form, renders the card and stores it, then
// redirects back to the form. Validation and render errors surface inline.
func (s *CardService) HandleSubmit(c *fiber.Ctx) error {
	req := domain.CardRequest{
		Name:    strings.TrimSpace(c.FormValue("name")),
		Message: strings.TrimSpace(c.FormValue("message")),
	}
	page := indexPage{Name: req.Name, Message: req.Message}

	if err := req.Validate(s.cfg.Cards.MaxMessageChars); err != nil {
		page.Error = s.validationMessage(err)
		return s.renderIndex(c, fiber.StatusBadRequest, page)
	}

	pdfBytes, err := s.renderer.Render(req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTemplateNotFound):
			page.Error = fmt.Sprintf("Error: required PDF template %q not found.", s.cfg.Cards.TemplatePath)
		default:
			logging.Error("card render failed", "name", req.Name, "error", err.Error())
			page.Error = "Error generating PDF."
		}
		return s.renderIndex(c, fiber.StatusInternalServerError, page)
	}

	filename := store.FileName(req.Name)
	if err := s.store.Write(filename, pdfBytes); err != nil {
		logging.Error("card write failed", "filename", filename, "error", err.Error())
		page.Error = "Error saving the generated card."
		return s.renderIndex(c, fiber.StatusInternalServerError, page)
	}

	logging.Info("card generated", "filename", filename, "request_id", c.Get("X-Request-ID"))
	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleCard serves one generated card file from the store directory.
func (s *CardService) HandleCard(c *fiber.Ctx) error {
	filename, err := url.PathUnescape(c.Params("filename"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid filename")
	}
	path, ok := s.store.Path(filename)
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "Card not found")
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	return c.SendFile(path)
}

// HandleAdminForm shows the admin password form. No collection data yet.
func (s *CardService) HandleAdminForm(c *fiber.Ctx) error {
	return s.renderAdmin(c, fiber.StatusOK, adminPage{})
}

// HandleAdminList verifies the password and, on success, shows the card
// collection with delete controls. Every admin action re-authenticates per
// request; no session or token is issued.
func (s *CardService) HandleAdminList(c *fiber.Ctx) error {
	password := c.FormValue("password")
	if !s.gate.Verify(password) {
		return s.renderAdmin(c, fiber.StatusUnauthorized, adminPage{Error: "Invalid password."})
	}
	return s.renderAdminList(c, password)
}

// HandleDelete removes one card. Deletion requires the same authorization as
// the admin listing; deleting a missing or invalid target is a silent no-op.
func (s *CardService) HandleDelete(c *fiber.Ctx) error {
	password := c.FormValue("password")
	if !s.gate.Verify(password) {
		return s.renderAdmin(c, fiber.StatusUnauthorized, adminPage{Error: "Invalid password."})
	}
	filename, err := url.PathUnescape(c.Params("filename"))
	if err == nil {
		if err := s.store.Delete(filename); err != nil {
			logging.Error("card delete failed", "filename", filename, "error", err.Error())
		} else {
			logging.Info("card deleted", "filename", filename, "request_id", c.Get("X-Request-ID"))
		}
	}
	return s.renderAdminList(c, password)
}

func (s *CardService) renderAdminList(c *fiber.Ctx, password string) error {
	cards, err := s.store.List()
	if err != nil {
		logging.Error("card listing failed", "error", err.Error())
		return s.renderAdmin(c, fiber.StatusInternalServerError, adminPage{Error: "Error listing cards."})
	}
	return s.renderAdmin(c, fiber.StatusOK, adminPage{
		Cards:      cards,
		Authorized: true,
		Password:   password,
	})
}

func (s *CardService) renderIndex(c *fiber.Ctx, status int, page indexPage) error {
	if page.Cards == nil {
		cards, err := s.store.List()
		if err != nil {
			logging.Warn("card listing failed", "error", err.Error())
		}
		page.Cards = cards
	}
	page.MaxMessageChars = s.cfg.Cards.MaxMessageChars
	return s.renderPage(c, status, "index.html", page)
}

func (s *CardService) renderAdmin(c *fiber.Ctx, status int, page adminPage) error {
	return s.renderPage(c, status, "admin.html", page)
}

func (s *CardService) renderPage(c *fiber.Ctx, status int, name string, data any) error {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		logging.Error("template render failed", "template", name, "error", err.Error())
		return fiber.NewError(fiber.StatusInternalServerError, "Template render failed")
	}
	c.Status(status)
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Send(buf.Bytes())
}

func (s *CardService) validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrMessageTooLong):
		return fmt.Sprintf("Message is too long. Please limit it to %d characters.", s.cfg.Cards.MaxMessageChars)
	default:
		return "Please enter both name and message."
	}
}
