// internal/handler/page_handler.go
package handler

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/logging"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/service"
)

//go:embed templates/page.html
var templateFS embed.FS

// formFields are the inputs POST /generate copies into the form, in order.
var formFields = []string{
	service.FieldProductName,
	service.FieldDescription,
	service.FieldTargetAudience,
	service.FieldPlatform,
	service.FieldTone,
	service.FieldCTAStyle,
	service.FieldCreativity,
}

// PageHandler serves the single HTML page and its form posts. Every post
// redirects back to "/" so a reload never resubmits.
type PageHandler struct {
	App *service.App

	tmpl   *template.Template
	tips   map[model.Platform]template.HTML
	logger *zap.Logger
}

func NewPageHandler(app *service.App, logger *zap.Logger) (*PageHandler, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse page template: %w", err)
	}
	tips, err := renderProTips()
	if err != nil {
		return nil, err
	}
	return &PageHandler{App: app, tmpl: tmpl, tips: tips, logger: logging.OrNop(logger)}, nil
}

// Register mounts the page routes. limit wraps the routes that call the model.
func (h *PageHandler) Register(r chi.Router, limit func(http.Handler) http.Handler) {
	r.Get("/", h.Index)
	r.Post("/history/{id}/load", h.LoadHistory)
	r.Post("/history/clear", h.ClearHistory)

	r.Group(func(r chi.Router) {
		if limit != nil {
			r.Use(limit)
		}
		r.Post("/generate", h.Generate)
		r.Post("/regenerate", h.Regenerate)
	})
}

type copyItem struct {
	Text  string
	Chars int
}

type resultView struct {
	*model.CampaignResult
	Headlines    []copyItem
	Descriptions []copyItem
	CTAs         []copyItem
	ProTip       template.HTML
}

type historyItem struct {
	ID          string
	Date        string
	Platform    model.Platform
	ProductName string
	Description string
}

type pageView struct {
	Params            model.CampaignParams
	CreativityPercent int
	Busy              bool
	Error             string
	Result            *resultView
	History           []historyItem

	Platforms []model.Platform
	Tones     []model.Tone
	CTAStyles []model.CTAStyle
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	state := h.App.Form.State()
	view := pageView{
		Params:            state.Params,
		CreativityPercent: int(state.Params.Creativity*100 + 0.5),
		Busy:              state.Busy,
		Error:             state.Error,
		Platforms:         model.Platforms,
		Tones:             model.Tones,
		CTAStyles:         model.CTAStyles,
	}
	if res := state.CurrentResult; res != nil {
		view.Result = &resultView{
			CampaignResult: res,
			Headlines:      toCopyItems(res.Copy.Headlines),
			Descriptions:   toCopyItems(res.Copy.Descriptions),
			CTAs:           toCopyItems(res.Copy.CTAs),
			ProTip:         h.tips[res.Params.Platform],
		}
	}
	for _, e := range state.History {
		view.History = append(view.History, historyItem{
			ID:          e.ID,
			Date:        e.CreatedAt().Format(time.DateOnly),
			Platform:    e.Params.Platform,
			ProductName: e.Params.ProductName,
			Description: e.Params.Description,
		})
	}

	var buf bytes.Buffer
	if err := h.tmpl.Execute(&buf, view); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func toCopyItems(lines []string) []copyItem {
	items := make([]copyItem, len(lines))
	for i, l := range lines {
		items[i] = copyItem{Text: l, Chars: utf8.RuneCountInString(l)}
	}
	return items
}

// Generate copies the posted fields into the form and submits. Failures are
// shown by the error banner on the redirected page.
func (h *PageHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	for _, name := range formFields {
		if _, ok := r.PostForm[name]; !ok {
			continue
		}
		if err := h.App.Form.UpdateField(name, r.PostForm.Get(name)); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	h.submit(w, r)
}

func (h *PageHandler) Regenerate(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r)
}

func (h *PageHandler) submit(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.App.Form.Submit(r.Context())
	switch {
	case err != nil:
		h.logger.Debug("submission failed", zap.String("message", appErrors.UserMessage(err)))
	case outcome.Skipped:
		h.logger.Debug("submission skipped, generation in progress")
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) LoadHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.App.Form.LoadHistoryEntryByID(id); err != nil {
		if errors.Is(err, appErrors.ErrHistoryEntryNotFound) {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *PageHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.App.Form.ClearHistory(); err != nil {
		h.logger.Error("failed to clear history", zap.Error(err))
		http.Error(w, "failed to clear history", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
