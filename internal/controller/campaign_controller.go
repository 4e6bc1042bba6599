// internal/controller/campaign_controller.go
package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/logging"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/service"
)

// CampaignController exposes the application state as a JSON API.
type CampaignController struct {
	App *service.App
	// Limiter bounds generation requests; nil means unlimited.
	Limiter *rate.Limiter

	logger *zap.Logger
}

func NewCampaignController(app *service.App, limiter *rate.Limiter, logger *zap.Logger) *CampaignController {
	return &CampaignController{App: app, Limiter: limiter, logger: logging.OrNop(logger)}
}

// Register mounts the API under /api.
func (c *CampaignController) Register(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/state", c.GetState)
		r.Get("/options", c.GetOptions)
		r.Patch("/params", c.UpdateParam)

		r.Group(func(r chi.Router) {
			r.Use(RateLimit(c.Limiter))
			r.Post("/generate", c.Generate)
			r.Post("/regenerate", c.Regenerate)
		})

		r.Get("/history", c.ListHistory)
		r.Delete("/history", c.ClearHistory)
		r.Post("/history/{id}/load", c.LoadHistory)
	})
}

func (c *CampaignController) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.App.Form.State())
}

func (c *CampaignController) GetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"platforms": model.Platforms,
		"tones":     model.Tones,
		"ctaStyles": model.CTAStyles,
		"creativity": map[string]float64{
			"min":  0,
			"max":  1,
			"step": 0.1,
		},
		"historyLimit": model.HistoryLimit,
	})
}

// UpdateParam replaces a single field. value may be a JSON string or, for
// creativity, a number.
func (c *CampaignController) UpdateParam(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Field string          `json:"field"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if len(body.Value) == 0 || string(body.Value) == "null" {
		writeError(w, http.StatusBadRequest, "value is required")
		return
	}

	var value string
	if err := json.Unmarshal(body.Value, &value); err != nil {
		value = string(body.Value)
	}

	if err := c.App.Form.UpdateField(body.Field, value); err != nil {
		c.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.App.Form.Params())
}

// Generate submits the form. An optional CampaignParams body is merged over
// the current parameters first; fields it omits keep their value.
func (c *CampaignController) Generate(w http.ResponseWriter, r *http.Request) {
	params := c.App.Form.Params()
	err := json.NewDecoder(r.Body).Decode(&params)
	switch {
	case errors.Is(err, io.EOF):
	case err != nil:
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	default:
		if err := c.App.Form.SetParams(params); err != nil {
			c.respondError(w, err)
			return
		}
	}
	c.submit(w, r)
}

// Regenerate submits again with the parameters already in the form.
func (c *CampaignController) Regenerate(w http.ResponseWriter, r *http.Request) {
	c.submit(w, r)
}

func (c *CampaignController) submit(w http.ResponseWriter, r *http.Request) {
	outcome, err := c.App.Form.Submit(r.Context())
	if err != nil {
		c.respondError(w, err)
		return
	}
	if outcome.Skipped {
		writeError(w, http.StatusConflict, "a generation is already in progress")
		return
	}
	writeJSON(w, http.StatusOK, outcome.Result)
}

func (c *CampaignController) ListHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.App.History.Entries())
}

func (c *CampaignController) ClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := c.App.Form.ClearHistory(); err != nil {
		c.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (c *CampaignController) LoadHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := c.App.Form.LoadHistoryEntryByID(id); err != nil {
		c.respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c.App.Form.State())
}

// respondError maps application errors onto status codes.
func (c *CampaignController) respondError(w http.ResponseWriter, err error) {
	var vErr *appErrors.ValidationError
	var gErr *appErrors.GenerationError
	switch {
	case errors.As(err, &vErr):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error":  vErr.Message,
			"fields": vErr.Fields,
		})
	case errors.Is(err, appErrors.ErrUnknownField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErrors.ErrHistoryEntryNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &gErr):
		writeError(w, http.StatusBadGateway, appErrors.UserMessage(err))
	default:
		c.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, appErrors.UserMessage(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
