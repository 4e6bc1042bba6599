// internal/service/form_store.go
package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/generator"
	"github.com/unclebandit/adcraft/internal/logging"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/queue"
)

// Field names accepted by UpdateField, matching the JSON names of CampaignParams.
const (
	FieldProductName    = "productName"
	FieldDescription    = "description"
	FieldTargetAudience = "targetAudience"
	FieldPlatform       = "platform"
	FieldTone           = "tone"
	FieldCTAStyle       = "ctaStyle"
	FieldCreativity     = "creativity"
)

// SubmitOutcome reports what a submission did. Skipped is set when another
// generation was already in flight; that is not an error.
type SubmitOutcome struct {
	Result  *model.CampaignResult
	Skipped bool
}

// FormState is a point-in-time view for rendering.
type FormState struct {
	Params        model.CampaignParams    `json:"params"`
	CurrentResult *model.CampaignResult   `json:"currentResult"`
	Busy          bool                    `json:"busy"`
	Error         string                  `json:"error,omitempty"`
	History       []*model.CampaignResult `json:"history"`
}

// FormStore holds the live campaign parameters, the displayed result and the
// busy gate. Only one generation runs at a time.
type FormStore struct {
	Generator generator.CopyGenerator
	History   *HistoryStore
	// Events is optional; when set every successful generation is published.
	Events queue.Queue
	Now    func() time.Time
	NewID  func() string

	logger *zap.Logger

	mu        sync.Mutex
	params    model.CampaignParams
	current   *model.CampaignResult
	busy      bool
	lastError string
}

func NewFormStore(gen generator.CopyGenerator, history *HistoryStore, events queue.Queue, logger *zap.Logger) *FormStore {
	return &FormStore{
		Generator: gen,
		History:   history,
		Events:    events,
		Now:       time.Now,
		NewID:     uuid.NewString,
		logger:    logging.OrNop(logger),
		params:    model.DefaultParams(),
	}
}

func (s *FormStore) Params() model.CampaignParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.params
}

func (s *FormStore) CurrentResult() *model.CampaignResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *FormStore) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LastError is the message of the last failed submission, cleared when a new
// one starts.
func (s *FormStore) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

func (s *FormStore) State() FormState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return FormState{
		Params:        s.params,
		CurrentResult: s.current,
		Busy:          s.busy,
		Error:         s.lastError,
		History:       s.History.Entries(),
	}
}

// UpdateField replaces one parameter. Text fields take any value; enum fields
// must name a known member and creativity must parse as a number, which is
// then clamped to [0,1] and rounded to one decimal.
func (s *FormStore) UpdateField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := applyField(s.params, name, value)
	if err != nil {
		return err
	}
	s.params = next
	return nil
}

// SetParams replaces every parameter at once, with the same checks as UpdateField.
func (s *FormStore) SetParams(p model.CampaignParams) error {
	if err := checkEnums(p); err != nil {
		return err
	}
	p.Creativity = normalizeCreativity(p.Creativity)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = p
	return nil
}

func applyField(p model.CampaignParams, name, value string) (model.CampaignParams, error) {
	switch name {
	case FieldProductName:
		p.ProductName = value
	case FieldDescription:
		p.Description = value
	case FieldTargetAudience:
		p.TargetAudience = value
	case FieldPlatform:
		if !model.Platform(value).Valid() {
			return p, appErrors.NewInvalidValue(name, value)
		}
		p.Platform = model.Platform(value)
	case FieldTone:
		if !model.Tone(value).Valid() {
			return p, appErrors.NewInvalidValue(name, value)
		}
		p.Tone = model.Tone(value)
	case FieldCTAStyle:
		if !model.CTAStyle(value).Valid() {
			return p, appErrors.NewInvalidValue(name, value)
		}
		p.CTAStyle = model.CTAStyle(value)
	case FieldCreativity:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil || math.IsNaN(f) {
			return p, appErrors.NewInvalidValue(name, value)
		}
		p.Creativity = normalizeCreativity(f)
	default:
		return p, appErrors.ErrUnknownField
	}
	return p, nil
}

func checkEnums(p model.CampaignParams) error {
	if !p.Platform.Valid() {
		return appErrors.NewInvalidValue(FieldPlatform, string(p.Platform))
	}
	if !p.Tone.Valid() {
		return appErrors.NewInvalidValue(FieldTone, string(p.Tone))
	}
	if !p.CTAStyle.Valid() {
		return appErrors.NewInvalidValue(FieldCTAStyle, string(p.CTAStyle))
	}
	return nil
}

func normalizeCreativity(f float64) float64 {
	if math.IsNaN(f) || f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return math.Round(f*10) / 10
}

// Submit generates copy for the current parameters.
//
// While a generation is in flight it returns Skipped without calling the
// generator. Missing product name or description yields a ValidationError,
// again without calling it. On success the new result becomes current and is
// recorded in the history; on failure the current result is left alone.
func (s *FormStore) Submit(ctx context.Context) (SubmitOutcome, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return SubmitOutcome{Skipped: true}, nil
	}
	params := s.params
	if missing := missingFields(params); len(missing) > 0 {
		err := appErrors.NewMissingFields(missing...)
		s.lastError = err.Error()
		s.mu.Unlock()
		return SubmitOutcome{}, err
	}
	s.busy = true
	s.lastError = ""
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	generated, err := s.generate(ctx, params)
	if err != nil {
		s.mu.Lock()
		s.lastError = appErrors.UserMessage(err)
		s.mu.Unlock()
		var gErr *appErrors.GenerationError
		if errors.As(err, &gErr) {
			s.logger.Warn("generation failed", zap.String("detail", gErr.Detail()))
		} else {
			s.logger.Warn("generation failed", zap.Error(err))
		}
		return SubmitOutcome{}, err
	}

	result := &model.CampaignResult{
		ID:        s.NewID(),
		Timestamp: s.Now().UnixMilli(),
		Params:    params,
		Copy:      generated,
	}
	s.mu.Lock()
	s.current = result
	s.mu.Unlock()

	// busy stays set until recorded so history keeps submit order
	if err := s.History.Record(result); err != nil {
		s.logger.Error("failed to record history", zap.String("result_id", result.ID), zap.Error(err))
	}
	if s.Events != nil {
		if err := queue.PublishCopyGenerated(s.Events, result); err != nil {
			s.logger.Warn("failed to publish copy_generated", zap.String("result_id", result.ID), zap.Error(err))
		}
	}
	s.logger.Info("copy generated",
		zap.String("result_id", result.ID),
		zap.String("platform", string(params.Platform)),
		zap.String("tone", string(params.Tone)))
	return SubmitOutcome{Result: result}, nil
}

// generate calls the generator, reporting a panic as an unavailable service.
func (s *FormStore) generate(ctx context.Context, params model.CampaignParams) (generated model.GeneratedCopy, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("generator panicked", zap.Any("panic", r))
			generated = model.GeneratedCopy{}
			err = appErrors.NewGenerationError(appErrors.ErrServiceUnavailable, fmt.Errorf("generator panic: %v", r))
		}
	}()
	return s.Generator.Generate(ctx, params)
}

// Regenerate submits again with the parameters currently in the form.
func (s *FormStore) Regenerate(ctx context.Context) (SubmitOutcome, error) {
	return s.Submit(ctx)
}

func missingFields(p model.CampaignParams) []string {
	var missing []string
	if p.ProductName == "" {
		missing = append(missing, FieldProductName)
	}
	if p.Description == "" {
		missing = append(missing, FieldDescription)
	}
	return missing
}

// LoadHistoryEntry shows a past result again: its parameters go back into the
// form and it becomes the current result. No generation happens.
func (s *FormStore) LoadHistoryEntry(entry *model.CampaignResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.params = entry.Params
	s.current = entry
}

func (s *FormStore) LoadHistoryEntryByID(id string) (*model.CampaignResult, error) {
	entry, ok := s.History.Get(id)
	if !ok {
		return nil, appErrors.ErrHistoryEntryNotFound
	}
	s.LoadHistoryEntry(entry)
	return entry, nil
}

// ClearHistory empties the history. The displayed result stays on screen.
func (s *FormStore) ClearHistory() error {
	return s.History.Clear()
}
