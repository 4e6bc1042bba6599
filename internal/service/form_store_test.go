package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/generator"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/queue"
	"github.com/unclebandit/adcraft/internal/service"
)

// MockGenerator counts calls and can hold a call open until released.
type MockGenerator struct {
	mu      sync.Mutex
	calls   int
	reply   model.GeneratedCopy
	err     error
	entered chan struct{}
	release chan struct{}
}

func (m *MockGenerator) Generate(ctx context.Context, params model.CampaignParams) (model.GeneratedCopy, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.release != nil {
		<-m.release
	}
	return m.reply, m.err
}

func (m *MockGenerator) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// stubLLM replies with fixed text, for running the real generator client.
type stubLLM struct{ reply string }

func (s stubLLM) Complete(context.Context, generator.Prompt) (string, error) {
	return s.reply, nil
}

var threeTwoTwo = model.GeneratedCopy{
	Headlines:    []string{"Find your calm", "Breathe in focus", "Ten minutes to zen"},
	Descriptions: []string{"Guided sessions for busy days.", "Join a community that breathes together."},
	CTAs:         []string{"Start free", "Join now"},
}

func zenFlowParams() model.CampaignParams {
	return model.CampaignParams{
		ProductName:    "ZenFlow",
		Description:    "Meditation app",
		TargetAudience: "",
		Platform:       model.PlatformFacebook,
		Tone:           model.ToneProfessional,
		CTAStyle:       model.CTADirect,
		Creativity:     0.7,
	}
}

func newApp(t *testing.T, gen generator.CopyGenerator) (*service.App, *MockKVRepo) {
	t.Helper()
	repo := newMockKV()
	app := service.NewApp(gen, repo, nil, nil)
	app.Form.Now = func() time.Time { return time.UnixMilli(1767225600000) }
	return app, repo
}

func TestSubmitSuccess(t *testing.T) {
	gen := &MockGenerator{reply: threeTwoTwo}
	app, repo := newApp(t, gen)
	require.NoError(t, app.Form.SetParams(zenFlowParams()))

	outcome, err := app.Form.Submit(context.Background())
	require.NoError(t, err)
	require.False(t, outcome.Skipped)
	require.NotNil(t, outcome.Result)

	result := app.Form.CurrentResult()
	assert.Same(t, outcome.Result, result)
	assert.Len(t, result.Copy.Headlines, 3)
	assert.Len(t, result.Copy.Descriptions, 2)
	assert.Len(t, result.Copy.CTAs, 2)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, int64(1767225600000), result.Timestamp)
	assert.Equal(t, zenFlowParams(), result.Params)

	entries := app.History.Entries()
	require.Len(t, entries, 1)
	assert.Same(t, result, entries[0])
	assert.Equal(t, 1, gen.Calls())

	_, found := persisted(t, repo)
	assert.True(t, found)
	assert.False(t, app.Form.Busy())
	assert.Empty(t, app.Form.LastError())
}

func TestSubmitSnapshotsParams(t *testing.T) {
	app, _ := newApp(t, &MockGenerator{reply: threeTwoTwo})
	require.NoError(t, app.Form.SetParams(zenFlowParams()))

	outcome, err := app.Form.Submit(context.Background())
	require.NoError(t, err)

	require.NoError(t, app.Form.UpdateField(service.FieldProductName, "Other"))
	assert.Equal(t, "ZenFlow", outcome.Result.Params.ProductName)
}

func TestSubmitNewestFirst(t *testing.T) {
	app, _ := newApp(t, &MockGenerator{reply: threeTwoTwo})
	require.NoError(t, app.Form.SetParams(zenFlowParams()))

	first, err := app.Form.Submit(context.Background())
	require.NoError(t, err)
	second, err := app.Form.Regenerate(context.Background())
	require.NoError(t, err)

	entries := app.History.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, second.Result.ID, entries[0].ID)
	assert.Equal(t, first.Result.ID, entries[1].ID)
	assert.NotEqual(t, first.Result.ID, second.Result.ID)
}

func TestSubmitMissingDescription(t *testing.T) {
	gen := &MockGenerator{reply: threeTwoTwo}
	app, _ := newApp(t, gen)
	params := zenFlowParams()
	params.Description = ""
	require.NoError(t, app.Form.SetParams(params))

	outcome, err := app.Form.Submit(context.Background())
	require.Error(t, err)

	var vErr *appErrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{service.FieldDescription}, vErr.Fields)
	assert.Nil(t, outcome.Result)
	assert.Equal(t, 0, gen.Calls())
	assert.Equal(t, 0, app.History.Len())
	assert.Nil(t, app.Form.CurrentResult())
	assert.Equal(t, vErr.Message, app.Form.LastError())
}

func TestSubmitMissingBothFields(t *testing.T) {
	gen := &MockGenerator{reply: threeTwoTwo}
	app, _ := newApp(t, gen)

	_, err := app.Form.Submit(context.Background())
	var vErr *appErrors.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, []string{service.FieldProductName, service.FieldDescription}, vErr.Fields)
	assert.Equal(t, 0, gen.Calls())
}

func TestSubmitMalformedResponse(t *testing.T) {
	gen := &MockGenerator{reply: threeTwoTwo}
	app, _ := newApp(t, gen)
	require.NoError(t, app.Form.SetParams(zenFlowParams()))

	first, err := app.Form.Submit(context.Background())
	require.NoError(t, err)

	client, err := generator.NewClient(stubLLM{reply: "Sure! Here are some headlines:"})
	require.NoError(t, err)
	app.Form.Generator = client

	outcome, err := app.Form.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrMalformedResponse)
	assert.Equal(t, "malformed response", err.Error())
	assert.Nil(t, outcome.Result)

	assert.Same(t, first.Result, app.Form.CurrentResult(), "current result unchanged")
	assert.Equal(t, 1, app.History.Len(), "history unchanged")
	assert.Contains(t, app.Form.LastError(), "malformed response")
	assert.False(t, app.Form.Busy())
}

func TestSubmitWhileBusyIsSkipped(t *testing.T) {
	gen := &MockGenerator{
		reply:   threeTwoTwo,
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	app, _ := newApp(t, gen)
	require.NoError(t, app.Form.SetParams(zenFlowParams()))

	done := make(chan service.SubmitOutcome)
	go func() {
		outcome, _ := app.Form.Submit(context.Background())
		done <- outcome
	}()
	<-gen.entered
	assert.True(t, app.Form.Busy())

	skipped, err := app.Form.Submit(context.Background())
	require.NoError(t, err, "submitting while busy is not an error")
	assert.True(t, skipped.Skipped)

	// other interactions keep working while busy
	require.NoError(t, app.Form.UpdateField(service.FieldTone, string(model.ToneBold)))
	assert.Empty(t, app.History.Entries())

	close(gen.release)
	outcome := <-done
	require.NotNil(t, outcome.Result)
	assert.Equal(t, 1, gen.Calls())
	assert.False(t, app.Form.Busy())
	assert.Equal(t, model.ToneProfessional, outcome.Result.Params.Tone, "params snapshotted at submit")
}

func TestLoadHistoryEntry(t *testing.T) {
	app, _ := newApp(t, &MockGenerator{reply: threeTwoTwo})
	entry := makeResult(7)
	require.NoError(t, app.History.Record(entry))

	app.Form.LoadHistoryEntry(entry)
	assert.Equal(t, entry.Params, app.Form.Params())
	assert.Same(t, entry, app.Form.CurrentResult())

	loaded, err := app.Form.LoadHistoryEntryByID(entry.ID)
	require.NoError(t, err)
	assert.Same(t, entry, loaded)

	_, err = app.Form.LoadHistoryEntryByID("missing")
	assert.ErrorIs(t, err, appErrors.ErrHistoryEntryNotFound)
}

func TestUpdateField(t *testing.T) {
	app, _ := newApp(t, &MockGenerator{})
	form := app.Form

	assert.Equal(t, model.DefaultParams(), form.Params())

	require.NoError(t, form.UpdateField(service.FieldProductName, "ZenFlow"))
	require.NoError(t, form.UpdateField(service.FieldDescription, "Meditation app"))
	require.NoError(t, form.UpdateField(service.FieldTargetAudience, "Busy professionals"))
	require.NoError(t, form.UpdateField(service.FieldPlatform, "Google Ads"))
	require.NoError(t, form.UpdateField(service.FieldTone, "Luxury"))
	require.NoError(t, form.UpdateField(service.FieldCTAStyle, "Soft"))
	require.NoError(t, form.UpdateField(service.FieldCreativity, "0.34"))

	p := form.Params()
	assert.Equal(t, "ZenFlow", p.ProductName)
	assert.Equal(t, "Busy professionals", p.TargetAudience)
	assert.Equal(t, model.PlatformGoogleAds, p.Platform)
	assert.Equal(t, model.ToneLuxury, p.Tone)
	assert.Equal(t, model.CTASoft, p.CTAStyle)
	assert.InDelta(t, 0.3, p.Creativity, 1e-9)

	require.NoError(t, form.UpdateField(service.FieldCreativity, "7"))
	assert.InDelta(t, 1.0, form.Params().Creativity, 1e-9)
	require.NoError(t, form.UpdateField(service.FieldCreativity, "-1"))
	assert.InDelta(t, 0.0, form.Params().Creativity, 1e-9)

	assert.ErrorIs(t, form.UpdateField("budget", "100"), appErrors.ErrUnknownField)

	var vErr *appErrors.ValidationError
	assert.True(t, errors.As(form.UpdateField(service.FieldPlatform, "MySpace"), &vErr))
	assert.True(t, errors.As(form.UpdateField(service.FieldCreativity, "high"), &vErr))
	assert.Equal(t, model.PlatformGoogleAds, form.Params().Platform, "rejected value leaves field as it was")
}

func TestSetParamsRejectsUnknownEnum(t *testing.T) {
	app, _ := newApp(t, &MockGenerator{})
	params := zenFlowParams()
	params.Tone = "Sarcastic"
	assert.Error(t, app.Form.SetParams(params))
	assert.Equal(t, model.DefaultParams(), app.Form.Params())
}

func TestSubmitHistoryWriteFailureStillShowsResult(t *testing.T) {
	app, repo := newApp(t, &MockGenerator{reply: threeTwoTwo})
	require.NoError(t, app.Form.SetParams(zenFlowParams()))
	repo.failSet = true

	outcome, err := app.Form.Submit(context.Background())
	require.NoError(t, err)
	assert.Same(t, outcome.Result, app.Form.CurrentResult())
	assert.Equal(t, 0, app.History.Len())
}

func TestSubmitPublishesEvent(t *testing.T) {
	q := queue.NewInMemoryQueue(nil)
	var mu sync.Mutex
	var bodies [][]byte
	require.NoError(t, q.Subscribe(queue.TopicCopyGenerated, func(body []byte) error {
		mu.Lock()
		defer mu.Unlock()
		bodies = append(bodies, body)
		return nil
	}))

	app := service.NewApp(&MockGenerator{reply: threeTwoTwo}, newMockKV(), q, nil)
	require.NoError(t, app.Form.SetParams(zenFlowParams()))
	outcome, err := app.Form.Submit(context.Background())
	require.NoError(t, err)
	q.Wait()

	require.Len(t, bodies, 1)
	var event queue.CopyGeneratedEvent
	require.NoError(t, json.Unmarshal(bodies[0], &event))
	assert.Equal(t, outcome.Result.ID, event.Result.ID)
}

func TestStateView(t *testing.T) {
	app, _ := newApp(t, &MockGenerator{reply: threeTwoTwo})
	require.NoError(t, app.Form.SetParams(zenFlowParams()))
	_, err := app.Form.Submit(context.Background())
	require.NoError(t, err)

	state := app.Form.State()
	assert.Equal(t, zenFlowParams(), state.Params)
	assert.NotNil(t, state.CurrentResult)
	assert.Len(t, state.History, 1)
	assert.False(t, state.Busy)
}

// panicGenerator panics on its first call and succeeds afterwards.
type panicGenerator struct {
	MockGenerator
}

func (p *panicGenerator) Generate(ctx context.Context, params model.CampaignParams) (model.GeneratedCopy, error) {
	if p.Calls() == 0 {
		p.mu.Lock()
		p.calls++
		p.mu.Unlock()
		panic("backend exploded")
	}
	return p.MockGenerator.Generate(ctx, params)
}

func TestSubmitRecoversFromGeneratorPanic(t *testing.T) {
	gen := &panicGenerator{MockGenerator{reply: threeTwoTwo}}
	app, _ := newApp(t, gen)
	require.NoError(t, app.Form.SetParams(zenFlowParams()))

	_, err := app.Form.Submit(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrServiceUnavailable)
	assert.False(t, app.Form.Busy())
	assert.NotEmpty(t, app.Form.LastError())
	assert.Nil(t, app.Form.CurrentResult())

	outcome, err := app.Form.Submit(context.Background())
	require.NoError(t, err)
	assert.False(t, outcome.Skipped)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, 2, gen.Calls())
}

// blockingQueue holds every Publish until released.
type blockingQueue struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingQueue) Publish(string, []byte) error {
	b.entered <- struct{}{}
	<-b.release
	return nil
}

func (b *blockingQueue) Subscribe(string, queue.Handler) error { return nil }

func TestSubmitSlowPublishKeepsFormUsable(t *testing.T) {
	q := &blockingQueue{entered: make(chan struct{}), release: make(chan struct{})}
	app := service.NewApp(&MockGenerator{reply: threeTwoTwo}, newMockKV(), q, nil)
	require.NoError(t, app.Form.SetParams(zenFlowParams()))

	done := make(chan error)
	go func() {
		_, err := app.Form.Submit(context.Background())
		done <- err
	}()
	<-q.entered

	state := app.Form.State()
	assert.True(t, state.Busy)
	require.NotNil(t, state.CurrentResult)
	require.NoError(t, app.Form.UpdateField(service.FieldTone, string(model.ToneBold)))
	assert.Equal(t, model.ToneBold, app.Form.Params().Tone)

	close(q.release)
	require.NoError(t, <-done)
	assert.False(t, app.Form.Busy())
}
