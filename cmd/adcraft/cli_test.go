package main

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/generator"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/repository"
	"github.com/unclebandit/adcraft/internal/service"
)

func useTestApp(t *testing.T) *service.App {
	t.Helper()
	client, err := generator.NewClient(generator.MockLLM{})
	require.NoError(t, err)
	app := service.NewApp(client, repository.NewMemoryKVRepository(), nil, nil)

	openApp = func(context.Context) (*service.App, func(), error) {
		return app, func() {}, nil
	}
	t.Cleanup(func() { openApp = openConfiguredApp })

	// flag values live in package globals and survive between executions
	d := model.DefaultParams()
	genFlags.product, genFlags.description, genFlags.audience = "", "", ""
	genFlags.platform, genFlags.tone, genFlags.cta = string(d.Platform), string(d.Tone), string(d.CTAStyle)
	genFlags.creativity, genFlags.jsonOut = d.Creativity, false
	return app
}

func execute(args ...string) (string, error) {
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateCmd(t *testing.T) {
	app := useTestApp(t)

	out, err := execute("generate", "--product", "ZenFlow", "--description", "Meditation app", "--platform", "Email", "--creativity", "0.3")
	require.NoError(t, err)
	assert.Contains(t, out, "Campaign Draft")
	assert.Contains(t, out, "Meet ZenFlow")
	assert.Contains(t, out, "(12 chars)")
	assert.Contains(t, out, "Call to Actions")

	entries := app.History.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, model.PlatformEmail, entries[0].Params.Platform)
	assert.InDelta(t, 0.3, entries[0].Params.Creativity, 1e-9)
}

func TestGenerateCmdJSON(t *testing.T) {
	useTestApp(t)

	out, err := execute("generate", "-p", "ZenFlow", "-d", "Meditation app", "--json")
	require.NoError(t, err)

	var result model.CampaignResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "ZenFlow", result.Params.ProductName)
	assert.Equal(t, model.PlatformFacebook, result.Params.Platform)
	assert.Len(t, result.Copy.Headlines, model.HeadlineCount)
}

func TestGenerateCmdValidation(t *testing.T) {
	app := useTestApp(t)

	_, err := execute("generate", "--product", "ZenFlow")
	var vErr *appErrors.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, 0, app.History.Len())

	_, err = execute("generate", "-p", "ZenFlow", "-d", "x", "--tone", "Sarcastic")
	require.ErrorAs(t, err, &vErr)
}

func TestHistoryCmds(t *testing.T) {
	app := useTestApp(t)

	out, err := execute("history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No generations yet")

	_, err = execute("generate", "-p", "ZenFlow", "-d", "Meditation app")
	require.NoError(t, err)
	id := app.History.Entries()[0].ID

	out, err = execute("history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, id)
	assert.Contains(t, out, "ZenFlow")

	out, err = execute("history", "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Why everyone talks about ZenFlow")

	_, err = execute("history", "show", "missing")
	assert.ErrorIs(t, err, appErrors.ErrHistoryEntryNotFound)

	out, err = execute("history", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 1 generations.")
	assert.Equal(t, 0, app.History.Len())
}

func TestCopyCmd(t *testing.T) {
	app := useTestApp(t)
	var copied string
	clipboardWriteAll = func(text string) error {
		copied = text
		return nil
	}
	t.Cleanup(func() { clipboardWriteAll = defaultClipboardWriteAll })

	_, err := execute("generate", "-p", "ZenFlow", "-d", "Meditation app")
	require.NoError(t, err)
	entry := app.History.Entries()[0]

	out, err := execute("copy", entry.ID, "headline", "2")
	require.NoError(t, err)
	assert.Equal(t, entry.Copy.Headlines[1], copied)
	assert.Contains(t, out, "Copied: "+copied)

	_, err = execute("copy", entry.ID, "cta", "1")
	require.NoError(t, err)
	assert.Equal(t, entry.Copy.CTAs[0], copied)

	_, err = execute("copy", entry.ID, "description", "3")
	assert.Error(t, err)
	_, err = execute("copy", entry.ID, "slogan", "1")
	assert.Error(t, err)
	_, err = execute("copy", "missing", "cta", "1")
	assert.ErrorIs(t, err, appErrors.ErrHistoryEntryNotFound)
}

func TestOpenConfiguredApp(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("AI_PROVIDER", "mock")
	cfgPath = filepath.Join(t.TempDir(), "missing.yaml")
	t.Cleanup(func() { cfgPath = "config.yaml" })

	app, done, err := openConfiguredApp(context.Background())
	require.NoError(t, err)
	defer done()

	require.NoError(t, app.Form.UpdateField(service.FieldProductName, "ZenFlow"))
	require.NoError(t, app.Form.UpdateField(service.FieldDescription, "Meditation app"))
	outcome, err := app.Form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Meet ZenFlow", outcome.Result.Copy.Headlines[0])
}
