package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	appErrors "github.com/unclebandit/adcraft/internal/errors"
	"github.com/unclebandit/adcraft/internal/model"
	"github.com/unclebandit/adcraft/internal/service"
)

var genFlags struct {
	product     string
	description string
	audience    string
	platform    string
	tone        string
	cta         string
	creativity  float64
	jsonOut     bool
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate ad copy and add it to the history",
	Long: `Generates 3 headlines, 2 descriptions and 2 calls to action.

Example:
  adcraft generate --product ZenFlow --description "Meditation app" --platform "Google Ads"`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func init() {
	d := model.DefaultParams()
	f := generateCmd.Flags()
	f.StringVarP(&genFlags.product, "product", "p", "", "product name (required)")
	f.StringVarP(&genFlags.description, "description", "d", "", "product description (required)")
	f.StringVarP(&genFlags.audience, "audience", "a", "", "target audience")
	f.StringVar(&genFlags.platform, "platform", string(d.Platform), "one of Google Ads, Facebook, Instagram, LinkedIn, TikTok, Email")
	f.StringVar(&genFlags.tone, "tone", string(d.Tone), "one of Professional, Friendly, Bold, Playful, Luxury, Persuasive")
	f.StringVar(&genFlags.cta, "cta", string(d.CTAStyle), "one of Soft, Direct, Urgent")
	f.Float64Var(&genFlags.creativity, "creativity", d.Creativity, "0.0 (safe) to 1.0 (creative)")
	f.BoolVar(&genFlags.jsonOut, "json", false, "print the result as JSON")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	app, done, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer done()

	fields := []struct{ name, value string }{
		{service.FieldProductName, genFlags.product},
		{service.FieldDescription, genFlags.description},
		{service.FieldTargetAudience, genFlags.audience},
		{service.FieldPlatform, genFlags.platform},
		{service.FieldTone, genFlags.tone},
		{service.FieldCTAStyle, genFlags.cta},
		{service.FieldCreativity, strconv.FormatFloat(genFlags.creativity, 'f', -1, 64)},
	}
	for _, f := range fields {
		if err := app.Form.UpdateField(f.name, f.value); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if !genFlags.jsonOut {
		fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render("Crafting copy..."))
	}
	outcome, err := app.Form.Submit(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), errorStyle.Render(appErrors.UserMessage(err)))
		return err
	}

	if genFlags.jsonOut {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(outcome.Result)
	}
	renderResult(out, outcome.Result)
	return nil
}
