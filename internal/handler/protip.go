package handler

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"

	"github.com/unclebandit/adcraft/internal/model"
)

const generalTip = "Always focus on the *benefit* to the user rather than just listing features. " +
	"AI suggests these based on your description, but feel free to add a personal touch that matches your brand story."

var platformTips = map[model.Platform]string{
	model.PlatformGoogleAds: "Keep headlines **under 30 characters** and descriptions **under 90**; the counts are shown next to each line.",
	model.PlatformFacebook:  "Lead with the *personal* benefit and speak to the community your product belongs to.",
	model.PlatformInstagram: "Short, high-energy lines with a couple of emojis work best; the visual carries the rest.",
	model.PlatformLinkedIn:  "Write with professional authority and lead with a result your reader can measure.",
	model.PlatformTikTok:    "Hook in the first line. Emojis and energy beat polish here.",
	model.PlatformEmail:     "The headlines double as **subject lines**; test two of them against each other.",
}

func mdToHTML(md string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(md), &buf); err != nil {
		return "", err
	}
	// goldmark omits raw HTML unless WithUnsafe is set, so the output is safe to embed
	return template.HTML(buf.String()), nil
}

// renderProTips renders the tip block for every platform once.
func renderProTips() (map[model.Platform]template.HTML, error) {
	tips := make(map[model.Platform]template.HTML, len(model.Platforms))
	for _, p := range model.Platforms {
		html, err := mdToHTML(generalTip + "\n\n" + platformTips[p])
		if err != nil {
			return nil, fmt.Errorf("render tip for %s: %w", p, err)
		}
		tips[p] = html
	}
	return tips, nil
}
