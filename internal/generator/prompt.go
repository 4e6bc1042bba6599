package generator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/unclebandit/adcraft/internal/model"
)

// temperatureScale widens creativity 0..1 into a broader sampling range.
const temperatureScale = 1.5

// Prompt is what gets sent to the model for one generation.
type Prompt struct {
	Text        string
	Temperature float64
}

// Temperature maps the creativity slider onto a sampling temperature.
func Temperature(creativity float64) float64 {
	return creativity * temperatureScale
}

// BuildPrompt embeds every campaign parameter verbatim together with the
// per-platform formatting rules.
func BuildPrompt(params model.CampaignParams) Prompt {
	var sb strings.Builder
	sb.WriteString("Generate high-converting advertisement copy for the following product/service:\n")
	sb.WriteString(fmt.Sprintf("Name: %s\n", params.ProductName))
	sb.WriteString(fmt.Sprintf("Description: %s\n", params.Description))
	sb.WriteString(fmt.Sprintf("Target Audience: %s\n", params.TargetAudience))
	sb.WriteString(fmt.Sprintf("Platform: %s\n", params.Platform))
	sb.WriteString(fmt.Sprintf("Tone: %s\n", params.Tone))
	sb.WriteString(fmt.Sprintf("CTA Style: %s\n", params.CTAStyle))
	sb.WriteString(fmt.Sprintf("Creativity level (0-1): %s\n", strconv.FormatFloat(params.Creativity, 'f', -1, 64)))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("IMPORTANT CONSTRAINTS FOR %s:\n", strings.ToUpper(string(params.Platform))))
	for _, rule := range platformGuidance {
		sb.WriteString("- ")
		sb.WriteString(rule)
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf(
		"Return exactly %d variations of Headlines, %d variations of Descriptions, and %d variations of Call-to-Actions (CTAs).\n",
		model.HeadlineCount, model.DescriptionCount, model.CTACount,
	))

	return Prompt{
		Text:        sb.String(),
		Temperature: Temperature(params.Creativity),
	}
}

var platformGuidance = []string{
	"Google Ads: Headlines must be under 30 chars, Descriptions under 90 chars.",
	"TikTok/Instagram: Use emojis and high-energy language.",
	"LinkedIn: Maintain professional authority.",
	"Facebook: Focus on community and personal benefit.",
	"Email: Include engaging subject lines (as headlines).",
}
