package main

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/unclebandit/adcraft/internal/model"
)

var (
	primary = lipgloss.Color("#4f46e5")
	muted   = lipgloss.Color("#94a3b8")
	danger  = lipgloss.Color("#dc2626")

	titleStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1e293b")).
			Bold(true).
			Underline(true).
			MarginTop(1)

	mutedStyle = lipgloss.NewStyle().
			Foreground(muted)

	ctaStyle = lipgloss.NewStyle().
			Foreground(primary).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(primary).
			Padding(0, 1)
)

func renderResult(w io.Writer, r *model.CampaignResult) {
	fmt.Fprintln(w, titleStyle.Render("Campaign Draft"))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Generated for %s • %s Tone • %s",
		r.Params.Platform, r.Params.Tone, r.CreatedAt().Local().Format("2006-01-02 15:04"))))
	fmt.Fprintln(w, mutedStyle.Render("id "+r.ID))

	renderSection(w, "Headlines / Subject Lines", r.Copy.Headlines, lipgloss.NewStyle())
	renderSection(w, "Ad Descriptions / Body", r.Copy.Descriptions, lipgloss.NewStyle())
	renderSection(w, "Call to Actions", r.Copy.CTAs, ctaStyle)
}

func renderSection(w io.Writer, title string, lines []string, style lipgloss.Style) {
	fmt.Fprintln(w, sectionStyle.Render(title))
	for i, l := range lines {
		count := mutedStyle.Render(fmt.Sprintf("(%d chars)", utf8.RuneCountInString(l)))
		fmt.Fprintf(w, "  %d. %s %s\n", i+1, style.Render(l), count)
	}
}

func renderHistoryLine(w io.Writer, i int, r *model.CampaignResult) {
	desc := strings.ReplaceAll(r.Params.Description, "\n", " ")
	if utf8.RuneCountInString(desc) > 50 {
		desc = string([]rune(desc)[:49]) + "…"
	}
	fmt.Fprintf(w, "%2d  %s  %s  %s  %s\n",
		i+1,
		mutedStyle.Render(r.ID),
		mutedStyle.Render(r.CreatedAt().Local().Format("2006-01-02")),
		badgeStyle.Render(string(r.Params.Platform)),
		r.Params.ProductName+mutedStyle.Render(" "+desc))
}
