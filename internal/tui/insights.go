package tui

import (
	"codeberg.org/fleetdesk/console/internal/logger"
	"github.com/charmbracelet/glamour"
)

// renders the insights markdown into the viewport at the current width
func (d *Dashboard) setInsights(markdown string) {
	d.insightsMarkdown = markdown

	width := max(d.insightsView.Width-4, 20)

	if d.renderer == nil || d.rendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle("dark"),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logger.Warn("failed to create markdown renderer", "error", err)
			d.insightsView.SetContent(markdown)
			return
		}

		d.renderer = r
		d.rendererWidth = width
	}

	out, err := d.renderer.Render(markdown)
	if err != nil {
		logger.Warn("failed to render insights", "error", err)
		out = markdown
	}

	d.insightsView.SetContent(out)
	d.insightsView.GotoTop()
}
