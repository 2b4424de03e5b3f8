package insights

import (
	"fmt"
	"strings"
)

var severityLabel = map[string]string{
	SeverityInfo:    "info",
	SeverityWarning: "warning",
	SeverityAction:  "action needed",
}

// formats insights as markdown for the terminal renderer
func Render(insights []Insight, prefs Preferences) string {
	var b strings.Builder

	b.WriteString("# Fleet insights\n\n")

	if !prefs.Enabled {
		b.WriteString("_Insights are turned off. Enable them in preferences._\n")
		return b.String()
	}

	fmt.Fprintf(&b, "_Horizon: %s, tone: %s_\n\n", prefs.Horizon, prefs.Tone)

	if len(insights) == 0 {
		b.WriteString("No insights for the selected focus areas.\n")
		return b.String()
	}

	for _, in := range insights {
		label := severityLabel[in.Severity]
		if label == "" {
			label = in.Severity
		}

		fmt.Fprintf(&b, "## %s\n\n", in.Title)
		fmt.Fprintf(&b, "**%s** · %s\n\n", label, in.Area)
		b.WriteString(in.Summary)
		b.WriteString("\n\n")

		if in.Detail != "" {
			b.WriteString("> ")
			b.WriteString(in.Detail)
			b.WriteString("\n\n")
		}

		for _, s := range in.Suggestions {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		if len(in.Suggestions) > 0 {
			b.WriteString("\n")
		}
	}

	return b.String()
}
