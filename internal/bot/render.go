package bot

import (
	"fmt"
	"html"
	"strings"

	"github.com/betweenlines/betweenlines/internal/roles"
)

// formatReport renders a report as Telegram HTML.
func formatReport(report *roles.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("<b>%s</b> vs <b>%s</b>\n\n",
		html.EscapeString(report.You), html.EscapeString(report.Them)))

	for _, e := range report.Entries {
		sb.WriteString(fmt.Sprintf("<b>%s</b>: %.1f%% / %.1f%%\n<i>%s</i>\n\n",
			html.EscapeString(e.Name), e.YouPct, e.ThemPct, html.EscapeString(e.Explanation)))
	}

	return strings.TrimRight(sb.String(), "\n")
}
