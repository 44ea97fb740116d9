package output

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"github.com/vsinha/shortage/pkg/application/dto"
	"github.com/vsinha/shortage/pkg/domain/entities"
)

//go:embed templates/*.html
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html").Funcs(template.FuncMap{
		"add":      func(a, b int) int { return a + b },
		"qty":      func(q entities.Quantity) string { return q.String() },
		"parts":    PartList,
		"signed":   signed,
		"siteQty":  func(sq entities.SiteQuantities, site string) string { return sq.Get(site).String() },
		"negative": func(q entities.Quantity) bool { return q.IsNegative() },
	}).ParseFS(templateFS, "templates/report.html"),
)

// TemplateData contains all data for rendering the HTML template
type TemplateData struct {
	*dto.ShortageReport
	RunTime     string
	GeneratedAt string
}

// WriteHTML renders a self-contained HTML report. Each group's audit trail
// sits in a collapsed details block.
func WriteHTML(w io.Writer, report *dto.ShortageReport, config Config) error {
	data := &TemplateData{
		ShortageReport: report,
		GeneratedAt:    time.Now().Format("2006-01-02 15:04:05"),
	}
	if config.RunTime > 0 {
		data.RunTime = formatDuration(config.RunTime)
	}

	if err := reportTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// formatDuration formats a duration for display
func formatDuration(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%.0fμs", float64(d.Nanoseconds())/1000)
	}
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000)
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
