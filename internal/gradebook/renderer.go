package gradebook

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/labstack/echo/v4"
)

const TemplateName = "gradebook.html"

//go:embed templates/*.html
var templateFS embed.FS

var legendColors = []string{"green", "Chocolate"}

const (
	legendRestColor = "DarkSlateGray"
	legendFailColor = "DimGray"
	legendNoneColor = "LightGray"
)

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New(TemplateName).
		Funcs(template.FuncMap{"percent": formatPercent}).
		ParseFS(templateFS, "templates/"+TemplateName)
	if err != nil {
		return nil, fmt.Errorf("failed to parse gradebook template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

func MustNewRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

type view struct {
	*Page
	Legend template.CSS
}

// Render writes the gradebook page as HTML. Equal pages render to equal bytes.
func (r *Renderer) Render(w io.Writer, page *Page) error {
	return r.tmpl.ExecuteTemplate(w, TemplateName, view{Page: page, Legend: Legend(page.Cutoffs)})
}

// Legend is the stylesheet with one rule per cutoff label, ordered by
// descending threshold, followed by the F and None rules.
func Legend(cutoffs []domain.Cutoff) template.CSS {
	var b strings.Builder
	for i, c := range cutoffs {
		color := legendRestColor
		if i < len(legendColors) {
			color = legendColors[i]
		}
		writeRule(&b, c.Label, color)
	}
	writeRule(&b, string(domain.StateFail), legendFailColor)
	writeRule(&b, string(domain.StateNone), legendNoneColor)
	// cutoff labels are validated identifiers, so the rules are safe CSS
	return template.CSS(b.String())
}

func writeRule(b *strings.Builder, label, color string) {
	fmt.Fprintf(b, ".grade_%s {color:%s;}\n", label, color)
}

func formatPercent(fraction float64) string {
	return fmt.Sprintf("%.0f", 100*fraction)
}

// EchoRenderer adapts Renderer to echo.Renderer. data must be a *Page.
type EchoRenderer struct {
	*Renderer
}

func (r EchoRenderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	page, ok := data.(*Page)
	if !ok || name != TemplateName {
		return fmt.Errorf("gradebook renderer cannot render %q with %T", name, data)
	}
	return r.Renderer.Render(w, page)
}
