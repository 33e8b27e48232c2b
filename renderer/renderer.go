// Package renderer renders goalfolio reports as markdown.
//
// Every report is a struct built from the engines' results (see NewPortfolio,
// NewPerformance, NewGoals...) and rendered by a text/template assembled from
// the embedded *.md partials.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed *.md
var templates embed.FS

// RenderPortfolio renders the valuation of the holdings, and their analytics if any.
func RenderPortfolio(p *Portfolio) string {
	partials := map[string]string{
		"portfolio_title":     "portfolio_title.md",
		"portfolio_totals":    "portfolio_totals.md",
		"portfolio_holdings":  "portfolio_holdings.md",
		"portfolio_analytics": "",
	}
	if p.Analytics != nil {
		partials["portfolio_analytics"] = "portfolio_analytics.md"
	}
	return renderTemplate("portfolio", "portfolio.md", partials, p)
}

// RenderPerformance renders the performance of the holdings since they were added.
func RenderPerformance(p *Performance) string {
	partials := map[string]string{
		"performance_totals":   "performance_totals.md",
		"performance_holdings": "performance_holdings.md",
	}
	return renderTemplate("performance", "performance.md", partials, p)
}

// RenderGoals renders the progress of the goals.
func RenderGoals(g *Goals) string {
	partials := map[string]string{
		"goals_summary":  "goals_summary.md",
		"goals_progress": "goals_progress.md",
	}
	return renderTemplate("goals", "goals.md", partials, g)
}

// RenderHoldings renders the list of holdings as entered, without prices.
func RenderHoldings(l *HoldingList) string {
	return renderTemplate("holdings", "holdings.md", nil, l)
}

// RenderTemplates renders the predefined goals.
func RenderTemplates(l *TemplateList) string {
	return renderTemplate("templates", "templates.md", nil, l)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
