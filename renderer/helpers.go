package renderer

import (
	"strings"
	"text/template"

	"github.com/etnz/goalfolio"
	"github.com/google/uuid"
)

// ShortIDLength is the number of id characters displayed, enough to designate a record.
const ShortIDLength = 8

// barWidth is the number of blocks of a progress bar.
const barWidth = 20

var funcs = template.FuncMap{
	"cell": cell,
	"bar":  bar,
}

// ShortID returns the displayed prefix of an id.
func ShortID(id uuid.UUID) string {
	return id.String()[:ShortIDLength]
}

// cell escapes s for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

// bar draws a progress in [0, 100] as a text bar, like "██████░░░░".
func bar(p goalfolio.Percent) string {
	n := int(float64(p.Clamp(0, 100)) / 100 * barWidth)
	return strings.Repeat("█", n) + strings.Repeat("░", barWidth-n)
}
