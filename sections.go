package goalfolio

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/goalfolio/date"
)

// Section markers of the combined text format.
const (
	InvestmentsMarker = "=== INVESTMENTS ==="
	GoalsMarker       = "=== GOALS ==="
)

// ExportAll writes holdings and goals in a single text stream: each marker
// line is followed by a CSV block, sections are separated by a blank line.
func ExportAll(w io.Writer, holdings []Holding, goals []Goal) error {
	var buf bytes.Buffer
	buf.WriteString(InvestmentsMarker + "\n")
	if err := ExportHoldings(&buf, holdings); err != nil {
		return err
	}
	buf.WriteString("\n" + GoalsMarker + "\n")
	if err := ExportGoals(&buf, goals); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// ImportAll reads a stream written by [ExportAll].
//
// A section ends at a blank line or at the next marker, lines inside a quoted
// CSV field never end it. A missing section imports as a nil list, a section
// without rows as an empty one.
func ImportAll(r io.Reader, currency string, on date.Date) ([]Holding, []Goal, error) {
	sections, err := splitSections(r)
	if err != nil {
		return nil, nil, err
	}
	var holdings []Holding
	var goals []Goal
	if s, ok := sections[InvestmentsMarker]; ok {
		if holdings, err = ImportHoldings(strings.NewReader(s), currency, on); err != nil {
			return nil, nil, fmt.Errorf("investments section: %w", err)
		}
	}
	if s, ok := sections[GoalsMarker]; ok {
		if goals, err = ImportGoals(strings.NewReader(s), currency, on); err != nil {
			return nil, nil, fmt.Errorf("goals section: %w", err)
		}
	}
	return holdings, goals, nil
}

// splitSections returns the CSV text of each section, by marker.
func splitSections(r io.Reader) (map[string]string, error) {
	sections := make(map[string]string)
	var current string // marker of the open section, "" outside sections
	var body strings.Builder
	quoted := false // inside a quoted field spanning lines

	closeSection := func() {
		if current != "" {
			sections[current] = body.String()
		}
		current = ""
		body.Reset()
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if !quoted {
			switch strings.TrimSpace(line) {
			case InvestmentsMarker, GoalsMarker:
				closeSection()
				current = strings.TrimSpace(line)
				if _, dup := sections[current]; dup {
					return nil, &ValidationError{Err: fmt.Errorf("section %s appears twice", current)}
				}
				continue
			case "":
				closeSection()
				continue
			}
		}
		if current != "" {
			body.WriteString(line)
			body.WriteByte('\n')
		}
		// an odd number of quotes toggles the quoted state, "" escapes count twice.
		if strings.Count(line, `"`)%2 == 1 {
			quoted = !quoted
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	closeSection()
	if len(sections) == 0 {
		return nil, &ValidationError{Err: fmt.Errorf("no %s or %s section found", InvestmentsMarker, GoalsMarker)}
	}
	return sections, nil
}
