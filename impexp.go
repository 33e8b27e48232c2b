package goalfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/etnz/goalfolio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// this file contains the CSV import/export formats of holdings and goals.
// Files remain editable in any spreadsheet, the ID column is optional.

// Holding columns.
const (
	ColInvestmentName = "Investment Name"
	ColInvestmentType = "Investment Type"
	ColEntryPrice     = "Entry Price"
	ColShares         = "Shares/Units"
	ColTotalAmount    = "Total Amount"
	ColRiskLevel      = "Risk Level"
	ColDateAdded      = "Date Added"
	ColID             = "ID"
)

// Goal columns.
const (
	ColGoalName         = "Goal Name"
	ColTargetAmount     = "Target Amount"
	ColTargetDate       = "Target Date"
	ColDescription      = "Description"
	ColInvestmentFilter = "Investment Filter"
	ColIsActive         = "Is Active"
	ColCreatedDate      = "Created Date"
)

var (
	holdingColumns  = []string{ColInvestmentName, ColInvestmentType, ColEntryPrice, ColShares, ColTotalAmount, ColRiskLevel, ColDateAdded, ColID}
	holdingRequired = holdingColumns[:5]
	goalColumns     = []string{ColGoalName, ColTargetAmount, ColTargetDate, ColDescription, ColInvestmentFilter, ColIsActive, ColCreatedDate, ColID}
	goalRequired    = goalColumns[:3]
)

// holding struct fields to their column, to report validation failures.
var holdingFieldColumns = map[string]string{
	"Name":       ColInvestmentName,
	"Class":      ColInvestmentType,
	"EntryPrice": ColEntryPrice,
	"Shares":     ColShares,
	"Risk":       ColRiskLevel,
}

var goalFieldColumns = map[string]string{
	"Name":         ColGoalName,
	"TargetAmount": ColTargetAmount,
	"TargetDate":   ColTargetDate,
}

// amountTolerance is how far Total Amount may be from Entry Price × Shares/Units:
// the larger of one cent and half a percent.
var (
	amountToleranceAbs = decimal.New(1, -2)
	amountToleranceRel = decimal.New(5, -3)
)

// ExportHoldings writes holdings as CSV.
func ExportHoldings(w io.Writer, holdings []Holding) error {
	return writeRecords(w, holdingColumns, holdingRecords(holdings))
}

func holdingRecords(holdings []Holding) [][]string {
	records := make([][]string, 0, len(holdings))
	for _, h := range holdings {
		records = append(records, []string{
			h.Name,
			string(h.Class),
			h.EntryPrice.Decimal().String(),
			h.Shares.String(),
			h.Amount.Decimal().String(),
			string(h.Risk),
			h.DateAdded.String(),
			h.ID.String(),
		})
	}
	return records
}

// ImportHoldings reads holdings written by [ExportHoldings] or by hand.
//
// Risk Level defaults to Medium, Date Added to 'on' and a missing ID to a new one.
// Amounts are in 'currency'. The first invalid row aborts the import with a
// *ValidationError and no holding is returned.
func ImportHoldings(r io.Reader, currency string, on date.Date) ([]Holding, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	return holdingsFromRecords(records, currency, on)
}

func holdingsFromRecords(records [][]string, currency string, on date.Date) ([]Holding, error) {
	t, err := newTable(records, holdingRequired)
	if err != nil {
		return nil, err
	}
	holdings := []Holding{}
	ids := make(map[uuid.UUID]bool)
	err = t.each(func(row []string) error {
		h, err := t.holding(row, currency, on)
		if err != nil {
			return err
		}
		if ids[h.ID] {
			return cellError(ColID, fmt.Errorf("duplicate id %s", h.ID))
		}
		ids[h.ID] = true
		holdings = append(holdings, h)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return holdings, nil
}

// holding parses one data row.
func (t *table) holding(row []string, currency string, on date.Date) (Holding, error) {
	name := t.cell(row, ColInvestmentName)
	class, err := ParseAssetClass(t.cell(row, ColInvestmentType))
	if err != nil {
		return Holding{}, cellError(ColInvestmentType, err)
	}
	price, err := ParseMoney(t.cell(row, ColEntryPrice), currency)
	if err != nil {
		return Holding{}, cellError(ColEntryPrice, err)
	}
	shares, err := ParseQuantity(t.cell(row, ColShares))
	if err != nil {
		return Holding{}, cellError(ColShares, err)
	}
	total, err := ParseMoney(t.cell(row, ColTotalAmount), currency)
	if err != nil {
		return Holding{}, cellError(ColTotalAmount, err)
	}
	if err := checkAmount(price, shares, total); err != nil {
		return Holding{}, cellError(ColTotalAmount, err)
	}

	risk := DefaultRisk
	if v := t.cell(row, ColRiskLevel); v != "" {
		if risk, err = ParseRiskLevel(v); err != nil {
			return Holding{}, cellError(ColRiskLevel, err)
		}
	}
	added := on
	if v := t.cell(row, ColDateAdded); v != "" {
		if added, err = date.Parse(v); err != nil {
			return Holding{}, cellError(ColDateAdded, err)
		}
	}
	id, err := parseID(t.cell(row, ColID))
	if err != nil {
		return Holding{}, cellError(ColID, err)
	}

	h, err := newHolding(id, name, class, price, shares, risk, added)
	if err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			return Holding{}, cellError(holdingFieldColumns[fe.Field], fe)
		}
		return Holding{}, err
	}
	return h, nil
}

// checkAmount verifies that total agrees with price × shares.
func checkAmount(price Money, shares Quantity, total Money) error {
	computed := price.Mul(shares).Decimal()
	diff := total.Decimal().Sub(computed).Abs()
	tolerance := decimal.Max(amountToleranceAbs, computed.Abs().Mul(amountToleranceRel))
	if diff.GreaterThan(tolerance) {
		return fmt.Errorf("%s does not match %s × %s = %s", total.Decimal(), price.Decimal(), shares, computed)
	}
	return nil
}

// parseID parses an id, an empty one is a new id.
func parseID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.New(), nil
	}
	return uuid.Parse(s)
}

// ExportGoals writes goals as CSV, the filter is a JSON object.
func ExportGoals(w io.Writer, goals []Goal) error {
	records, err := goalRecords(goals)
	if err != nil {
		return err
	}
	return writeRecords(w, goalColumns, records)
}

func goalRecords(goals []Goal) ([][]string, error) {
	records := make([][]string, 0, len(goals))
	for _, g := range goals {
		filter, err := json.Marshal(g.Filter)
		if err != nil {
			return nil, fmt.Errorf("cannot encode filter of goal %q: %w", g.Name, err)
		}
		records = append(records, []string{
			g.Name,
			g.TargetAmount.Decimal().String(),
			g.TargetDate.String(),
			g.Description,
			string(filter),
			strconv.FormatBool(g.Active),
			g.Created.String(),
			g.ID.String(),
		})
	}
	return records, nil
}

// ImportGoals reads goals written by [ExportGoals] or by hand.
//
// Is Active defaults to true, Created Date to 'on', the filter to everything.
func ImportGoals(r io.Reader, currency string, on date.Date) ([]Goal, error) {
	records, err := readRecords(r)
	if err != nil {
		return nil, err
	}
	return goalsFromRecords(records, currency, on)
}

func goalsFromRecords(records [][]string, currency string, on date.Date) ([]Goal, error) {
	t, err := newTable(records, goalRequired)
	if err != nil {
		return nil, err
	}
	goals := []Goal{}
	ids := make(map[uuid.UUID]bool)
	err = t.each(func(row []string) error {
		g, err := t.goal(row, currency, on)
		if err != nil {
			return err
		}
		if ids[g.ID] {
			return cellError(ColID, fmt.Errorf("duplicate id %s", g.ID))
		}
		ids[g.ID] = true
		goals = append(goals, g)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return goals, nil
}

func (t *table) goal(row []string, currency string, on date.Date) (Goal, error) {
	target, err := ParseMoney(t.cell(row, ColTargetAmount), currency)
	if err != nil {
		return Goal{}, cellError(ColTargetAmount, err)
	}
	due, err := date.Parse(t.cell(row, ColTargetDate))
	if err != nil {
		return Goal{}, cellError(ColTargetDate, err)
	}
	var filter InvestmentFilter
	if v := t.cell(row, ColInvestmentFilter); v != "" {
		if err := json.Unmarshal([]byte(v), &filter); err != nil {
			return Goal{}, cellError(ColInvestmentFilter, fmt.Errorf("invalid filter %q: %w", v, err))
		}
	}
	active := true
	if v := t.cell(row, ColIsActive); v != "" {
		if active, err = parseBool(v); err != nil {
			return Goal{}, cellError(ColIsActive, err)
		}
	}
	created := on
	if v := t.cell(row, ColCreatedDate); v != "" {
		if created, err = date.Parse(v); err != nil {
			return Goal{}, cellError(ColCreatedDate, err)
		}
	}
	id, err := parseID(t.cell(row, ColID))
	if err != nil {
		return Goal{}, cellError(ColID, err)
	}

	g := Goal{
		ID:           id,
		Name:         t.cell(row, ColGoalName),
		TargetAmount: target,
		TargetDate:   due,
		Filter:       filter,
		Description:  t.cell(row, ColDescription),
		Created:      created,
		Active:       active,
	}
	g, err = g.checked()
	if err != nil {
		var fe *FieldError
		if errors.As(err, &fe) {
			return Goal{}, cellError(goalFieldColumns[fe.Field], fe)
		}
		return Goal{}, cellError(ColInvestmentFilter, err)
	}
	return g, nil
}

// parseBool accepts true/false, yes/no and 1/0 in any case.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y", "1":
		return true, nil
	case "false", "no", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", s)
}

// ValidateHoldings checks that r would import without error.
func ValidateHoldings(r io.Reader) error {
	_, err := ImportHoldings(r, DefaultCurrency, date.Today())
	return err
}

// ValidateGoals checks that r would import without error.
func ValidateGoals(r io.Reader) error {
	_, err := ImportGoals(r, DefaultCurrency, date.Today())
	return err
}

// SampleHoldingsCSV is a template to start a holdings file from.
const SampleHoldingsCSV = `Investment Name,Investment Type,Entry Price,Shares/Units,Total Amount,Risk Level,Date Added
Apple Inc. (AAPL),Stocks,150.00,10,1500.00,Medium,2024-01-15
Bitcoin (BTC),Cryptocurrency,45000.00,0.1,4500.00,High,2024-02-01
`
