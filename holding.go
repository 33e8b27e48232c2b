package goalfolio

import (
	"fmt"
	"strings"

	"github.com/etnz/goalfolio/date"
	"github.com/google/uuid"
)

// AssetClass is the kind of investment a holding is.
type AssetClass string

const (
	Stocks         AssetClass = "Stocks"
	Bonds          AssetClass = "Bonds"
	RealEstate     AssetClass = "Real Estate"
	Cryptocurrency AssetClass = "Cryptocurrency"
)

// AssetClasses lists every known asset class in display order.
var AssetClasses = []AssetClass{Stocks, Bonds, RealEstate, Cryptocurrency}

// Valid reports whether c is a known asset class.
func (c AssetClass) Valid() bool {
	for _, k := range AssetClasses {
		if c == k {
			return true
		}
	}
	return false
}

// ParseAssetClass parses an asset class, ignoring case and spaces ("realestate", "crypto" are accepted).
func ParseAssetClass(s string) (AssetClass, error) {
	key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	switch key {
	case "stocks", "stock":
		return Stocks, nil
	case "bonds", "bond":
		return Bonds, nil
	case "realestate":
		return RealEstate, nil
	case "cryptocurrency", "crypto":
		return Cryptocurrency, nil
	}
	return "", fmt.Errorf("unknown investment type %q, want one of %v", s, AssetClasses)
}

// RiskLevel is the risk a user attaches to a holding.
type RiskLevel string

const (
	Low    RiskLevel = "Low"
	Medium RiskLevel = "Medium"
	High   RiskLevel = "High"
)

// RiskLevels lists every risk level from lowest to highest.
var RiskLevels = []RiskLevel{Low, Medium, High}

// DefaultRisk is the risk level of imported rows that do not state one.
const DefaultRisk = Medium

func (r RiskLevel) Valid() bool { return r == Low || r == Medium || r == High }

// ParseRiskLevel parses a risk level, case insensitive.
func ParseRiskLevel(s string) (RiskLevel, error) {
	for _, r := range RiskLevels {
		if strings.EqualFold(strings.TrimSpace(s), string(r)) {
			return r, nil
		}
	}
	return "", fmt.Errorf("unknown risk level %q, want one of %v", s, RiskLevels)
}

// Holding is a single investment position.
//
// Amount is always EntryPrice × Shares: it is computed by [NewHolding] and
// recomputed by [Holding.Apply], the only ways to build or change a Holding.
type Holding struct {
	ID         uuid.UUID  `validate:"required"`
	Name       string     `validate:"required"`
	Class      AssetClass `validate:"assetclass"`
	EntryPrice Money      `validate:"gte=0"`
	Shares     Quantity   `validate:"gte=0"`
	Amount     Money
	Risk       RiskLevel `validate:"risk"`
	DateAdded  date.Date
}

// NewHolding creates a validated holding with a fresh id.
func NewHolding(name string, class AssetClass, entryPrice Money, shares Quantity, risk RiskLevel, on date.Date) (Holding, error) {
	return newHolding(uuid.New(), name, class, entryPrice, shares, risk, on)
}

func newHolding(id uuid.UUID, name string, class AssetClass, entryPrice Money, shares Quantity, risk RiskLevel, on date.Date) (Holding, error) {
	h := Holding{
		ID:         id,
		Name:       strings.TrimSpace(name),
		Class:      class,
		EntryPrice: entryPrice,
		Shares:     shares,
		Amount:     entryPrice.Mul(shares),
		Risk:       risk,
		DateAdded:  on,
	}
	if err := validate.Struct(h); err != nil {
		return Holding{}, fmt.Errorf("invalid holding %q: %w", h.Name, validationError(err))
	}
	if h.DateAdded.IsZero() {
		return Holding{}, fmt.Errorf("invalid holding %q: %w", h.Name, &FieldError{Field: "DateAdded", Tag: "required"})
	}
	return h, nil
}

// HoldingEdit lists the fields to change on a holding, nil fields are left untouched.
type HoldingEdit struct {
	Name       *string
	Class      *AssetClass
	EntryPrice *Money
	Shares     *Quantity
	Risk       *RiskLevel
	DateAdded  *date.Date
}

// Apply returns a copy of h with the edit applied and the amount recomputed.
// h is unchanged if the edited holding is invalid.
func (h Holding) Apply(e HoldingEdit) (Holding, error) {
	n := h
	if e.Name != nil {
		n.Name = *e.Name
	}
	if e.Class != nil {
		n.Class = *e.Class
	}
	if e.EntryPrice != nil {
		n.EntryPrice = *e.EntryPrice
	}
	if e.Shares != nil {
		n.Shares = *e.Shares
	}
	if e.Risk != nil {
		n.Risk = *e.Risk
	}
	if e.DateAdded != nil {
		n.DateAdded = *e.DateAdded
	}
	return newHolding(n.ID, n.Name, n.Class, n.EntryPrice, n.Shares, n.Risk, n.DateAdded)
}

// Equal reports whether h and o hold the same values.
func (h Holding) Equal(o Holding) bool {
	return h.ID == o.ID &&
		h.Name == o.Name &&
		h.Class == o.Class &&
		h.EntryPrice.Equal(o.EntryPrice) &&
		h.Shares.Equal(o.Shares) &&
		h.Amount.Equal(o.Amount) &&
		h.Risk == o.Risk &&
		h.DateAdded == o.DateAdded
}
