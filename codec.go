package goalfolio

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/etnz/goalfolio/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// persisted shape of a holding, numbers are accepted as JSON numbers or strings.
type jholding struct {
	ID         string          `json:"id,omitempty"`
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	EntryPrice decimal.Decimal `json:"entry_price"`
	Shares     decimal.Decimal `json:"shares"`
	Amount     decimal.Decimal `json:"amount"`
	Risk       string          `json:"risk_level,omitempty"`
	DateAdded  date.Date       `json:"date_added"`
}

type jgoal struct {
	ID           string           `json:"id,omitempty"`
	Name         string           `json:"name"`
	TargetAmount decimal.Decimal  `json:"target_amount"`
	TargetDate   date.Date        `json:"target_date"`
	Filter       InvestmentFilter `json:"investment_filter"`
	Description  string           `json:"description"`
	Created      date.Date        `json:"created_date"`
	Active       *bool            `json:"is_active,omitempty"`
}

// encodeBlob returns base64(json(v)).
func encodeBlob(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(data), nil
}

// decodeBlob reads a base64(json) blob into v.
func decodeBlob(blob string, v any) error {
	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return fmt.Errorf("invalid base64: %w", err)
	}
	return json.Unmarshal(data, v)
}

// EncodeHoldings encodes holdings as a persisted blob.
func EncodeHoldings(holdings []Holding) (string, error) {
	js := make([]jholding, 0, len(holdings))
	for _, h := range holdings {
		js = append(js, jholding{
			ID:         h.ID.String(),
			Name:       h.Name,
			Type:       string(h.Class),
			EntryPrice: h.EntryPrice.Decimal(),
			Shares:     h.Shares.Decimal(),
			Amount:     h.Amount.Decimal(),
			Risk:       string(h.Risk),
			DateAdded:  h.DateAdded,
		})
	}
	return encodeBlob(js)
}

// DecodeHoldings decodes a blob written by [EncodeHoldings].
//
// Blobs written before holdings had ids are accepted: they get new ids.
// A missing date added defaults to today.
// The amount is always recomputed from the entry price and shares.
func DecodeHoldings(blob, currency string) ([]Holding, error) {
	var js []jholding
	if err := decodeBlob(blob, &js); err != nil {
		return nil, err
	}
	today := date.Today()
	holdings := make([]Holding, 0, len(js))
	seen := make(map[uuid.UUID]bool)
	for i, j := range js {
		id, err := uuid.Parse(j.ID)
		if err != nil || seen[id] {
			id = uuid.New()
		}
		seen[id] = true
		class, err := ParseAssetClass(j.Type)
		if err != nil {
			return nil, fmt.Errorf("holding #%d: %w", i+1, err)
		}
		risk := DefaultRisk
		if j.Risk != "" {
			if risk, err = ParseRiskLevel(j.Risk); err != nil {
				return nil, fmt.Errorf("holding #%d: %w", i+1, err)
			}
		}
		if j.DateAdded.IsZero() {
			j.DateAdded = today
		}
		h, err := newHolding(id, j.Name, class, M(j.EntryPrice, currency), Q(j.Shares), risk, j.DateAdded)
		if err != nil {
			return nil, fmt.Errorf("holding #%d: %w", i+1, err)
		}
		holdings = append(holdings, h)
	}
	return holdings, nil
}

// EncodeGoals encodes goals as a persisted blob.
func EncodeGoals(goals []Goal) (string, error) {
	js := make([]jgoal, 0, len(goals))
	for _, g := range goals {
		active := g.Active
		js = append(js, jgoal{
			ID:           g.ID.String(),
			Name:         g.Name,
			TargetAmount: g.TargetAmount.Decimal(),
			TargetDate:   g.TargetDate,
			Filter:       g.Filter,
			Description:  g.Description,
			Created:      g.Created,
			Active:       &active,
		})
	}
	return encodeBlob(js)
}

// DecodeGoals decodes a blob written by [EncodeGoals]. Goals without a valid id get a new one,
// goals without a created date are created today.
func DecodeGoals(blob, currency string) ([]Goal, error) {
	var js []jgoal
	if err := decodeBlob(blob, &js); err != nil {
		return nil, err
	}
	today := date.Today()
	goals := make([]Goal, 0, len(js))
	seen := make(map[uuid.UUID]bool)
	for i, j := range js {
		id, err := uuid.Parse(j.ID)
		if err != nil || seen[id] {
			id = uuid.New()
		}
		seen[id] = true
		if j.Created.IsZero() {
			j.Created = today
		}
		active := true
		if j.Active != nil {
			active = *j.Active
		}
		g, err := Goal{
			ID:           id,
			Name:         j.Name,
			TargetAmount: M(j.TargetAmount, currency),
			TargetDate:   j.TargetDate,
			Filter:       j.Filter,
			Description:  j.Description,
			Created:      j.Created,
			Active:       active,
		}.checked()
		if err != nil {
			return nil, fmt.Errorf("goal #%d: %w", i+1, err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}
