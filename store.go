package goalfolio

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Keys of the persisted blobs.
const (
	HoldingsKey = "portfolio_data"
	GoalsKey    = "investment_goals"
)

// BlobStore is an opaque key-value store of strings.
type BlobStore interface {
	// Get returns the value of key, ok is false when the key was never set.
	Get(key string) (value string, ok bool, err error)
	Put(key, value string) error
}

// Store holds the holdings and goals in memory and persists them in a [BlobStore].
//
// Mutations only change memory, call Save after a successful mutation to persist it.
type Store struct {
	blobs    BlobStore
	currency string
	log      zerolog.Logger
	holdings []Holding
	goals    []Goal
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithCurrency sets the currency of the persisted amounts.
func WithCurrency(currency string) StoreOption {
	return func(s *Store) { s.currency = currency }
}

// WithLogger sets the logger reporting decode failures.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *Store) { s.log = log }
}

// NewStore returns an empty Store backed by blobs, call Load to read it.
func NewStore(blobs BlobStore, opts ...StoreOption) *Store {
	s := &Store{
		blobs:    blobs,
		currency: DefaultCurrency,
		log:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Currency is the currency of the stored amounts.
func (s *Store) Currency() string { return s.currency }

// Load reads holdings and goals from the blob store.
//
// A blob that cannot be decoded is logged and read as an empty list, only
// failures of the blob store itself are returned.
func (s *Store) Load() error {
	holdings, err := load(s, HoldingsKey, DecodeHoldings)
	if err != nil {
		return err
	}
	goals, err := load(s, GoalsKey, DecodeGoals)
	if err != nil {
		return err
	}
	s.holdings, s.goals = holdings, goals
	return nil
}

func load[T any](s *Store, key string, decode func(blob, currency string) ([]T, error)) ([]T, error) {
	blob, ok, err := s.blobs.Get(key)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", key, err)
	}
	if !ok || blob == "" {
		return nil, nil
	}
	records, err := decode(blob, s.currency)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("cannot decode saved data, starting empty")
		return nil, nil
	}
	return records, nil
}

// Save writes holdings and goals to the blob store.
func (s *Store) Save() error {
	blob, err := EncodeHoldings(s.holdings)
	if err != nil {
		return fmt.Errorf("cannot encode holdings: %w", err)
	}
	if err := s.blobs.Put(HoldingsKey, blob); err != nil {
		return fmt.Errorf("cannot write %q: %w", HoldingsKey, err)
	}
	blob, err = EncodeGoals(s.goals)
	if err != nil {
		return fmt.Errorf("cannot encode goals: %w", err)
	}
	if err := s.blobs.Put(GoalsKey, blob); err != nil {
		return fmt.Errorf("cannot write %q: %w", GoalsKey, err)
	}
	return nil
}

// Holdings returns a copy of the holdings.
func (s *Store) Holdings() []Holding { return slices.Clone(s.holdings) }

// Goals returns a copy of the goals.
func (s *Store) Goals() []Goal { return slices.Clone(s.goals) }

// Holding returns the holding with that id.
func (s *Store) Holding(id uuid.UUID) (Holding, error) {
	i := slices.IndexFunc(s.holdings, func(h Holding) bool { return h.ID == id })
	if i < 0 {
		return Holding{}, fmt.Errorf("holding %s: %w", id, ErrNotFound)
	}
	return s.holdings[i], nil
}

// AddHolding appends h, its id must be new.
func (s *Store) AddHolding(h Holding) error {
	if _, err := s.Holding(h.ID); err == nil {
		return fmt.Errorf("holding %s already exists", h.ID)
	}
	if err := validate.Struct(h); err != nil {
		return fmt.Errorf("invalid holding %q: %w", h.Name, validationError(err))
	}
	s.holdings = append(s.holdings, h)
	return nil
}

// UpdateHolding applies an edit to the holding with that id and returns the result.
func (s *Store) UpdateHolding(id uuid.UUID, e HoldingEdit) (Holding, error) {
	i := slices.IndexFunc(s.holdings, func(h Holding) bool { return h.ID == id })
	if i < 0 {
		return Holding{}, fmt.Errorf("holding %s: %w", id, ErrNotFound)
	}
	h, err := s.holdings[i].Apply(e)
	if err != nil {
		return Holding{}, err
	}
	s.holdings[i] = h
	return h, nil
}

// RemoveHolding removes the holding with that id and returns it.
func (s *Store) RemoveHolding(id uuid.UUID) (Holding, error) {
	i := slices.IndexFunc(s.holdings, func(h Holding) bool { return h.ID == id })
	if i < 0 {
		return Holding{}, fmt.Errorf("holding %s: %w", id, ErrNotFound)
	}
	h := s.holdings[i]
	s.holdings = slices.Delete(s.holdings, i, i+1)
	return h, nil
}

// Goal returns the goal with that id.
func (s *Store) Goal(id uuid.UUID) (Goal, error) {
	i := slices.IndexFunc(s.goals, func(g Goal) bool { return g.ID == id })
	if i < 0 {
		return Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	return s.goals[i], nil
}

// AddGoal appends g, its id must be new.
func (s *Store) AddGoal(g Goal) error {
	if _, err := s.Goal(g.ID); err == nil {
		return fmt.Errorf("goal %s already exists", g.ID)
	}
	g, err := g.checked()
	if err != nil {
		return err
	}
	s.goals = append(s.goals, g)
	return nil
}

// UpdateGoal applies an edit to the goal with that id and returns the result.
func (s *Store) UpdateGoal(id uuid.UUID, e GoalEdit) (Goal, error) {
	i := slices.IndexFunc(s.goals, func(g Goal) bool { return g.ID == id })
	if i < 0 {
		return Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	g, err := s.goals[i].Apply(e)
	if err != nil {
		return Goal{}, err
	}
	s.goals[i] = g
	return g, nil
}

// RemoveGoal removes the goal with that id and returns it.
func (s *Store) RemoveGoal(id uuid.UUID) (Goal, error) {
	i := slices.IndexFunc(s.goals, func(g Goal) bool { return g.ID == id })
	if i < 0 {
		return Goal{}, fmt.Errorf("goal %s: %w", id, ErrNotFound)
	}
	g := s.goals[i]
	s.goals = slices.Delete(s.goals, i, i+1)
	return g, nil
}

// ImportHoldings combines incoming holdings with the stored ones and returns
// the number of incoming holdings skipped as duplicates.
func (s *Store) ImportHoldings(incoming []Holding, mode ImportMode) int {
	merged, skipped := ReconcileHoldings(s.holdings, incoming, mode)
	s.holdings = uniqueIDs(merged, func(h *Holding) *uuid.UUID { return &h.ID })
	return skipped
}

// ImportGoals is like ImportHoldings for goals.
func (s *Store) ImportGoals(incoming []Goal, mode ImportMode) int {
	merged, skipped := ReconcileGoals(s.goals, incoming, mode)
	s.goals = uniqueIDs(merged, func(g *Goal) *uuid.UUID { return &g.ID })
	return skipped
}

// uniqueIDs gives a new id to records reusing an id seen earlier in the list.
func uniqueIDs[T any](records []T, id func(*T) *uuid.UUID) []T {
	seen := make(map[uuid.UUID]bool, len(records))
	for i := range records {
		p := id(&records[i])
		if seen[*p] {
			*p = uuid.New()
		}
		seen[*p] = true
	}
	return records
}

// ResolveHolding finds a holding by full id, exact name or unique id prefix.
func (s *Store) ResolveHolding(ref string) (Holding, error) {
	return resolve(s.holdings, ref, "holding", func(h Holding) (uuid.UUID, string) { return h.ID, h.Name })
}

// ResolveGoal finds a goal by full id, exact name or unique id prefix.
func (s *Store) ResolveGoal(ref string) (Goal, error) {
	return resolve(s.goals, ref, "goal", func(g Goal) (uuid.UUID, string) { return g.ID, g.Name })
}

// minPrefix is the shortest id prefix accepted as a reference.
const minPrefix = 4

func resolve[T any](records []T, ref, kind string, key func(T) (uuid.UUID, string)) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("empty %s reference: %w", kind, ErrNotFound)
	}
	if id, err := uuid.Parse(ref); err == nil {
		for _, r := range records {
			if rid, _ := key(r); rid == id {
				return r, nil
			}
		}
		return zero, fmt.Errorf("%s %s: %w", kind, ref, ErrNotFound)
	}

	match := func(f func(id uuid.UUID, name string) bool) (T, int) {
		var found T
		n := 0
		for _, r := range records {
			if f(key(r)) {
				found = r
				n++
			}
		}
		return found, n
	}
	found, n := match(func(_ uuid.UUID, name string) bool { return name == ref })
	if n == 0 && len(ref) >= minPrefix {
		lower := strings.ToLower(ref)
		found, n = match(func(id uuid.UUID, _ string) bool { return strings.HasPrefix(id.String(), lower) })
	}
	switch n {
	case 0:
		return zero, fmt.Errorf("%s %q: %w", kind, ref, ErrNotFound)
	case 1:
		return found, nil
	}
	return zero, fmt.Errorf("%s %q matches %d records: %w", kind, ref, n, ErrAmbiguous)
}
