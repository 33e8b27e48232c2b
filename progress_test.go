package goalfolio

import (
	"errors"
	"testing"
	"time"

	"github.com/etnz/goalfolio/date"
)

func TestComputeProgress_Scenario(t *testing.T) {
	on := date.New(2025, time.January, 1)
	g := mustGoal(t, "House", 10000, on.Add(400), InvestmentFilter{}, on)
	holdings := []Holding{
		mustHolding(t, "a", Stocks, 100, 20, Medium, on),
		mustHolding(t, "b", Bonds, 500, 2, Low, on),
	}

	p := ComputeProgress(g, holdings, on)

	if !p.Current.Equal(USD(3000)) {
		t.Errorf("Current = %v, want %v", p.Current, USD(3000))
	}
	if !p.Progress.Equal(30) {
		t.Errorf("Progress = %v, want 30%%", p.Progress)
	}
	if !p.Remaining.Equal(USD(7000)) {
		t.Errorf("Remaining = %v, want %v", p.Remaining, USD(7000))
	}
	if p.DaysRemaining != 400 {
		t.Errorf("DaysRemaining = %d, want 400", p.DaysRemaining)
	}
	if !p.MonthlyNeeded.Equal(USD(525)) {
		t.Errorf("MonthlyNeeded = %v, want %v", p.MonthlyNeeded, USD(525))
	}
	if p.OnTrack {
		t.Errorf("OnTrack = true, want false below 50%% on a long horizon")
	}
	if p.Status != StatusBehind {
		t.Errorf("Status = %v, want %v", p.Status, StatusBehind)
	}
}

func TestComputeProgress_Overdue(t *testing.T) {
	on := date.New(2025, time.January, 1)
	g := mustGoal(t, "Late", 10000, on.Add(-10), InvestmentFilter{}, on.Add(-100))
	p := ComputeProgress(g, []Holding{mustHolding(t, "a", Stocks, 10, 10, Low, on)}, on)
	if p.DaysRemaining != 0 {
		t.Errorf("DaysRemaining = %d, want 0", p.DaysRemaining)
	}
	if p.Status != StatusOverdue {
		t.Errorf("Status = %v, want %v", p.Status, StatusOverdue)
	}
	if !p.DailyNeeded.IsZero() || !p.MonthlyNeeded.IsZero() {
		t.Errorf("savings needed = %v, %v, want 0 when overdue", p.DailyNeeded, p.MonthlyNeeded)
	}
}

func TestComputeProgress_Clamping(t *testing.T) {
	on := date.New(2025, time.January, 1)
	g := mustGoal(t, "Small", 1000, on.Add(100), InvestmentFilter{}, on)
	tests := []struct {
		name          string
		holdings      []Holding
		wantProgress  Percent
		wantRemaining Money
		wantStatus    GoalStatus
	}{
		{"empty", nil, 0, USD(1000), StatusBehind},
		{"over funded", []Holding{mustHolding(t, "a", Stocks, 10, 500, Low, on)}, 100, USD(0), StatusComplete},
		{"exact", []Holding{mustHolding(t, "a", Stocks, 10, 100, Low, on)}, 100, USD(0), StatusComplete},
		{"on track", []Holding{mustHolding(t, "a", Stocks, 10, 80, Low, on)}, 80, USD(200), StatusOnTrack},
		{"moderate", []Holding{mustHolding(t, "a", Stocks, 10, 60, Low, on)}, 60, USD(400), StatusModerate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputeProgress(g, tt.holdings, on)
			if p.Progress < 0 || p.Progress > 100 {
				t.Errorf("Progress = %v out of [0, 100]", p.Progress)
			}
			if !p.Progress.Equal(tt.wantProgress) {
				t.Errorf("Progress = %v, want %v", p.Progress, tt.wantProgress)
			}
			if p.Remaining.IsNegative() || !p.Remaining.Equal(tt.wantRemaining) {
				t.Errorf("Remaining = %v, want %v", p.Remaining, tt.wantRemaining)
			}
			if p.Status != tt.wantStatus {
				t.Errorf("Status = %v, want %v", p.Status, tt.wantStatus)
			}
		})
	}
}

func TestComputeProgress_Urgent(t *testing.T) {
	on := date.New(2025, time.January, 1)
	g := mustGoal(t, "Soon", 1000, on.Add(10), InvestmentFilter{}, on)
	p := ComputeProgress(g, []Holding{mustHolding(t, "a", Stocks, 10, 20, Low, on)}, on)
	if p.Status != StatusUrgent {
		t.Errorf("Status = %v, want %v", p.Status, StatusUrgent)
	}
	kinds := map[RecommendationKind]bool{}
	for _, r := range Recommendations(p) {
		kinds[r.Kind] = true
	}
	for _, k := range []RecommendationKind{IncreaseContribution, MonthlySavings, DeadlineApproaching} {
		if !kinds[k] {
			t.Errorf("Recommendations() lacks %q", k)
		}
	}
}

func TestComputeProgress_Filter(t *testing.T) {
	on := date.New(2025, time.January, 1)
	holdings := []Holding{
		mustHolding(t, "Apple Inc. (AAPL)", Stocks, 100, 1, Medium, on),
		mustHolding(t, "Treasury", Bonds, 200, 1, Low, on),
		mustHolding(t, "Junk Bond", Bonds, 400, 1, High, on),
		mustHolding(t, "Bitcoin (BTC)", Cryptocurrency, 800, 1, High, on),
	}
	tests := []struct {
		name   string
		filter InvestmentFilter
		want   Money
	}{
		{"empty matches all", InvestmentFilter{}, USD(1500)},
		{"by class", InvestmentFilter{Classes: []AssetClass{Bonds}}, USD(600)},
		{"class OR", InvestmentFilter{Classes: []AssetClass{Bonds, Stocks}}, USD(700)},
		{"class AND risk", InvestmentFilter{Classes: []AssetClass{Bonds}, Risks: []RiskLevel{Low}}, USD(200)},
		{"by name", InvestmentFilter{Names: []string{"Bitcoin (BTC)"}}, USD(800)},
		{"nothing", InvestmentFilter{Names: []string{"Bitcoin (BTC)"}, Risks: []RiskLevel{Low}}, USD(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := mustGoal(t, "g", 10000, on.Add(30), tt.filter, on)
			p := ComputeProgress(g, holdings, on)
			if !p.Current.Equal(tt.want) {
				t.Errorf("Current = %v, want %v", p.Current, tt.want)
			}
		})
	}
}

func TestComputeProgress_OnTrack(t *testing.T) {
	on := date.New(2025, time.January, 1)
	tests := []struct {
		days     int
		invested float64
		want     bool
	}{
		{400, 500, true},  // 50% far from the deadline
		{400, 490, false}, // 49%
		{365, 790, false}, // 79% within a year
		{365, 800, true},  // 80%
	}
	for _, tt := range tests {
		g := mustGoal(t, "g", 1000, on.Add(tt.days), InvestmentFilter{}, on)
		p := ComputeProgress(g, []Holding{mustHolding(t, "a", Stocks, tt.invested, 1, Low, on)}, on)
		if p.OnTrack != tt.want {
			t.Errorf("OnTrack(%d days, %v%%) = %v, want %v", tt.days, p.Progress, p.OnTrack, tt.want)
		}
	}
}

func TestComputeGoalsProgress(t *testing.T) {
	on := date.New(2025, time.January, 1)
	holdings := []Holding{mustHolding(t, "a", Stocks, 100, 10, Low, on)}
	done := mustGoal(t, "done", 500, on.Add(100), InvestmentFilter{}, on)
	behind := mustGoal(t, "behind", 10000, on.Add(100), InvestmentFilter{}, on)
	inactive := mustGoal(t, "inactive", 10000, on.Add(100), InvestmentFilter{}, on)
	off := false
	inactive, err := inactive.Apply(GoalEdit{Active: &off})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	progress, summary := ComputeGoalsProgress([]Goal{done, behind, inactive}, holdings, on)

	if len(progress) != 2 {
		t.Errorf("len(progress) = %d, want 2", len(progress))
	}
	want := GoalsSummary{Active: 2, Complete: 1, OnTrack: 1, NeedAttention: 1}
	if summary != want {
		t.Errorf("summary = %+v, want %+v", summary, want)
	}
}

func TestRecommendations_Complete(t *testing.T) {
	on := date.New(2025, time.January, 1)
	g := mustGoal(t, "g", 100, on.Add(10), InvestmentFilter{}, on)
	p := ComputeProgress(g, []Holding{mustHolding(t, "a", Stocks, 100, 1, Low, on)}, on)
	recs := Recommendations(p)
	if len(recs) != 1 || recs[0].Kind != Congratulations {
		t.Errorf("Recommendations() = %v, want congratulations only", recs)
	}
}

func TestTemplates(t *testing.T) {
	on := date.New(2025, time.January, 15)
	for _, tpl := range Templates("USD") {
		g, err := tpl.NewGoal(on)
		if err != nil {
			t.Errorf("%s.NewGoal() error = %v", tpl.Name, err)
			continue
		}
		if want := on.AddMonths(tpl.Months); g.TargetDate != want {
			t.Errorf("%s.NewGoal().TargetDate = %v, want %v", tpl.Name, g.TargetDate, want)
		}
	}
	if _, ok := FindTemplate("USD", "emergency fund"); !ok {
		t.Errorf("FindTemplate(%q) not found", "emergency fund")
	}
}

func TestNewGoal_NoCreatedDate(t *testing.T) {
	_, err := NewGoal("House", USD(50000), date.New(2030, time.January, 1), InvestmentFilter{}, "", date.Date{})
	var fe *FieldError
	if !errors.As(err, &fe) || fe.Field != "Created" {
		t.Errorf("NewGoal() error = %v, want Created is required", err)
	}
}
