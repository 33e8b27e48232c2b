package goalfolio

import (
	"fmt"

	"github.com/etnz/goalfolio/date"
	"github.com/shopspring/decimal"
)

// Product heuristics used to classify goals, they are not financial models.
const (
	// a goal due in more than LongHorizonDays is on track from LongHorizonProgress,
	// otherwise from ShortHorizonProgress.
	LongHorizonDays      = 365
	LongHorizonProgress  = Percent(50)
	ShortHorizonProgress = Percent(80)

	OnTrackProgress   = Percent(75) // status On Track from this progress
	ModerateProgress  = Percent(50) // status Moderate from this progress
	UrgentDays        = 30          // status Urgent below this many days left
	AttentionProgress = Percent(50) // goals below need attention

	LowProgress      = Percent(25) // recommend contributing more below this
	DeadlineProgress = Percent(90) // warn about the deadline below this

	DaysPerMonth = 30
)

// GoalStatus classifies a goal's progress.
type GoalStatus string

const (
	StatusComplete GoalStatus = "Complete"
	StatusOverdue  GoalStatus = "Overdue"
	StatusOnTrack  GoalStatus = "On Track"
	StatusUrgent   GoalStatus = "Urgent"
	StatusModerate GoalStatus = "Moderate"
	StatusBehind   GoalStatus = "Behind"
)

// GoalProgress is how far a goal is from its target.
//
// Current counts the invested amount of the selected holdings, not their
// market value: goals track contributions.
type GoalProgress struct {
	Goal          Goal
	Holdings      []Holding // selected by the goal's filter
	Current       Money
	Progress      Percent // in [0, 100]
	Remaining     Money   // never negative
	DaysRemaining int     // never negative, 0 when overdue
	DailyNeeded   Money
	MonthlyNeeded Money
	OnTrack       bool
	Status        GoalStatus
}

// ComputeProgress computes the progress of goal g, as of 'on'.
func ComputeProgress(g Goal, holdings []Holding, on date.Date) GoalProgress {
	cur := g.TargetAmount.Currency()
	p := GoalProgress{
		Goal:     g,
		Holdings: g.Filter.Select(holdings),
		Current:  M(0, cur),
	}
	for _, h := range p.Holdings {
		p.Current = p.Current.Add(h.Amount)
	}

	if g.TargetAmount.IsPositive() {
		p.Progress = p.Current.Percent(g.TargetAmount).Clamp(0, 100)
	} else {
		p.Progress = 100
	}
	p.Remaining = g.TargetAmount.Sub(p.Current).Max(M(0, cur))

	p.DaysRemaining = max(g.TargetDate.Sub(on), 0)
	p.DailyNeeded = M(0, cur)
	if p.DaysRemaining > 0 {
		p.DailyNeeded = M(p.Remaining.Decimal().Div(decimal.NewFromInt(int64(p.DaysRemaining))), cur)
	}
	p.MonthlyNeeded = p.DailyNeeded.Mul(Q(DaysPerMonth))

	if p.DaysRemaining > LongHorizonDays {
		p.OnTrack = p.Progress >= LongHorizonProgress
	} else {
		p.OnTrack = p.Progress >= ShortHorizonProgress
	}
	p.Status = classify(p)
	return p
}

func classify(p GoalProgress) GoalStatus {
	switch {
	case p.Progress >= 100:
		return StatusComplete
	case p.DaysRemaining == 0:
		return StatusOverdue
	case p.Progress >= OnTrackProgress:
		return StatusOnTrack
	case p.DaysRemaining < UrgentDays:
		return StatusUrgent
	case p.Progress >= ModerateProgress:
		return StatusModerate
	}
	return StatusBehind
}

// RecommendationKind identifies a recommendation.
type RecommendationKind string

const (
	IncreaseContribution RecommendationKind = "increase"
	MonthlySavings       RecommendationKind = "monthly"
	Congratulations      RecommendationKind = "congratulations"
	GreatProgress        RecommendationKind = "great-progress"
	DeadlineApproaching  RecommendationKind = "deadline"
)

// Recommendation is a presentation hint about a goal.
type Recommendation struct {
	Kind    RecommendationKind
	Message string
}

// Recommendations returns the hints for a goal's progress.
func Recommendations(p GoalProgress) []Recommendation {
	var recs []Recommendation
	if p.Progress < LowProgress && p.DaysRemaining < LongHorizonDays {
		recs = append(recs, Recommendation{IncreaseContribution,
			fmt.Sprintf("Consider increasing your contributions: only %s reached with less than a year left.", p.Progress)})
	}
	if p.MonthlyNeeded.IsPositive() {
		recs = append(recs, Recommendation{MonthlySavings,
			fmt.Sprintf("Save about %s per month to reach %s by %s.", p.MonthlyNeeded, p.Goal.TargetAmount, p.Goal.TargetDate)})
	}
	switch {
	case p.Progress >= 100:
		recs = append(recs, Recommendation{Congratulations, "Congratulations! You have reached this goal."})
	case p.Progress >= OnTrackProgress:
		recs = append(recs, Recommendation{GreatProgress, "Great progress! You are close to your target."})
	}
	if p.DaysRemaining < UrgentDays && p.Progress < DeadlineProgress {
		recs = append(recs, Recommendation{DeadlineApproaching,
			fmt.Sprintf("Deadline approaching: %d days left and %s still to go.", p.DaysRemaining, p.Remaining)})
	}
	return recs
}

// GoalsSummary counts active goals by state.
type GoalsSummary struct {
	Active        int
	Complete      int
	OnTrack       int
	NeedAttention int // progress below AttentionProgress
}

// ComputeGoalsProgress computes the progress of every active goal.
func ComputeGoalsProgress(goals []Goal, holdings []Holding, on date.Date) ([]GoalProgress, GoalsSummary) {
	var progress []GoalProgress
	var s GoalsSummary
	for _, g := range goals {
		if !g.Active {
			continue
		}
		p := ComputeProgress(g, holdings, on)
		progress = append(progress, p)
		s.Active++
		if p.Status == StatusComplete {
			s.Complete++
		}
		if p.OnTrack {
			s.OnTrack++
		}
		if p.Progress < AttentionProgress {
			s.NeedAttention++
		}
	}
	return progress, s
}
