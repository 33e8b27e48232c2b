package renderer

import (
	"github.com/etnz/goalfolio"
	"github.com/etnz/goalfolio/date"
)

// Goals is the progress report of the active goals.
type Goals struct {
	Date     date.Date
	Summary  goalfolio.GoalsSummary
	Goals    []GoalRow
	Inactive []string // names of the inactive goals
}

// GoalRow is the progress of a single goal.
type GoalRow struct {
	ID              string
	Name            string
	Description     string
	Filter          string
	Status          goalfolio.GoalStatus
	Target          goalfolio.Money
	TargetDate      date.Date
	Current         goalfolio.Money
	Remaining       goalfolio.Money
	Progress        goalfolio.Percent
	DaysRemaining   int
	MonthlyNeeded   goalfolio.Money
	OnTrack         bool
	Holdings        []string // names of the counted holdings
	Recommendations []string
}

// NewGoals computes the progress of 'goals' on 'on' and creates its report.
func NewGoals(goals []goalfolio.Goal, holdings []goalfolio.Holding, on date.Date) *Goals {
	progress, summary := goalfolio.ComputeGoalsProgress(goals, holdings, on)
	g := &Goals{Date: on, Summary: summary, Goals: make([]GoalRow, 0, len(progress))}
	for _, p := range progress {
		row := GoalRow{
			ID:            ShortID(p.Goal.ID),
			Name:          p.Goal.Name,
			Description:   p.Goal.Description,
			Filter:        p.Goal.Filter.String(),
			Status:        p.Status,
			Target:        p.Goal.TargetAmount,
			TargetDate:    p.Goal.TargetDate,
			Current:       p.Current,
			Remaining:     p.Remaining,
			Progress:      p.Progress,
			DaysRemaining: p.DaysRemaining,
			MonthlyNeeded: p.MonthlyNeeded,
			OnTrack:       p.OnTrack,
		}
		for _, h := range p.Holdings {
			row.Holdings = append(row.Holdings, h.Name)
		}
		for _, r := range goalfolio.Recommendations(p) {
			row.Recommendations = append(row.Recommendations, r.Message)
		}
		g.Goals = append(g.Goals, row)
	}
	for _, goal := range goals {
		if !goal.Active {
			g.Inactive = append(g.Inactive, goal.Name)
		}
	}
	return g
}
