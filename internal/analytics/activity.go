package analytics

import (
	"sort"

	"github.com/surveyclub/survey-services/api/internal/domain"
)

// ActivitySummary condenses response volume over calendar time.
type ActivitySummary struct {
	TotalDays                   int    `json:"totalDays"`
	AvgResponsesPerDay          string `json:"avgResponsesPerDay"`
	MostActiveDay               string `json:"mostActiveDay"`
	MaxResponsesOnMostActiveDay int    `json:"maxResponsesOnMostActiveDay"`
	ActivityLevel               string `json:"activityLevel"`
}

// Activity buckets responses by UTC calendar date and summarizes the
// distribution. Ties on the most active day resolve to the earliest date.
func Activity(responses []domain.Response) (map[string]int, ActivitySummary) {
	byDate := make(map[string]int)
	for _, r := range responses {
		byDate[r.CreatedAt.UTC().Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	mostActiveDay := ""
	maxResponses := 0
	for _, date := range dates {
		if byDate[date] > maxResponses {
			maxResponses = byDate[date]
			mostActiveDay = date
		}
	}

	totalDays := len(dates)
	avg := 0.0
	avgLabel := "0"
	if totalDays > 0 {
		avg = float64(len(responses)) / float64(totalDays)
		avgLabel = Round2(avg)
	}

	return byDate, ActivitySummary{
		TotalDays:                   totalDays,
		AvgResponsesPerDay:          avgLabel,
		MostActiveDay:               mostActiveDay,
		MaxResponsesOnMostActiveDay: maxResponses,
		ActivityLevel:               ActivityLevel(avg),
	}
}

// ActivityLevel classifies average daily volume. This is the single
// canonical rule for both the live view and exports: >= 10 is High,
// >= 4 is Medium, anything lower is Low.
func ActivityLevel(avgPerDay float64) string {
	switch {
	case avgPerDay >= 10:
		return "High"
	case avgPerDay >= 4:
		return "Medium"
	default:
		return "Low"
	}
}
