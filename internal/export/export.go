// Package export flattens analytics aggregates into downloadable CSV and
// JSON payloads.
package export

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/surveyclub/survey-services/api/internal/analytics"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// Export views label question types with the external vocabulary used by
// downstream spreadsheet consumers.
const (
	typeSingleChoice   = "single_choice"
	typeMultipleChoice = "multiple_choice"
	typeShortAnswer    = "short_answer"
)

const maxSampleAnswers = 5

// QuestionTypeLabel maps an internal question type to its export label.
func QuestionTypeLabel(t domain.QuestionType) string {
	switch t {
	case domain.QuestionCheckbox:
		return typeMultipleChoice
	case domain.QuestionMCQ, domain.QuestionRadio:
		return typeSingleChoice
	case domain.QuestionText:
		return typeShortAnswer
	default:
		return string(t)
	}
}

// ExportView reshapes a live aggregate for export: mapped type labels, bare
// numeric percentages, and text samples truncated to the first five.
func ExportView(stats []analytics.QuestionStats) []analytics.QuestionStats {
	out := make([]analytics.QuestionStats, 0, len(stats))
	for _, q := range stats {
		view := q
		view.Type = domain.QuestionType(QuestionTypeLabel(q.Type))
		if q.Stats != nil {
			bare := make(map[string]analytics.OptionStat, len(q.Stats))
			for option, s := range q.Stats {
				s.Percentage = strings.TrimSuffix(s.Percentage, "%")
				bare[option] = s
			}
			view.Stats = bare
		}
		if len(q.SampleAnswers) > maxSampleAnswers {
			view.SampleAnswers = q.SampleAnswers[:maxSampleAnswers]
		}
		out = append(out, view)
	}
	return out
}

// SummaryJSON renders the export-view aggregate as an indented JSON
// attachment body.
func SummaryJSON(aggregate analytics.SurveyAnalytics) ([]byte, error) {
	payload := struct {
		SurveyTitle     string                    `json:"surveyTitle"`
		TotalResponses  int                       `json:"totalResponses"`
		ActivityByDate  map[string]int            `json:"activityByDate"`
		ActivitySummary analytics.ActivitySummary `json:"activitySummary"`
		Analytics       []analytics.QuestionStats `json:"analytics"`
	}{
		SurveyTitle:     aggregate.SurveyTitle,
		TotalResponses:  aggregate.TotalResponses,
		ActivityByDate:  aggregate.ActivityByDate,
		ActivitySummary: aggregate.ActivitySummary,
		Analytics:       ExportView(aggregate.Questions),
	}
	return json.MarshalIndent(payload, "", "  ")
}

// timestamp renders an ISO-derived filename-safe timestamp: the colon and
// dot characters are replaced so the name survives every filesystem.
func timestamp(now time.Time) string {
	iso := now.UTC().Format("2006-01-02T15:04:05.000Z")
	return strings.NewReplacer(":", "-", ".", "-").Replace(iso)
}

func safeTitle(title string) string {
	return strings.ReplaceAll(title, " ", "_")
}

// SummaryCSVFilename names a per-survey analytics CSV download.
func SummaryCSVFilename(title string, now time.Time) string {
	return safeTitle(title) + "_Analytics_" + timestamp(now) + ".csv"
}

// SummaryJSONFilename names a per-survey analytics JSON download.
func SummaryJSONFilename(title string, now time.Time) string {
	return safeTitle(title) + "_Analytics_" + now.UTC().Format("2006-01-02") + ".json"
}

// AnswersCSVFilename names the answers-by-respondent CSV download.
func AnswersCSVFilename(title string, now time.Time) string {
	return safeTitle(title) + "_AnswersByUser_" + timestamp(now) + ".csv"
}

// CompleteCSVFilename names the all-surveys analytics CSV download.
func CompleteCSVFilename(now time.Time) string {
	return "All_Surveys_Complete_Analytics_" + timestamp(now) + ".csv"
}
