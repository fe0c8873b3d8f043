package analytics

import (
	"fmt"
	"math"
	"strconv"

	"github.com/surveyclub/survey-services/api/internal/domain"
)

// OptionStat holds the tally for one declared option of a choice question.
type OptionStat struct {
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// QuestionStats carries the per-question statistics. Fields are populated by
// declared question type; the rest stay empty, mirroring the historical
// per-type response shapes.
type QuestionStats struct {
	QuestionID    string                `json:"questionId"`
	Question      string                `json:"question"`
	Type          domain.QuestionType   `json:"type"`
	Options       []string              `json:"options,omitempty"`
	TotalAnswered *int                  `json:"totalAnswered,omitempty"`
	TotalSkipped  *int                  `json:"totalSkipped,omitempty"`
	Stats         map[string]OptionStat `json:"stats,omitempty"`
	Average       string                `json:"average,omitempty"`
	Distribution  map[string]int        `json:"distribution,omitempty"`
	TotalAnswers  *int                  `json:"totalAnswers,omitempty"`
	SampleAnswers []string              `json:"sampleAnswers,omitempty"`
}

// SurveyAnalytics is the full live-view aggregate for one survey.
type SurveyAnalytics struct {
	SurveyID          string              `json:"surveyId"`
	SurveyTitle       string              `json:"surveyTitle"`
	SurveyDescription string              `json:"surveyDescription,omitempty"`
	SurveyStatus      domain.SurveyStatus `json:"surveyStatus,omitempty"`
	TotalResponses    int                 `json:"totalResponses"`
	TotalQuestions    int                 `json:"totalQuestions"`
	ActivityByDate    map[string]int      `json:"activityByDate"`
	ActivitySummary   ActivitySummary     `json:"activitySummary"`
	Questions         []QuestionStats     `json:"analytics"`
}

// Aggregate computes per-question statistics and the activity summary for a
// survey over its responses. It never fails: empty input resolves every
// statistic to zero or an empty structure.
func Aggregate(survey domain.Survey, responses []domain.Response) SurveyAnalytics {
	activityByDate, summary := Activity(responses)

	questions := make([]QuestionStats, 0, len(survey.Questions))
	for _, q := range survey.Questions {
		questions = append(questions, questionStats(q, answersFor(q.ID, responses), len(responses)))
	}

	return SurveyAnalytics{
		SurveyID:          survey.ID,
		SurveyTitle:       survey.Title,
		SurveyDescription: survey.Description,
		SurveyStatus:      survey.Status,
		TotalResponses:    len(responses),
		TotalQuestions:    len(survey.Questions),
		ActivityByDate:    activityByDate,
		ActivitySummary:   summary,
		Questions:         questions,
	}
}

// answersFor collects each response's value for the question, in response
// order. A response that skipped the question contributes a null value.
func answersFor(questionID string, responses []domain.Response) []domain.AnswerValue {
	values := make([]domain.AnswerValue, 0, len(responses))
	for _, r := range responses {
		if a, ok := r.AnswerTo(questionID); ok {
			values = append(values, a.Value)
		} else {
			values = append(values, domain.NullValue())
		}
	}
	return values
}

func questionStats(q domain.Question, values []domain.AnswerValue, totalResponses int) QuestionStats {
	stat := QuestionStats{
		QuestionID: q.ID,
		Question:   q.QuestionText,
		Type:       q.Type,
	}

	switch {
	case q.Type.IsChoice():
		fillChoiceStats(&stat, q, values, totalResponses)
	case q.Type == domain.QuestionRating:
		fillRatingStats(&stat, values)
	case q.Type == domain.QuestionText:
		fillTextStats(&stat, values)
	default:
		// Unrecognized or media types yield the question identity with
		// empty stats; aggregation never rejects a survey.
		stat.Stats = map[string]OptionStat{}
	}
	return stat
}

func fillChoiceStats(stat *QuestionStats, q domain.Question, values []domain.AnswerValue, totalResponses int) {
	counts := make(map[string]int, len(q.Options))
	for _, option := range q.Options {
		counts[option] = 0
	}

	totalAnswered := 0
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		totalAnswered++
		if q.Type.MultiSelect() {
			for _, choice := range v.Selections() {
				if _, declared := counts[choice]; declared {
					counts[choice]++
				}
			}
			continue
		}
		if choice := v.Flatten(", "); choice != "" {
			if _, declared := counts[choice]; declared {
				counts[choice]++
			}
		}
	}

	stats := make(map[string]OptionStat, len(counts))
	for option, count := range counts {
		stats[option] = OptionStat{Count: count, Percentage: Percentage(count, totalAnswered) + "%"}
	}

	stat.Options = append([]string{}, q.Options...)
	stat.TotalAnswered = intPtr(totalAnswered)
	stat.TotalSkipped = intPtr(totalResponses - totalAnswered)
	stat.Stats = stats
}

func fillRatingStats(stat *QuestionStats, values []domain.AnswerValue) {
	distribution := make(map[string]int)
	sum := 0.0
	numericCount := 0
	nullCount := 0

	for _, v := range values {
		if v.IsNull() {
			nullCount++
			continue
		}
		n, ok := v.Numeric()
		if !ok {
			continue
		}
		sum += n
		numericCount++
		distribution[FormatScore(n)]++
	}
	if nullCount > 0 {
		distribution["null"] = nullCount
	}

	average := "0"
	if numericCount > 0 {
		average = Round2(sum / float64(numericCount))
	}

	stat.Average = average
	stat.Distribution = distribution
}

func fillTextStats(stat *QuestionStats, values []domain.AnswerValue) {
	samples := make([]string, 0, len(values))
	for _, v := range values {
		if v.IsNull() {
			continue
		}
		if text := v.Flatten(", "); text != "" {
			samples = append(samples, text)
		}
	}
	stat.TotalAnswers = intPtr(len(samples))
	stat.SampleAnswers = samples
}

// Round2 formats a float with two decimals, matching the historical
// toFixed(2) rendering.
func Round2(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// Percentage renders count/total*100 with two decimals; zero total yields
// "0.00" rather than dividing by zero.
func Percentage(count, total int) string {
	if total == 0 {
		return "0.00"
	}
	return Round2(float64(count) / float64(total) * 100)
}

// FormatScore renders a numeric rating value the way it keyed the historical
// distribution maps: integral values without a fraction.
func FormatScore(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func intPtr(v int) *int {
	return &v
}
