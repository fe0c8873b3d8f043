package export

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"strings"

	"github.com/surveyclub/survey-services/api/internal/analytics"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// summaryHeader is the union of the per-type row shapes; rows leave the
// columns that do not apply to their question type empty.
var summaryHeader = []string{
	"Question", "Type", "Option", "Count", "Percentage",
	"Score", "Average", "TotalAnswers", "SampleAnswers",
}

// SummaryCSV flattens per-question statistics into the summary CSV layout:
// one row per option for choice questions, one row per observed score for
// ratings, and a single row for text questions.
func SummaryCSV(stats []analytics.QuestionStats) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(summaryHeader); err != nil {
		return nil, err
	}

	for _, q := range ExportView(stats) {
		switch {
		case q.Stats != nil && len(q.Options) > 0:
			for _, option := range q.Options {
				s := q.Stats[option]
				row := []string{
					q.Question, string(q.Type), option,
					strconv.Itoa(s.Count), s.Percentage,
					"", "", "", "",
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		case q.Distribution != nil:
			for _, score := range sortedKeys(q.Distribution) {
				row := []string{
					q.Question, string(q.Type), "",
					strconv.Itoa(q.Distribution[score]), "",
					score, q.Average, "", "",
				}
				if err := w.Write(row); err != nil {
					return nil, err
				}
			}
		case q.TotalAnswers != nil:
			row := []string{
				q.Question, string(q.Type), "", "", "", "", "",
				strconv.Itoa(*q.TotalAnswers),
				strings.Join(q.SampleAnswers, " | "),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// AnswersByRespondentCSV produces one row per response: the submission time
// plus one column per survey question. Multi-select answers join with ", ".
func AnswersByRespondentCSV(survey domain.Survey, responses []domain.Response) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	header := make([]string, 0, 1+len(survey.Questions))
	header = append(header, "Submitted At")
	for _, q := range survey.Questions {
		header = append(header, q.QuestionText)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, r := range responses {
		row := make([]string, 0, len(header))
		row = append(row, r.CreatedAt.UTC().Format("2006-01-02 15:04:05"))
		for _, q := range survey.Questions {
			value := ""
			if a, ok := r.AnswerTo(q.ID); ok {
				value = a.Value.Flatten(", ")
			}
			row = append(row, value)
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// CompleteCSV renders the all-surveys aggregate as a section-labeled flat
// table with blank separator rows between logical groups.
func CompleteCSV(all analytics.AllSurveysAnalytics) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Section", "Metric", "Value", "Details"}); err != nil {
		return nil, err
	}

	rows := [][]string{
		{"OVERALL STATISTICS", "Total Surveys", strconv.Itoa(all.OverallStats.TotalSurveys), ""},
		{"OVERALL STATISTICS", "Total Responses", strconv.Itoa(all.OverallStats.TotalResponses), ""},
		{"OVERALL STATISTICS", "Active Surveys", strconv.Itoa(all.OverallStats.ActiveSurveys), ""},
		{"OVERALL STATISTICS", "Closed Surveys", strconv.Itoa(all.OverallStats.ClosedSurveys), ""},
		{"OVERALL STATISTICS", "Average Responses Per Survey", all.OverallStats.AverageResponsesPerSurvey, ""},
		{"OVERALL STATISTICS", "Most Active Survey", all.OverallStats.MostActiveSurvey.SurveyTitle,
			strconv.Itoa(all.OverallStats.MostActiveSurvey.TotalResponses) + " responses"},
		blankRow(),
	}

	for _, survey := range all.Surveys {
		rows = append(rows,
			[]string{"SURVEY DETAILS", "Survey Title", survey.SurveyTitle, survey.SurveyDescription},
			[]string{"SURVEY DETAILS", "Survey Status", string(survey.SurveyStatus), ""},
			[]string{"SURVEY DETAILS", "Total Responses", strconv.Itoa(survey.TotalResponses), ""},
			[]string{"SURVEY DETAILS", "Total Questions", strconv.Itoa(survey.TotalQuestions), ""},
			[]string{"SURVEY DETAILS", "Activity Level", survey.ActivitySummary.ActivityLevel, ""},
			[]string{"SURVEY DETAILS", "Average Responses Per Day", survey.ActivitySummary.AvgResponsesPerDay, ""},
			[]string{"SURVEY DETAILS", "Most Active Day", survey.ActivitySummary.MostActiveDay,
				strconv.Itoa(survey.ActivitySummary.MaxResponsesOnMostActiveDay) + " responses"},
			blankRow(),
		)

		for _, question := range survey.Questions {
			rows = append(rows, []string{"QUESTION ANALYTICS", "Question", question.Question, "Type: " + string(question.Type)})

			switch {
			case question.Stats != nil && question.TotalAnswered != nil:
				rows = append(rows,
					[]string{"QUESTION ANALYTICS", "Total Answered", strconv.Itoa(*question.TotalAnswered), ""},
					[]string{"QUESTION ANALYTICS", "Total Skipped", strconv.Itoa(*question.TotalSkipped), ""},
				)
				for _, option := range question.Options {
					s := question.Stats[option]
					rows = append(rows, []string{"QUESTION ANALYTICS", "Option: " + option, strconv.Itoa(s.Count), s.Percentage})
				}
			case question.Distribution != nil:
				rows = append(rows, []string{"QUESTION ANALYTICS", "Average Rating", question.Average, ""})
				for _, score := range sortedKeys(question.Distribution) {
					rows = append(rows, []string{"QUESTION ANALYTICS", "Rating " + score, strconv.Itoa(question.Distribution[score]), ""})
				}
			case question.TotalAnswers != nil:
				rows = append(rows,
					[]string{"QUESTION ANALYTICS", "Total Text Answers", strconv.Itoa(*question.TotalAnswers), ""},
					[]string{"QUESTION ANALYTICS", "Sample Answers", strings.Join(question.SampleAnswers, " | "), ""},
				)
			}
			rows = append(rows, blankRow())
		}
		rows = append(rows, blankRow())
	}

	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func blankRow() []string {
	return []string{"", "", "", ""}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
