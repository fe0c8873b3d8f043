package export

import (
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/surveyclub/survey-services/api/internal/analytics"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

func readCSV(t *testing.T, b []byte) [][]string {
	t.Helper()
	records, err := csv.NewReader(strings.NewReader(string(b))).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	return records
}

func TestSummaryCSV(t *testing.T) {
	stats := []analytics.QuestionStats{
		{
			QuestionID:    "q1",
			Question:      "Pick one",
			Type:          domain.QuestionRadio,
			Options:       []string{"A", "B"},
			TotalAnswered: intPtr(3),
			TotalSkipped:  intPtr(0),
			Stats: map[string]analytics.OptionStat{
				"A": {Count: 2, Percentage: "66.67%"},
				"B": {Count: 1, Percentage: "33.33%"},
			},
		},
		{
			QuestionID:   "q2",
			Question:     "Rate it",
			Type:         domain.QuestionRating,
			Average:      "4.50",
			Distribution: map[string]int{"4": 1, "5": 1},
		},
		{
			QuestionID:    "q3",
			Question:      "Comments",
			Type:          domain.QuestionText,
			TotalAnswers:  intPtr(2),
			SampleAnswers: []string{"fine", "ok"},
		},
	}

	body, err := SummaryCSV(stats)
	if err != nil {
		t.Fatalf("SummaryCSV: %v", err)
	}
	records := readCSV(t, body)

	// header + 2 options + 2 scores + 1 text row
	if len(records) != 6 {
		t.Fatalf("rows = %d", len(records))
	}
	wantHeader := "Question,Type,Option,Count,Percentage,Score,Average,TotalAnswers,SampleAnswers"
	if strings.Join(records[0], ",") != wantHeader {
		t.Fatalf("header = %v", records[0])
	}

	optionRow := records[1]
	if optionRow[0] != "Pick one" || optionRow[1] != "single_choice" || optionRow[2] != "A" ||
		optionRow[3] != "2" || optionRow[4] != "66.67" {
		t.Fatalf("option row = %v", optionRow)
	}

	ratingRow := records[3]
	if ratingRow[1] != "rating" || ratingRow[3] != "1" || ratingRow[5] != "4" || ratingRow[6] != "4.50" {
		t.Fatalf("rating row = %v", ratingRow)
	}

	textRow := records[5]
	if textRow[1] != "short_answer" || textRow[7] != "2" || textRow[8] != "fine | ok" {
		t.Fatalf("text row = %v", textRow)
	}
}

func TestAnswersByRespondentCSV(t *testing.T) {
	survey := domain.Survey{
		ID:    "s1",
		Title: "Demo",
		Questions: []domain.Question{
			{ID: "q1", Type: domain.QuestionRadio, QuestionText: "Pick one", Options: []string{"A", "B"}},
			{ID: "q2", Type: domain.QuestionCheckbox, QuestionText: "Pick any", Options: []string{"X", "Y"}},
		},
	}
	responses := []domain.Response{
		{
			ID:        "r1",
			SurveyID:  "s1",
			CreatedAt: time.Date(2025, 6, 1, 9, 15, 0, 0, time.UTC),
			Answers: []domain.Answer{
				{QuestionID: "q1", Value: domain.TextValue("A")},
				{QuestionID: "q2", Value: domain.ListValue([]string{"X", "Y"})},
			},
		},
		{
			ID:        "r2",
			SurveyID:  "s1",
			CreatedAt: time.Date(2025, 6, 2, 18, 0, 30, 0, time.UTC),
			Answers: []domain.Answer{
				{QuestionID: "q1", Value: domain.TextValue("B")},
			},
		},
	}

	body, err := AnswersByRespondentCSV(survey, responses)
	if err != nil {
		t.Fatalf("AnswersByRespondentCSV: %v", err)
	}
	records := readCSV(t, body)

	if strings.Join(records[0], "|") != "Submitted At|Pick one|Pick any" {
		t.Fatalf("header = %v", records[0])
	}
	if records[1][0] != "2025-06-01 09:15:00" || records[1][1] != "A" || records[1][2] != "X, Y" {
		t.Fatalf("first row = %v", records[1])
	}
	if records[2][1] != "B" || records[2][2] != "" {
		t.Fatalf("second row = %v", records[2])
	}
}

func TestCompleteCSV(t *testing.T) {
	all := analytics.AllSurveysAnalytics{
		OverallStats: analytics.OverallStats{
			TotalSurveys:              1,
			TotalResponses:            2,
			ActiveSurveys:             1,
			AverageResponsesPerSurvey: "2.00",
			MostActiveSurvey: analytics.MostActiveSurvey{
				SurveyID: "s1", SurveyTitle: "Demo", TotalResponses: 2,
			},
		},
		Surveys: []analytics.SurveyAnalytics{
			{
				SurveyID:       "s1",
				SurveyTitle:    "Demo",
				SurveyStatus:   domain.SurveyOpen,
				TotalResponses: 2,
				TotalQuestions: 1,
				ActivitySummary: analytics.ActivitySummary{
					AvgResponsesPerDay: "2.00",
					MostActiveDay:      "2025-06-01",
					ActivityLevel:      "Low",
				},
				Questions: []analytics.QuestionStats{
					{
						QuestionID:    "q1",
						Question:      "Pick one",
						Type:          domain.QuestionRadio,
						Options:       []string{"A"},
						TotalAnswered: intPtr(2),
						TotalSkipped:  intPtr(0),
						Stats:         map[string]analytics.OptionStat{"A": {Count: 2, Percentage: "100.00%"}},
					},
				},
			},
		},
	}

	body, err := CompleteCSV(all)
	if err != nil {
		t.Fatalf("CompleteCSV: %v", err)
	}
	records := readCSV(t, body)

	if strings.Join(records[0], ",") != "Section,Metric,Value,Details" {
		t.Fatalf("header = %v", records[0])
	}

	var sections []string
	for _, row := range records[1:] {
		sections = append(sections, row[0])
	}
	joined := strings.Join(sections, "|")
	for _, want := range []string{"OVERALL STATISTICS", "SURVEY DETAILS", "QUESTION ANALYTICS"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing section %s", want)
		}
	}

	foundOption := false
	blankRows := 0
	for _, row := range records {
		if row[0] == "QUESTION ANALYTICS" && row[1] == "Option: A" {
			foundOption = true
			if row[2] != "2" || row[3] != "100.00%" {
				t.Fatalf("option row = %v", row)
			}
		}
		if strings.Join(row, "") == "" {
			blankRows++
		}
	}
	if !foundOption {
		t.Fatal("option analytics row missing")
	}
	if blankRows == 0 {
		t.Fatal("complete export should contain blank separator rows")
	}
}
