package analytics

import "github.com/surveyclub/survey-services/api/internal/domain"

// MostActiveSurvey identifies the survey with the largest response count.
type MostActiveSurvey struct {
	SurveyID       string `json:"surveyId"`
	SurveyTitle    string `json:"surveyTitle"`
	TotalResponses int    `json:"totalResponses"`
}

// OverallStats is the cross-survey rollup header.
type OverallStats struct {
	TotalSurveys              int              `json:"totalSurveys"`
	TotalResponses            int              `json:"totalResponses"`
	ActiveSurveys             int              `json:"activeSurveys"`
	ClosedSurveys             int              `json:"closedSurveys"`
	AverageResponsesPerSurvey string           `json:"averageResponsesPerSurvey"`
	MostActiveSurvey          MostActiveSurvey `json:"mostActiveSurvey"`
}

// AllSurveysAnalytics combines the rollup with every survey's aggregate.
type AllSurveysAnalytics struct {
	OverallStats OverallStats      `json:"overallStats"`
	Surveys      []SurveyAnalytics `json:"surveys"`
}

// Rollup aggregates every survey and derives the cross-survey statistics.
// Responses are grouped by their parent survey id before aggregation.
func Rollup(surveys []domain.Survey, responses []domain.Response) AllSurveysAnalytics {
	bySurvey := make(map[string][]domain.Response, len(surveys))
	for _, r := range responses {
		bySurvey[r.SurveyID] = append(bySurvey[r.SurveyID], r)
	}

	perSurvey := make([]SurveyAnalytics, 0, len(surveys))
	active, closed := 0, 0
	mostActive := MostActiveSurvey{}
	for _, s := range surveys {
		aggregate := Aggregate(s, bySurvey[s.ID])
		perSurvey = append(perSurvey, aggregate)

		switch s.Status {
		case domain.SurveyOpen:
			active++
		case domain.SurveyClosed:
			closed++
		}
		if mostActive.SurveyID == "" || aggregate.TotalResponses > mostActive.TotalResponses {
			mostActive = MostActiveSurvey{
				SurveyID:       aggregate.SurveyID,
				SurveyTitle:    aggregate.SurveyTitle,
				TotalResponses: aggregate.TotalResponses,
			}
		}
	}

	avg := "0"
	if len(surveys) > 0 {
		avg = Round2(float64(len(responses)) / float64(len(surveys)))
	}

	return AllSurveysAnalytics{
		OverallStats: OverallStats{
			TotalSurveys:              len(surveys),
			TotalResponses:            len(responses),
			ActiveSurveys:             active,
			ClosedSurveys:             closed,
			AverageResponsesPerSurvey: avg,
			MostActiveSurvey:          mostActive,
		},
		Surveys: perSurvey,
	}
}
