package domain

import "time"

// Voice keeps the metadata of an uploaded voice recording. The binary itself
// lives in object storage; only the public URL is recorded here and embedded
// into a subsequent response submission.
type Voice struct {
	ID         string
	URL        string
	SurveyID   string
	QuestionID string
	CreatedAt  time.Time
}
