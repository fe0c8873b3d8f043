package public

import (
	"context"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/interfaces/http/common"
)

// maxSubmissionBytes bounds a multipart submission, voice recordings
// included.
const maxSubmissionBytes = 20 << 20

func (h *Handler) responseSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		submission, err := h.decodeSubmission(ctx, r)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		response, err := h.responses.Submit(ctx, submission)
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}
		common.WriteJSON(h.logger, w, http.StatusCreated, buildResponseItem(*response))
	}
}

// decodeSubmission accepts the same submission in two transports: a plain
// JSON body, or a multipart form with a "payload" JSON field plus voice
// files named voice_<questionId>. Both normalize to the identical Submission.
func (h *Handler) decodeSubmission(ctx context.Context, r *http.Request) (application.Submission, error) {
	contentType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if contentType == "multipart/form-data" {
		return h.decodeMultipartSubmission(ctx, r)
	}

	var req submissionRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxSubmissionBytes)).Decode(&req); err != nil {
		return application.Submission{}, apperr.Validation("invalid JSON body: %v", err)
	}
	return buildSubmission(req), nil
}

func (h *Handler) decodeMultipartSubmission(ctx context.Context, r *http.Request) (application.Submission, error) {
	if err := r.ParseMultipartForm(maxSubmissionBytes); err != nil {
		return application.Submission{}, apperr.Validation("invalid multipart form: %v", err)
	}

	payload := r.FormValue("payload")
	if payload == "" {
		payload = r.FormValue("data")
	}
	var req submissionRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return application.Submission{}, apperr.Validation("invalid payload field: %v", err)
	}
	submission := buildSubmission(req)

	if r.MultipartForm == nil {
		return submission, nil
	}
	for field, headers := range r.MultipartForm.File {
		questionID, ok := strings.CutPrefix(field, "voice_")
		if !ok || len(headers) == 0 {
			continue
		}
		header := headers[0]
		file, err := header.Open()
		if err != nil {
			return application.Submission{}, apperr.Validation("unreadable voice file for question %s", questionID)
		}
		body, err := io.ReadAll(io.LimitReader(file, maxSubmissionBytes))
		file.Close()
		if err != nil {
			return application.Submission{}, apperr.Validation("unreadable voice file for question %s", questionID)
		}

		voice, err := h.voices.Upload(ctx, application.VoiceUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        body,
			SurveyID:    submission.SurveyID,
			QuestionID:  questionID,
		})
		if err != nil {
			return application.Submission{}, err
		}

		attached := false
		for i := range submission.Answers {
			if submission.Answers[i].QuestionID == questionID {
				submission.Answers[i].VoiceAnswerURL = voice.URL
				attached = true
				break
			}
		}
		if !attached {
			submission.Answers = append(submission.Answers, application.SubmissionAnswer{
				QuestionID:     questionID,
				VoiceAnswerURL: voice.URL,
			})
		}
	}
	return submission, nil
}

func buildSubmission(req submissionRequest) application.Submission {
	answers := make([]application.SubmissionAnswer, 0, len(req.Answers))
	for _, a := range req.Answers {
		answers = append(answers, application.SubmissionAnswer{
			QuestionID:     a.QuestionID,
			Answer:         a.Answer,
			TextAnswer:     a.TextAnswer,
			VoiceAnswerURL: a.VoiceAnswerURL,
			Reason:         a.Reason,
		})
	}
	return application.Submission{
		SurveyID: req.SurveyID,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Answers:  answers,
	}
}

func (h *Handler) responseListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		surveyID := strings.TrimSpace(chi.URLParam(r, "surveyId"))
		page, _ := common.ParsePositiveInt(r.URL.Query().Get("page"), 1)
		limit, _ := common.ParsePositiveInt(r.URL.Query().Get("limit"), 50)

		responses, total, err := h.responses.ListBySurvey(ctx, surveyID, application.Paging{Page: page, Limit: limit})
		if err != nil {
			common.WriteError(h.logger, w, err)
			return
		}

		items := make([]responseItem, 0, len(responses))
		for _, response := range responses {
			items = append(items, buildResponseItem(response))
		}
		common.WriteJSON(h.logger, w, http.StatusOK, responseListResponse{
			Items: items,
			Page:  page,
			Limit: limit,
			Total: total,
		})
	}
}
