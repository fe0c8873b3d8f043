package public

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

const (
	testSurveyID   = "64a000000000000000000001"
	testQuestionID = "64a000000000000000000002"
)

type fakeResponseService struct {
	submitted []application.Submission
}

func (f *fakeResponseService) Submit(_ context.Context, submission application.Submission) (*domain.Response, error) {
	f.submitted = append(f.submitted, submission)
	return &domain.Response{
		ID:        "64a0000000000000000000aa",
		SurveyID:  submission.SurveyID,
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeResponseService) ListBySurvey(_ context.Context, _ string, _ application.Paging) ([]domain.Response, int64, error) {
	return nil, 0, nil
}

type fakeVoiceService struct {
	application.VoiceService
	uploads []application.VoiceUpload
}

func (f *fakeVoiceService) Upload(_ context.Context, upload application.VoiceUpload) (*domain.Voice, error) {
	f.uploads = append(f.uploads, upload)
	return &domain.Voice{
		ID:  "64a0000000000000000000bb",
		URL: "http://media.test/" + upload.QuestionID + ".webm",
	}, nil
}

func newTestRouter(responses *fakeResponseService, voices *fakeVoiceService) chi.Router {
	h := NewHandler(Config{
		Logger:    log.New(io.Discard, "", 0),
		Responses: responses,
		Voices:    voices,
	})
	r := chi.NewRouter()
	h.Register(r)
	return r
}

func submissionBody() map[string]any {
	return map[string]any{
		"surveyId": testSurveyID,
		"name":     " Alice ",
		"email":    "alice@example.com",
		"answers": []map[string]any{
			{"questionId": testQuestionID, "answer": "A", "reason": "because"},
		},
	}
}

func TestSubmitJSONBody(t *testing.T) {
	responses := &fakeResponseService{}
	router := newTestRouter(responses, &fakeVoiceService{})

	body, _ := json.Marshal(submissionBody())
	req := httptest.NewRequest(http.MethodPost, "/responses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(responses.submitted) != 1 {
		t.Fatalf("submitted %d times", len(responses.submitted))
	}
	got := responses.submitted[0]
	if got.SurveyID != testSurveyID || got.Name != "Alice" || got.Email != "alice@example.com" {
		t.Fatalf("submission = %+v", got)
	}
	if len(got.Answers) != 1 || got.Answers[0].Answer != "A" || got.Answers[0].Reason != "because" {
		t.Fatalf("answers = %+v", got.Answers)
	}
}

func TestSubmitMultipartMatchesJSON(t *testing.T) {
	jsonSide := &fakeResponseService{}
	body, _ := json.Marshal(submissionBody())
	req := httptest.NewRequest(http.MethodPost, "/responses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	newTestRouter(jsonSide, &fakeVoiceService{}).ServeHTTP(httptest.NewRecorder(), req)

	multipartSide := &fakeResponseService{}
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	payload, _ := json.Marshal(submissionBody())
	if err := writer.WriteField("payload", string(payload)); err != nil {
		t.Fatal(err)
	}
	writer.Close()

	req = httptest.NewRequest(http.MethodPost, "/responses", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	newTestRouter(multipartSide, &fakeVoiceService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(jsonSide.submitted) != 1 || len(multipartSide.submitted) != 1 {
		t.Fatalf("json=%d multipart=%d submissions", len(jsonSide.submitted), len(multipartSide.submitted))
	}

	a, _ := json.Marshal(jsonSide.submitted[0])
	b, _ := json.Marshal(multipartSide.submitted[0])
	if string(a) != string(b) {
		t.Fatalf("transports diverge:\n%s\n%s", a, b)
	}
}

func TestSubmitMultipartAttachesVoiceFiles(t *testing.T) {
	responses := &fakeResponseService{}
	voices := &fakeVoiceService{}
	router := newTestRouter(responses, voices)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	payload, _ := json.Marshal(submissionBody())
	writer.WriteField("payload", string(payload))
	part, err := writer.CreateFormFile("voice_"+testQuestionID, "answer.webm")
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte("RIFFfake"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/responses", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if len(voices.uploads) != 1 {
		t.Fatalf("uploaded %d voice files", len(voices.uploads))
	}
	upload := voices.uploads[0]
	if upload.QuestionID != testQuestionID || upload.SurveyID != testSurveyID {
		t.Fatalf("upload = %+v", upload)
	}
	if string(upload.Body) != "RIFFfake" {
		t.Fatalf("upload body = %q", upload.Body)
	}

	answer := responses.submitted[0].Answers[0]
	wantURL := "http://media.test/" + testQuestionID + ".webm"
	if answer.VoiceAnswerURL != wantURL {
		t.Fatalf("voice url = %q, want %q", answer.VoiceAnswerURL, wantURL)
	}
}

func TestSubmitMultipartAppendsVoiceOnlyAnswer(t *testing.T) {
	responses := &fakeResponseService{}
	voices := &fakeVoiceService{}
	router := newTestRouter(responses, voices)

	other := "64a000000000000000000003"
	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	payload, _ := json.Marshal(submissionBody())
	writer.WriteField("payload", string(payload))
	part, _ := writer.CreateFormFile("voice_"+other, "extra.webm")
	part.Write([]byte("RIFFmore"))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/responses", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	answers := responses.submitted[0].Answers
	if len(answers) != 2 {
		t.Fatalf("answers = %+v", answers)
	}
	appended := answers[1]
	if appended.QuestionID != other || appended.VoiceAnswerURL == "" {
		t.Fatalf("appended answer = %+v", appended)
	}
}

func TestSubmitRejectsMalformedJSON(t *testing.T) {
	responses := &fakeResponseService{}
	router := newTestRouter(responses, &fakeVoiceService{})

	req := httptest.NewRequest(http.MethodPost, "/responses", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(responses.submitted) != 0 {
		t.Fatal("malformed bodies must not reach the service")
	}
}
