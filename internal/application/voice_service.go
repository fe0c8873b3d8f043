package application

import (
	"context"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/surveyclub/survey-services/api/internal/apperr"
	"github.com/surveyclub/survey-services/api/internal/domain"
)

// VoiceUpload carries an inbound recording and its optional associations.
type VoiceUpload struct {
	Filename    string
	ContentType string
	Body        []byte
	SurveyID    string
	QuestionID  string
}

// VoiceService stores uploaded recordings and tracks their metadata.
type VoiceService interface {
	Upload(ctx context.Context, upload VoiceUpload) (*domain.Voice, error)
	List(ctx context.Context) ([]domain.Voice, error)
	Detail(ctx context.Context, id string) (*domain.Voice, error)
}

type voiceService struct {
	voices  VoiceRepository
	storage ObjectStorage
}

func NewVoiceService(voices VoiceRepository, storage ObjectStorage) VoiceService {
	return &voiceService{voices: voices, storage: storage}
}

// Upload writes the recording to object storage under a random key, then
// records the resulting URL. Storage failure leaves no metadata behind.
func (s *voiceService) Upload(ctx context.Context, upload VoiceUpload) (*domain.Voice, error) {
	if len(upload.Body) == 0 {
		return nil, apperr.Validation("voice file is empty")
	}
	if upload.SurveyID != "" && !domain.IsValidID(upload.SurveyID) {
		return nil, apperr.Validation("invalid survey id: %s", upload.SurveyID)
	}
	if upload.QuestionID != "" && !domain.IsValidID(upload.QuestionID) {
		return nil, apperr.Validation("invalid question id: %s", upload.QuestionID)
	}

	ext := path.Ext(upload.Filename)
	if ext == "" {
		ext = ".webm"
	}
	key := uuid.NewString() + ext

	url, err := s.storage.Put(ctx, key, upload.ContentType, upload.Body)
	if err != nil {
		return nil, apperr.Storage("store voice file", err)
	}

	voice := &domain.Voice{
		ID:         domain.NewID(),
		URL:        url,
		SurveyID:   upload.SurveyID,
		QuestionID: upload.QuestionID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.voices.Insert(ctx, voice); err != nil {
		return nil, err
	}
	return voice, nil
}

func (s *voiceService) List(ctx context.Context) ([]domain.Voice, error) {
	return s.voices.Find(ctx)
}

func (s *voiceService) Detail(ctx context.Context, id string) (*domain.Voice, error) {
	if !domain.IsValidID(id) {
		return nil, apperr.Validation("invalid voice id: %s", id)
	}
	return s.voices.FindByID(ctx, id)
}
