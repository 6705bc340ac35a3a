package api

import (
	"context"
	"io"

	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// QuestionAPI wraps the /Questions resource, including the OCR
// question-extraction upload.
type QuestionAPI struct {
	client *client.Client
}

// NewQuestionAPI creates a QuestionAPI.
func NewQuestionAPI(c *client.Client) *QuestionAPI {
	return &QuestionAPI{client: c}
}

// List returns all questions visible to the current user.
func (a *QuestionAPI) List(ctx context.Context) ([]domain.Question, error) {
	var envelope client.Envelope[client.PageItems[domain.Question]]
	if err := a.client.Get(ctx, "/Questions", &envelope); err != nil {
		return nil, err
	}
	items, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return items.Values, nil
}

// ProcessImage uploads a scanned question sheet for OCR extraction and
// returns the recognized questions. The upload is aborted when the
// size-scaled deadline passes.
func (a *QuestionAPI) ProcessImage(ctx context.Context, filename string, file io.Reader, size int64) ([]domain.Question, error) {
	var envelope client.Envelope[client.PageItems[domain.Question]]
	err := a.client.UploadFile(ctx, "/Questions/process-image", "file", filename, file, size, &envelope)
	if err != nil {
		return nil, err
	}
	items, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return items.Values, nil
}

// Save persists questions extracted by the OCR flow after the user has
// reviewed them.
func (a *QuestionAPI) Save(ctx context.Context, questions []domain.Question) error {
	var envelope client.Envelope[map[string]any]
	if err := a.client.Post(ctx, "/Questions/save", questions, &envelope); err != nil {
		return err
	}
	_, err := envelope.Unwrap()
	return err
}
