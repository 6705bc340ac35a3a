package api

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
	"github.com/nnhurricane156/phygen-portal/internal/logger"
)

// ExamAPI wraps the /ExamSets resource: generation, history, editing and
// the word-document export.
type ExamAPI struct {
	client   *client.Client
	chapters *ChapterAPI
	topics   *TopicAPI
	log      *logger.Logger
}

// NewExamAPI creates an ExamAPI. The chapter and topic wrappers are used
// for name back-fill on responses that only carry ids.
func NewExamAPI(c *client.Client, chapters *ChapterAPI, topics *TopicAPI, log *logger.Logger) *ExamAPI {
	return &ExamAPI{client: c, chapters: chapters, topics: topics, log: log}
}

// GenerateFromSelectionRequest drives the dropdown-based generation form.
type GenerateFromSelectionRequest struct {
	Name          string `json:"name"`
	ChapterID     string `json:"chapterId"`
	TopicID       string `json:"topicId,omitempty"`
	QuestionCount int    `json:"questionCount"`
	Difficulty    string `json:"difficulty,omitempty"`
}

// GenerateFromPromptRequest drives the AI-prompt-based generation form.
type GenerateFromPromptRequest struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// GenerateFromSelection generates an exam from dropdown selections.
func (a *ExamAPI) GenerateFromSelection(ctx context.Context, req *GenerateFromSelectionRequest) (*domain.ExamSet, error) {
	var envelope client.Envelope[domain.ExamSet]
	if err := a.client.Post(ctx, "/ExamSets/generate-from-dropdown", req, &envelope); err != nil {
		return nil, err
	}
	exam, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	a.backfillNames(ctx, &exam)
	return &exam, nil
}

// GenerateFromPrompt generates an exam from a free-text prompt.
func (a *ExamAPI) GenerateFromPrompt(ctx context.Context, req *GenerateFromPromptRequest) (*domain.ExamSet, error) {
	var envelope client.Envelope[domain.ExamSet]
	if err := a.client.Post(ctx, "/ExamSets/generate-from-prompt", req, &envelope); err != nil {
		return nil, err
	}
	exam, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	a.backfillNames(ctx, &exam)
	return &exam, nil
}

// ListByCurrentUser returns the signed-in user's exam history.
func (a *ExamAPI) ListByCurrentUser(ctx context.Context) ([]domain.ExamSet, error) {
	var envelope client.Envelope[client.PageItems[domain.ExamSet]]
	if err := a.client.Get(ctx, "/ExamSets/get-by-current-user", &envelope); err != nil {
		return nil, err
	}
	items, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return items.Values, nil
}

// Get returns one exam with its questions.
func (a *ExamAPI) Get(ctx context.Context, id string) (*domain.ExamSet, error) {
	var envelope client.Envelope[domain.ExamSet]
	if err := a.client.Get(ctx, fmt.Sprintf("/ExamSets/%s", id), &envelope); err != nil {
		return nil, err
	}
	exam, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	a.backfillNames(ctx, &exam)
	return &exam, nil
}

// Update replaces the editable fields of an exam.
func (a *ExamAPI) Update(ctx context.Context, id string, exam *domain.ExamSet) (*domain.ExamSet, error) {
	var envelope client.Envelope[domain.ExamSet]
	if err := a.client.Put(ctx, fmt.Sprintf("/ExamSets/%s", id), exam, &envelope); err != nil {
		return nil, err
	}
	updated, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes an exam.
func (a *ExamAPI) Delete(ctx context.Context, id string) error {
	var envelope client.Envelope[map[string]any]
	if err := a.client.Delete(ctx, fmt.Sprintf("/ExamSets/%s", id), &envelope); err != nil {
		return err
	}
	_, err := envelope.Unwrap()
	return err
}

// DownloadWord fetches the exam as a word document.
func (a *ExamAPI) DownloadWord(ctx context.Context, id string) ([]byte, string, error) {
	return a.client.Download(ctx, fmt.Sprintf("/ExamSets/download-word/%s", id), 0)
}

// backfillNames resolves chapter and topic names when the primary
// response only carries ids. Failures are logged and ignored; a missing
// display name never blocks an exam from loading.
func (a *ExamAPI) backfillNames(ctx context.Context, exam *domain.ExamSet) {
	if exam.ChapterName == "" && exam.ChapterID != "" {
		chapter, err := a.chapters.Get(ctx, exam.ChapterID)
		if err != nil {
			a.log.Warn("chapter name back-fill failed",
				zap.String("chapter_id", exam.ChapterID), zap.Error(err))
		} else {
			exam.ChapterName = chapter.Name
		}
	}
	if exam.TopicName == "" && exam.TopicID != "" {
		topic, err := a.topics.Get(ctx, exam.TopicID)
		if err != nil {
			a.log.Warn("topic name back-fill failed",
				zap.String("topic_id", exam.TopicID), zap.Error(err))
		} else {
			exam.TopicName = topic.Name
		}
	}
}
