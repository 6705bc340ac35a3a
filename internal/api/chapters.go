// Package api holds the typed convenience wrappers over the backend
// resources. Each call builds a URL, runs it through the authenticated
// client and unwraps the envelope; nothing here caches, retries or
// batches.
package api

import (
	"context"
	"fmt"

	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// ChapterAPI wraps the /Chapter resource.
type ChapterAPI struct {
	client *client.Client
}

// NewChapterAPI creates a ChapterAPI.
func NewChapterAPI(c *client.Client) *ChapterAPI {
	return &ChapterAPI{client: c}
}

// List returns all chapters.
func (a *ChapterAPI) List(ctx context.Context) ([]domain.Chapter, error) {
	var envelope client.Envelope[client.PageItems[domain.Chapter]]
	if err := a.client.Get(ctx, "/Chapter", &envelope); err != nil {
		return nil, err
	}
	items, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return items.Values, nil
}

// Get returns a chapter by id.
func (a *ChapterAPI) Get(ctx context.Context, id string) (*domain.Chapter, error) {
	var envelope client.Envelope[domain.Chapter]
	if err := a.client.Get(ctx, fmt.Sprintf("/Chapter/%s", id), &envelope); err != nil {
		return nil, err
	}
	chapter, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return &chapter, nil
}
