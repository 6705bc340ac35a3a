package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// TopicAPI wraps the /Topics resource.
type TopicAPI struct {
	client *client.Client
}

// NewTopicAPI creates a TopicAPI.
func NewTopicAPI(c *client.Client) *TopicAPI {
	return &TopicAPI{client: c}
}

// TopicListParams are the query parameters of the paginated topic list.
type TopicListParams struct {
	ChapterID  string
	PageNumber int
	PageSize   int
	SearchTerm string
}

// TopicPage is one page of topics with the pagination fields the screens
// need for their pagers.
type TopicPage struct {
	Topics          []domain.Topic
	PageNumber      int
	TotalPages      int
	TotalCount      int
	HasPreviousPage bool
	HasNextPage     bool
}

// List returns one page of topics.
func (a *TopicAPI) List(ctx context.Context, params TopicListParams) (*TopicPage, error) {
	query := url.Values{}
	if params.ChapterID != "" {
		query.Set("chapterId", params.ChapterID)
	}
	if params.PageNumber > 0 {
		query.Set("pageNumber", strconv.Itoa(params.PageNumber))
	}
	if params.PageSize > 0 {
		query.Set("pageSize", strconv.Itoa(params.PageSize))
	}
	if params.SearchTerm != "" {
		query.Set("searchTerm", params.SearchTerm)
	}

	path := "/Topics"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var envelope client.Envelope[client.Page[domain.Topic]]
	if err := a.client.Get(ctx, path, &envelope); err != nil {
		return nil, err
	}
	page, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}

	return &TopicPage{
		Topics:          page.Values(),
		PageNumber:      page.PageNumber,
		TotalPages:      page.TotalPages,
		TotalCount:      page.TotalCount,
		HasPreviousPage: page.HasPreviousPage,
		HasNextPage:     page.HasNextPage,
	}, nil
}

// Get returns a topic by id.
func (a *TopicAPI) Get(ctx context.Context, id string) (*domain.Topic, error) {
	var envelope client.Envelope[domain.Topic]
	if err := a.client.Get(ctx, fmt.Sprintf("/Topics/%s", id), &envelope); err != nil {
		return nil, err
	}
	topic, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return &topic, nil
}
