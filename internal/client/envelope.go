package client

import (
	"bytes"
	"encoding/json"

	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// Envelope is the `{isSuccess, message, data}` wrapper the exam backend
// puts around every JSON response. isSuccess=false is a domain failure
// even when the HTTP status was 200.
type Envelope[T any] struct {
	IsSuccess bool   `json:"isSuccess"`
	Message   string `json:"message"`
	Data      T      `json:"data"`
}

// Unwrap returns the payload, or an error carrying the backend message
// when the envelope reports failure.
func (e *Envelope[T]) Unwrap() (T, error) {
	if !e.IsSuccess {
		var zero T
		return zero, &domain.BackendRejection{Message: e.Message}
	}
	return e.Data, nil
}

// PageItems is the extra nesting level list endpoints wrap arrays in.
// The backend's serializer emits either `values` or the reference-handling
// form `$values`, and occasionally a bare array; all three decode the same.
type PageItems[T any] struct {
	Values []T
}

func (p *PageItems[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var plain []T
		if err := json.Unmarshal(trimmed, &plain); err != nil {
			return err
		}
		p.Values = plain
		return nil
	}

	var wrapped struct {
		Values    []T `json:"values"`
		RefValues []T `json:"$values"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	if wrapped.Values != nil {
		p.Values = wrapped.Values
		return nil
	}
	// Objects without either key decode as an empty list; the backend
	// sometimes omits the slice entirely for empty pages.
	p.Values = wrapped.RefValues
	return nil
}

// Page is the paginated-collection wrapper used by list endpoints.
type Page[T any] struct {
	Items           PageItems[T] `json:"items"`
	PageNumber      int          `json:"pageNumber"`
	TotalPages      int          `json:"totalPages"`
	TotalCount      int          `json:"totalCount"`
	HasPreviousPage bool         `json:"hasPreviousPage"`
	HasNextPage     bool         `json:"hasNextPage"`
}

// Values returns the unwrapped item slice.
func (p *Page[T]) Values() []T {
	return p.Items.Values
}
