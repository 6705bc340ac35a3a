package api

import (
	"context"
	"fmt"

	"github.com/nnhurricane156/phygen-portal/internal/client"
	"github.com/nnhurricane156/phygen-portal/internal/domain"
)

// UserAPI wraps the /Users resource for the admin screens.
type UserAPI struct {
	client *client.Client
}

// NewUserAPI creates a UserAPI.
func NewUserAPI(c *client.Client) *UserAPI {
	return &UserAPI{client: c}
}

// List returns all users.
func (a *UserAPI) List(ctx context.Context) ([]domain.ManagedUser, error) {
	var envelope client.Envelope[client.PageItems[domain.ManagedUser]]
	if err := a.client.Get(ctx, "/Users", &envelope); err != nil {
		return nil, err
	}
	items, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return items.Values, nil
}

// Get returns one user by id.
func (a *UserAPI) Get(ctx context.Context, id string) (*domain.ManagedUser, error) {
	var envelope client.Envelope[domain.ManagedUser]
	if err := a.client.Get(ctx, fmt.Sprintf("/Users/%s", id), &envelope); err != nil {
		return nil, err
	}
	user, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ListByRole returns the users holding one role.
func (a *UserAPI) ListByRole(ctx context.Context, role domain.Role) ([]domain.ManagedUser, error) {
	var envelope client.Envelope[client.PageItems[domain.ManagedUser]]
	if err := a.client.Get(ctx, fmt.Sprintf("/Users/by-role/%d", role), &envelope); err != nil {
		return nil, err
	}
	items, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return items.Values, nil
}

// Update replaces a user's editable fields.
func (a *UserAPI) Update(ctx context.Context, id string, user *domain.ManagedUser) (*domain.ManagedUser, error) {
	var envelope client.Envelope[domain.ManagedUser]
	if err := a.client.Put(ctx, fmt.Sprintf("/Users/%s", id), user, &envelope); err != nil {
		return nil, err
	}
	updated, err := envelope.Unwrap()
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Deactivate disables a user account.
func (a *UserAPI) Deactivate(ctx context.Context, id string) error {
	var envelope client.Envelope[map[string]any]
	if err := a.client.Patch(ctx, fmt.Sprintf("/Users/%s/deactivate", id), nil, &envelope); err != nil {
		return err
	}
	_, err := envelope.Unwrap()
	return err
}
