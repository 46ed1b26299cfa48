package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/vyrodovalexey/restadmin/internal/model"
	"github.com/vyrodovalexey/restadmin/internal/store"
)

const usersPath = "/users"

// Query parameters understood by the users endpoint.
const (
	PageParam  = "_page"
	LimitParam = "_limit"
)

var _ store.PagedResource[model.User, model.UserDraft] = (*UserService)(nil)

// UserService accesses /users.
type UserService struct {
	client *Client
}

// Users returns the users endpoint.
func (c *Client) Users() *UserService {
	return &UserService{client: c}
}

// ListPage handles GET /users?_page={page}&_limit={limit}. The total comes
// from the X-Total-Count response header.
func (s *UserService) ListPage(ctx context.Context, page, limit int) (store.Page[model.User], error) {
	query := url.Values{}
	query.Set(PageParam, strconv.Itoa(page))
	query.Set(LimitParam, strconv.Itoa(limit))

	users := []model.User{}
	header, err := s.client.do(ctx, http.MethodGet, usersPath, query, nil, &users)
	if err != nil {
		return store.Page[model.User]{}, err
	}

	return store.Page[model.User]{
		Items: users,
		Total: ParseTotalCount(header.Get(TotalCountHeader)),
	}, nil
}

// Get handles GET /users/{id}.
func (s *UserService) Get(ctx context.Context, id int) (*model.User, error) {
	var user model.User
	path := usersPath + "/" + strconv.Itoa(id)
	if _, err := s.client.do(ctx, http.MethodGet, path, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Create handles POST /users.
func (s *UserService) Create(ctx context.Context, draft model.UserDraft) (*model.User, error) {
	var created model.User
	if _, err := s.client.do(ctx, http.MethodPost, usersPath, nil, draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update handles PUT /users/{id}.
func (s *UserService) Update(ctx context.Context, user model.User) (*model.User, error) {
	var updated model.User
	path := usersPath + "/" + strconv.Itoa(user.ID)
	if _, err := s.client.do(ctx, http.MethodPut, path, nil, user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete handles DELETE /users/{id}.
func (s *UserService) Delete(ctx context.Context, id int) error {
	path := usersPath + "/" + strconv.Itoa(id)
	_, err := s.client.do(ctx, http.MethodDelete, path, nil, nil, nil)
	return err
}
