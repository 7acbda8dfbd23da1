package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/propshare/propshare-backend/pkg/errors"
	"github.com/propshare/propshare-backend/pkg/pagination"
)

// UserList is the paginated admin view of users.
type UserList struct {
	Users      []UserDTO `json:"users"`
	NextCursor *string   `json:"next_cursor,omitempty"`
}

// Service exposes the admin-facing user operations.
type Service interface {
	AdminList(ctx context.Context, filters ListFilters, params pagination.Params) (*UserList, error)
	Detail(ctx context.Context, id uuid.UUID) (*UserDTO, error)
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*UserDTO, error)
}

type service struct {
	repo *Repository
}

// NewService builds the users service.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) AdminList(ctx context.Context, filters ListFilters, params pagination.Params) (*UserList, error) {
	rows, next, err := s.repo.List(ctx, filters, params)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	list := &UserList{Users: make([]UserDTO, 0, len(rows))}
	for i := range rows {
		list.Users = append(list.Users, *FromModel(&rows[i]))
	}
	if next != nil {
		encoded := pagination.EncodeCursor(*next)
		list.NextCursor = &encoded
	}
	return list, nil
}

func (s *service) Detail(ctx context.Context, id uuid.UUID) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return FromModel(user), nil
}

// SetActive toggles whether the user may authenticate. Repeating the same
// state is a no-op.
func (s *service) SetActive(ctx context.Context, id uuid.UUID, active bool) (*UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user.IsActive != active {
		if err := s.repo.Update(ctx, id, map[string]any{"is_active": active}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update user")
		}
		user.IsActive = active
	}
	return FromModel(user), nil
}
