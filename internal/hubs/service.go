package hubs

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

type CreateInput struct {
	Name    string
	Address string
}

// UpdateInput applies only the non-nil fields.
type UpdateInput struct {
	Name     *string
	Address  *string
	IsActive *bool
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Hub, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Hub, error)
	List(ctx context.Context, filter enums.ActiveFilter) ([]models.Hub, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Hub, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Hub, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("hubs repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Hub, error) {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	if name == "" || address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and address are required")
	}
	hub := &models.Hub{Name: name, Address: address, IsActive: true}
	if err := s.repo.Create(ctx, hub); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create hub")
	}
	return hub, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Hub, error) {
	hub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.LoadError(err, "hub")
	}
	return hub, nil
}

func (s *service) List(ctx context.Context, filter enums.ActiveFilter) ([]models.Hub, error) {
	if !filter.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid active filter")
	}
	hubs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list hubs")
	}
	return hubs, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Hub, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		updates["name"] = name
	}
	if input.Address != nil {
		address := strings.TrimSpace(*input.Address)
		if address == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "address cannot be empty")
		}
		updates["address"] = address
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update hub")
		}
	}
	return s.Get(ctx, id)
}

// Deactivate soft-deletes a hub. Existing batches keep referencing it.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*models.Hub, error) {
	inactive := false
	return s.Update(ctx, id, UpdateInput{IsActive: &inactive})
}
