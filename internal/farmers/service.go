package farmers

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
	Name              string
	Phone             *string
	Location          string
	RelationshipLevel enums.RelationshipLevel
	UPIID             *string
}

// UpdateInput applies only the non-nil fields.
type UpdateInput struct {
	Name              *string
	Phone             *string
	Location          *string
	RelationshipLevel *enums.RelationshipLevel
	UPIID             *string
	IsActive          *bool
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Farmer, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
	List(ctx context.Context, filter ListFilter) ([]models.Farmer, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Farmer, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("farmers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Farmer, error) {
	name := strings.TrimSpace(input.Name)
	location := strings.TrimSpace(input.Location)
	if name == "" || location == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name and location are required")
	}
	if !input.RelationshipLevel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid relationship level")
	}

	farmer := &models.Farmer{
		Name:              name,
		Phone:             trimmedOrNil(input.Phone),
		Location:          location,
		RelationshipLevel: input.RelationshipLevel,
		UPIID:             trimmedOrNil(input.UPIID),
		IsActive:          true,
	}
	if err := s.repo.Create(ctx, farmer); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farmer")
	}
	return farmer, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	farmer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.LoadError(err, "farmer")
	}
	return farmer, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Farmer, error) {
	if !filter.Active.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid active filter")
	}
	if filter.RelationshipLevel != nil && !filter.RelationshipLevel.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid relationship level")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	farmers, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmers")
	}
	return farmers, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Farmer, error) {
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
	if input.Location != nil {
		location := strings.TrimSpace(*input.Location)
		if location == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "location cannot be empty")
		}
		updates["location"] = location
	}
	if input.RelationshipLevel != nil {
		if !input.RelationshipLevel.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid relationship level")
		}
		updates["relationship_level"] = *input.RelationshipLevel
	}
	if input.Phone != nil {
		updates["phone"] = trimmedOrNil(input.Phone)
	}
	if input.UPIID != nil {
		updates["upi_id"] = trimmedOrNil(input.UPIID)
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update farmer")
		}
	}
	return s.Get(ctx, id)
}

// Deactivate soft-deletes a farmer. Products and batch offers are left as they are.
func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*models.Farmer, error) {
	inactive := false
	return s.Update(ctx, id, UpdateInput{IsActive: &inactive})
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
