package products

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/farmbatch-backend/internal/repo"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

type farmerLookup interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Farmer, error)
}

type CreateInput struct {
	FarmerID      uuid.UUID
	Name          string
	Unit          enums.ProductUnit
	AvailableFrom *time.Time
	AvailableTo   *time.Time
}

// UpdateInput applies only the non-nil fields. ClearSeason removes the window.
type UpdateInput struct {
	Name          *string
	Unit          *enums.ProductUnit
	AvailableFrom *time.Time
	AvailableTo   *time.Time
	ClearSeason   bool
	IsActive      *bool
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter ListFilter) ([]models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo    Repository
	farmers farmerLookup
}

func NewService(repo Repository, farmers farmerLookup) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if farmers == nil {
		return nil, fmt.Errorf("farmer lookup required")
	}
	return &service{repo: repo, farmers: farmers}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.Unit.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
	}
	if err := validateSeason(input.AvailableFrom, input.AvailableTo); err != nil {
		return nil, err
	}

	farmer, err := s.farmers.Get(ctx, input.FarmerID)
	if err != nil {
		return nil, err
	}
	if !farmer.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidOperation, "farmer is inactive")
	}

	product := &models.Product{
		FarmerID:      farmer.ID,
		Name:          name,
		Unit:          input.Unit,
		AvailableFrom: utcPtr(input.AvailableFrom),
		AvailableTo:   utcPtr(input.AvailableTo),
		IsActive:      true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	product.Farmer = farmer
	return product, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, repo.LoadError(err, "product")
	}
	return product, nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Product, error) {
	if !filter.Active.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid active filter")
	}
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return products, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Product, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
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
	if input.Unit != nil {
		if !input.Unit.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid unit")
		}
		updates["unit"] = *input.Unit
	}

	from, to := current.AvailableFrom, current.AvailableTo
	if input.ClearSeason {
		from, to = nil, nil
	}
	if input.AvailableFrom != nil {
		from = utcPtr(input.AvailableFrom)
	}
	if input.AvailableTo != nil {
		to = utcPtr(input.AvailableTo)
	}
	if err := validateSeason(from, to); err != nil {
		return nil, err
	}
	if input.ClearSeason || input.AvailableFrom != nil || input.AvailableTo != nil {
		updates["available_from"] = from
		updates["available_to"] = to
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Deactivate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	inactive := false
	return s.Update(ctx, id, UpdateInput{IsActive: &inactive})
}

// Delete hard-deletes a product that no batch has ever offered.
func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	refs, err := s.repo.CountBatchReferences(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count batch references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeInvalidOperation, "product is offered in a batch; deactivate it instead").
			WithDetails(map[string]any{"batch_products": refs})
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func validateSeason(from, to *time.Time) error {
	if from != nil && to != nil && from.After(*to) {
		return pkgerrors.New(pkgerrors.CodeValidation, "available_from must not be after available_to")
	}
	return nil
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
