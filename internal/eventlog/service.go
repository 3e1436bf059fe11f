package eventlog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

// Entry is one audit record. Metadata is marshalled to JSON.
type Entry struct {
	EntityType enums.EventEntityType
	EntityID   uuid.UUID
	Action     enums.EventAction
	Metadata   any
	ActorID    uuid.UUID
}

// Appender is what state-changing services depend on.
type Appender interface {
	Append(ctx context.Context, tx *gorm.DB, entry Entry) error
}

// Service records and reads the audit trail.
type Service interface {
	Appender
	ListForEntity(ctx context.Context, entityType enums.EventEntityType, entityID uuid.UUID) ([]models.EventLog, error)
}

type service struct {
	repo Repository
}

// NewService wires an event log service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("event log repository required")
	}
	return &service{repo: repo}, nil
}

// Append writes entry inside tx. A nil tx is rejected: audit rows are only
// written together with the change they describe.
func (s *service) Append(ctx context.Context, tx *gorm.DB, entry Entry) error {
	if tx == nil {
		return fmt.Errorf("event log append requires a transaction")
	}
	if !entry.EntityType.IsValid() {
		return fmt.Errorf("invalid event entity type %q", entry.EntityType)
	}
	if !entry.Action.IsValid() {
		return fmt.Errorf("invalid event action %q", entry.Action)
	}
	if entry.EntityID == uuid.Nil {
		return fmt.Errorf("event entity id is required")
	}

	var metadata json.RawMessage
	if entry.Metadata != nil {
		raw, err := json.Marshal(entry.Metadata)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode event metadata")
		}
		metadata = raw
	}

	row := &models.EventLog{
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		Metadata:   metadata,
	}
	if entry.ActorID != uuid.Nil {
		actor := entry.ActorID
		row.ActorID = &actor
	}

	if err := s.repo.WithTx(tx).Create(ctx, row); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append event log")
	}
	return nil
}

func (s *service) ListForEntity(ctx context.Context, entityType enums.EventEntityType, entityID uuid.UUID) ([]models.EventLog, error) {
	if !entityType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid entity type")
	}
	if entityID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "entity id required")
	}
	entries, err := s.repo.ListForEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list event log")
	}
	return entries, nil
}
