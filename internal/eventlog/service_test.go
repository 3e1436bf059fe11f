package eventlog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/farmbatch-backend/pkg/db/dbtest"
	"github.com/angelmondragon/farmbatch-backend/pkg/db/models"
	"github.com/angelmondragon/farmbatch-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/farmbatch-backend/pkg/errors"
)

type fakeRepository struct {
	createFn func(ctx context.Context, entry *models.EventLog) error
}

func (f *fakeRepository) WithTx(tx *gorm.DB) Repository {
	return f
}

func (f *fakeRepository) Create(ctx context.Context, entry *models.EventLog) error {
	if f.createFn != nil {
		return f.createFn(ctx, entry)
	}
	return nil
}

func (f *fakeRepository) ListForEntity(ctx context.Context, entityType enums.EventEntityType, entityID uuid.UUID) ([]models.EventLog, error) {
	return nil, nil
}

func TestAppendRequiresTransaction(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	require.NoError(t, err)

	err = svc.Append(context.Background(), nil, Entry{
		EntityType: enums.EventEntityTypeBatch,
		EntityID:   uuid.New(),
		Action:     enums.EventActionStatusChange,
	})
	require.Error(t, err)
}

func TestAppendValidatesEntry(t *testing.T) {
	svc, err := NewService(&fakeRepository{})
	require.NoError(t, err)
	tx := &gorm.DB{}

	cases := []Entry{
		{EntityType: "WAREHOUSE", EntityID: uuid.New(), Action: enums.EventActionStatusChange},
		{EntityType: enums.EventEntityTypeOrder, EntityID: uuid.New(), Action: "SHIPPED"},
		{EntityType: enums.EventEntityTypeOrder, Action: enums.EventActionOrderCreated},
	}
	for _, entry := range cases {
		require.Error(t, svc.Append(context.Background(), tx, entry), "entry %+v", entry)
	}
}

func TestAppendWrapsStorageErrors(t *testing.T) {
	repo := &fakeRepository{createFn: func(context.Context, *models.EventLog) error {
		return errors.New("disk full")
	}}
	svc, err := NewService(repo)
	require.NoError(t, err)

	err = svc.Append(context.Background(), &gorm.DB{}, Entry{
		EntityType: enums.EventEntityTypeOrder,
		EntityID:   uuid.New(),
		Action:     enums.EventActionOrderCreated,
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
}

func TestAppendAndListForEntity(t *testing.T) {
	client := dbtest.Client(t)
	svc, err := NewService(NewRepository(client.DB()))
	require.NoError(t, err)

	ctx := context.Background()
	batchID := uuid.New()
	actor := uuid.New()

	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := svc.Append(ctx, tx, Entry{
			EntityType: enums.EventEntityTypeBatch,
			EntityID:   batchID,
			Action:     enums.EventActionBatchCreated,
			ActorID:    actor,
		}); err != nil {
			return err
		}
		return svc.Append(ctx, tx, Entry{
			EntityType: enums.EventEntityTypeBatch,
			EntityID:   batchID,
			Action:     enums.EventActionStatusChange,
			Metadata:   map[string]string{"from": "DRAFT", "to": "OPEN"},
		})
	})
	require.NoError(t, err)

	// rolled back appends leave nothing behind
	err = client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := svc.Append(ctx, tx, Entry{
			EntityType: enums.EventEntityTypeBatch,
			EntityID:   batchID,
			Action:     enums.EventActionBatchUpdated,
		}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	entries, err := svc.ListForEntity(ctx, enums.EventEntityTypeBatch, batchID)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	actions := []enums.EventAction{entries[0].Action, entries[1].Action}
	require.ElementsMatch(t, []enums.EventAction{enums.EventActionBatchCreated, enums.EventActionStatusChange}, actions)

	for _, entry := range entries {
		switch entry.Action {
		case enums.EventActionBatchCreated:
			require.NotNil(t, entry.ActorID)
			require.Equal(t, actor, *entry.ActorID)
			require.Empty(t, entry.Metadata)
		case enums.EventActionStatusChange:
			require.Nil(t, entry.ActorID)
			var meta map[string]string
			require.NoError(t, json.Unmarshal(entry.Metadata, &meta))
			require.Equal(t, "OPEN", meta["to"])
		}
	}

	_, err = svc.ListForEntity(ctx, "NOPE", batchID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
