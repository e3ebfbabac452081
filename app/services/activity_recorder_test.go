package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsharma-dev/inventra/app/models"
	"github.com/rsharma-dev/inventra/app/repositories"
	"github.com/rsharma-dev/inventra/app/services"
	"github.com/rsharma-dev/inventra/pkg/event"
)

func TestRecorderWritesInBackground(t *testing.T) {
	repo := repositories.NewMemoryActivityRepository()
	recorder := services.NewActivityRecorder(repo)

	for i := 0; i < 5; i++ {
		recorder.Record(models.Activity{
			EntityType:  models.EntityProduct,
			Action:      models.ActionCreated,
			Description: "created something",
		})
	}
	recorder.Close() // flushes the queue

	items, err := repo.List(context.Background(), repositories.ActivityQuery{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 5)
	for _, a := range items {
		assert.False(t, a.Timestamp.IsZero())
		assert.False(t, a.ID.IsZero())
	}
}

func TestRecorderNewestFirstWithFilters(t *testing.T) {
	repo := repositories.NewMemoryActivityRepository()
	recorder := services.NewActivityRecorder(repo)

	recorder.Record(models.Activity{EntityType: models.EntityProduct, Action: models.ActionCreated})
	recorder.Record(models.Activity{EntityType: models.EntityOrder, Action: models.ActionOrdered})
	recorder.Record(models.Activity{EntityType: models.EntityProduct, Action: models.ActionDeleted})
	recorder.Close()

	items, err := repo.List(context.Background(), repositories.ActivityQuery{EntityType: models.EntityProduct})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.ActionDeleted, items[0].Action, "newest first")

	items, err = repo.List(context.Background(), repositories.ActivityQuery{Action: models.ActionOrdered})
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRecorderFiresEventPerRecord(t *testing.T) {
	event.Flush()
	defer event.Flush()

	got := make(chan models.Activity, 1)
	event.Listen(services.EventActivityRecorded, func(payload interface{}) {
		if a, ok := payload.(models.Activity); ok {
			got <- a
		}
	})

	recorder := services.NewActivityRecorder(repositories.NewMemoryActivityRepository())
	recorder.Record(models.Activity{
		EntityType:  models.EntityOrder,
		Action:      models.ActionOrdered,
		Description: "Created order with 2 items",
	})

	select {
	case a := <-got:
		assert.Equal(t, models.ActionOrdered, a.Action)
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")
	}
	recorder.Close()
}

func TestRecorderNeverBlocksCaller(t *testing.T) {
	recorder := services.NewActivityRecorder(repositories.NewMemoryActivityRepository())
	defer recorder.Close()

	done := make(chan struct{})
	go func() {
		// Far more than the queue holds; Record must drop, not block.
		for i := 0; i < 10000; i++ {
			recorder.Record(models.Activity{EntityType: models.EntityProduct, Action: models.ActionUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Record blocked the caller")
	}
}
