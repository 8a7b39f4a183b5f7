package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
	"go.uber.org/zap"

	"hale/internal/domain/archive"
	errs "hale/internal/errors"
)

func newMockRepository(mt *mtest.T) *HistoryRepository {
	return NewHistoryRepository(zap.NewNop().Sugar(), mt.DB)
}

func TestHistoryRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("PutHistory", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		err := newMockRepository(mt).PutHistory(ctx, archive.HistoryRecord{ID: "h1", Source: "a.txt"})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "insert", evt.CommandName)
		assert.Equal(mt, historiesCollection, evt.Command.Lookup("insert").StringValue())
	})

	mt.Run("PutHistoryDuplicate", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		err := newMockRepository(mt).PutHistory(ctx, archive.HistoryRecord{ID: "h1"})
		assert.ErrorContains(mt, err, "h1")
	})

	mt.Run("PutVariantsEmpty", func(mt *mtest.T) {
		require.NoError(mt, newMockRepository(mt).PutVariants(ctx, nil))
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("PutVariants", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 2}))
		err := newMockRepository(mt).PutVariants(ctx, []archive.VariantRecord{
			{ID: "h1-00", HistoryID: "h1", Index: 0},
			{ID: "h1-01", HistoryID: "h1", Index: 1},
		})
		require.NoError(mt, err)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, variantsCollection, evt.Command.Lookup("insert").StringValue())
		assert.False(mt, evt.Command.Lookup("ordered").Boolean())
	})

	mt.Run("GetHistoryByID", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + historiesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "h1"},
			{Key: "source", Value: "logs/a.txt"},
			{Key: "turns", Value: 42},
			{Key: "winner", Value: 3},
		}))
		record, err := newMockRepository(mt).GetHistoryByID(ctx, "h1")
		require.NoError(mt, err)
		assert.Equal(mt, "h1", record.ID)
		assert.Equal(mt, "logs/a.txt", record.Source)
		assert.Equal(mt, 42, record.Turns)
		assert.Equal(mt, 3, record.Winner)
	})

	mt.Run("GetHistoryByIDMissing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + historiesCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		_, err := newMockRepository(mt).GetHistoryByID(ctx, "nope")
		assert.ErrorIs(mt, err, errs.ErrHistoryNotFound)
	})

	mt.Run("GetVariantsByHistoryID", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + variantsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "h1-00"}, {Key: "history_id", Value: "h1"}, {Key: "index", Value: 0}},
			bson.D{{Key: "_id", Value: "h1-01"}, {Key: "history_id", Value: "h1"}, {Key: "index", Value: 1}},
		))
		records, err := newMockRepository(mt).GetVariantsByHistoryID(ctx, "h1")
		require.NoError(mt, err)
		require.Len(mt, records, 2)
		assert.Equal(mt, "h1-01", records[1].ID)
		assert.Equal(mt, 1, records[1].Index)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "h1", evt.Command.Lookup("filter", "history_id").StringValue())
	})

	mt.Run("GetVariantsByHistoryIDMissing", func(mt *mtest.T) {
		ns := mt.DB.Name() + "." + variantsCollection
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		_, err := newMockRepository(mt).GetVariantsByHistoryID(ctx, "nope")
		assert.ErrorIs(mt, err, errs.ErrHistoryNotFound)
	})

	mt.Run("DeleteHistory", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 96}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		require.NoError(mt, newMockRepository(mt).DeleteHistory(ctx, "h1"))

		first := mt.GetStartedEvent()
		require.NotNil(mt, first)
		assert.Equal(mt, variantsCollection, first.Command.Lookup("delete").StringValue())
		second := mt.GetStartedEvent()
		require.NotNil(mt, second)
		assert.Equal(mt, historiesCollection, second.Command.Lookup("delete").StringValue())
	})

	mt.Run("DeleteHistoryVariantsFail", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    8000,
			Name:    "AtlasError",
			Message: "quota exceeded",
		}))
		err := newMockRepository(mt).DeleteHistory(ctx, "h1")
		assert.ErrorContains(mt, err, "variants of h1")
	})
}
