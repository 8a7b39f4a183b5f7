package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"hale/internal/domain/archive"
	errs "hale/internal/errors"
)

const (
	historiesCollection = "histories"
	variantsCollection  = "variants"
	queryTimeout        = 5 * time.Second
	// a full set of variants for a long game is large; give inserts longer
	insertTimeout = 30 * time.Second
)

type HistoryRepository struct {
	log   *zap.SugaredLogger
	mongo *mongo.Database
}

func NewHistoryRepository(log *zap.SugaredLogger, mongo *mongo.Database) *HistoryRepository {
	return &HistoryRepository{
		log:   log,
		mongo: mongo,
	}
}

func (h *HistoryRepository) PutHistory(ctx context.Context, record archive.HistoryRecord) error {
	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	_, err := h.mongo.Collection(historiesCollection).InsertOne(ctx, record)
	if err != nil {
		h.log.Errorw("failed to insert history", "id", record.ID, "source", record.Source, "error", err)
		return fmt.Errorf("failed to insert history %s: %w", record.ID, err)
	}

	h.log.Infof("history %s inserted from %s", record.ID, record.Source)
	return nil
}

func (h *HistoryRepository) PutVariants(ctx context.Context, records []archive.VariantRecord) error {
	if len(records) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, insertTimeout)
	defer cancel()

	docs := make([]interface{}, 0, len(records))
	for _, r := range records {
		docs = append(docs, r)
	}

	opts := options.InsertMany().SetOrdered(false)
	_, err := h.mongo.Collection(variantsCollection).InsertMany(ctx, docs, opts)
	if err != nil {
		h.log.Errorw("failed to insert variants", "history_id", records[0].HistoryID, "error", err)
		return fmt.Errorf("failed to insert variants of %s: %w", records[0].HistoryID, err)
	}
	return nil
}

func (h *HistoryRepository) GetHistoryByID(ctx context.Context, id string) (*archive.HistoryRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var record archive.HistoryRecord
	err := h.mongo.Collection(historiesCollection).FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrHistoryNotFound
	} else if err != nil {
		h.log.Error(err)
		return nil, err
	}
	return &record, nil
}

func (h *HistoryRepository) GetVariantsByHistoryID(ctx context.Context, id string) ([]archive.VariantRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "index", Value: 1}})
	cursor, err := h.mongo.Collection(variantsCollection).Find(ctx, bson.M{"history_id": id}, opts)
	if err != nil {
		h.log.Error(err)
		return nil, err
	}
	defer cursor.Close(ctx)

	var result []archive.VariantRecord
	if err := cursor.All(ctx, &result); err != nil {
		h.log.Error(err)
		return nil, err
	}
	if len(result) == 0 {
		return nil, errs.ErrHistoryNotFound
	}
	return result, nil
}

// DeleteHistory removes a history and its variants.
func (h *HistoryRepository) DeleteHistory(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := h.mongo.Collection(variantsCollection).DeleteMany(ctx, bson.M{"history_id": id}); err != nil {
		return fmt.Errorf("failed to delete variants of %s: %w", id, err)
	}
	if _, err := h.mongo.Collection(historiesCollection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete history %s: %w", id, err)
	}
	return nil
}
