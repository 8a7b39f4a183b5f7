package archive

import (
	"time"

	"hale/internal/domain/history"
)

// HistoryRecord is a parsed log as stored in the histories collection.
type HistoryRecord struct {
	ID         string               `json:"id" bson:"_id"`
	Source     string               `json:"source" bson:"source"`
	Hash       string               `json:"hash" bson:"hash"`
	Turns      int                  `json:"turns" bson:"turns"`
	Winner     int                  `json:"winner" bson:"winner"`
	Value      int                  `json:"value" bson:"value"`
	ImportedAt time.Time            `json:"imported_at" bson:"imported_at"`
	History    *history.GameHistory `json:"history,omitempty" bson:"history"`
}

type TransformRecord struct {
	Perm       [history.NumLayers]history.Chain `json:"perm" bson:"perm"`
	Horizontal bool                             `json:"horizontal" bson:"horizontal"`
	Vertical   bool                             `json:"vertical" bson:"vertical"`
}

// VariantRecord is one augmented copy of a stored history.
type VariantRecord struct {
	ID        string               `json:"id" bson:"_id"`
	HistoryID string               `json:"history_id" bson:"history_id"`
	Index     int                  `json:"index" bson:"index"`
	Transform TransformRecord      `json:"transform" bson:"transform"`
	History   *history.GameHistory `json:"history" bson:"history"`
}

type ImportFailure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type ImportSummary struct {
	Imported []string        `json:"imported"`
	Skipped  []string        `json:"skipped"`
	Failed   []ImportFailure `json:"failed"`
	Variants int             `json:"variants"`
}

type ImportRequest struct {
	Path string `json:"path"`
}
