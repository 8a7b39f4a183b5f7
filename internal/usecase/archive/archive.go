package archive

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"hale/internal/domain/archive"
	"hale/internal/domain/history"
	errs "hale/internal/errors"
	"hale/internal/usecase/augment"
	"hale/internal/usecase/parse"
)

type HistoryStore interface {
	PutHistory(ctx context.Context, record archive.HistoryRecord) error
	PutVariants(ctx context.Context, records []archive.VariantRecord) error
	GetHistoryByID(ctx context.Context, id string) (*archive.HistoryRecord, error)
	GetVariantsByHistoryID(ctx context.Context, id string) ([]archive.VariantRecord, error)
	DeleteHistory(ctx context.Context, id string) error
}

type ImportCache interface {
	ImportedHistoryID(ctx context.Context, hash string) (string, bool, error)
	MarkImported(ctx context.Context, hash string, historyID string) (bool, error)
	Forget(ctx context.Context, hash string) error
}

type ArchiveUseCase struct {
	store     HistoryStore
	cache     ImportCache
	parser    *parse.Parser
	augmenter *augment.Augmenter
	log       *zap.SugaredLogger
	logExt    string
	now       func() time.Time
}

func NewArchiveUseCase(
	store HistoryStore,
	cache ImportCache,
	parser *parse.Parser,
	augmenter *augment.Augmenter,
	log *zap.SugaredLogger,
	logExt string,
) *ArchiveUseCase {
	return &ArchiveUseCase{
		store:     store,
		cache:     cache,
		parser:    parser,
		augmenter: augmenter,
		log:       log,
		logExt:    logExt,
		now:       time.Now,
	}
}

func (a *ArchiveUseCase) ParseLog(text string) (*history.GameHistory, error) {
	return a.parser.ParseString(text)
}

func (a *ArchiveUseCase) AugmentLog(ctx context.Context, text string) ([]augment.Variant, error) {
	h, err := a.parser.ParseString(text)
	if err != nil {
		return nil, err
	}
	return a.augmenter.Augment(ctx, h)
}

func (a *ArchiveUseCase) StreamLog(ctx context.Context, text string, fn func(augment.Variant) error) error {
	h, err := a.parser.ParseString(text)
	if err != nil {
		return err
	}
	return a.augmenter.Stream(ctx, h, fn)
}

// ImportLog parses one log, augments it and stores the history with all of
// its variants. A log whose content was imported before is rejected with
// ErrAlreadyImported.
func (a *ArchiveUseCase) ImportLog(ctx context.Context, source string, data []byte) (string, int, error) {
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	if id, ok, err := a.cache.ImportedHistoryID(ctx, hash); err != nil {
		return "", 0, err
	} else if ok {
		stale, err := a.isStale(ctx, id)
		if err != nil {
			return "", 0, err
		}
		if !stale {
			return id, 0, fmt.Errorf("%s as %s: %w", source, id, errs.ErrAlreadyImported)
		}
		a.log.Warnw("import cache points at a missing history, importing again", "source", source, "id", id)
		if err := a.cache.Forget(ctx, hash); err != nil {
			return "", 0, err
		}
	}

	h, err := a.parser.ParseString(string(data))
	if err != nil {
		return "", 0, fmt.Errorf("%s: %w", source, err)
	}

	variants, err := a.augmenter.Augment(ctx, h)
	if err != nil {
		return "", 0, err
	}

	id := uuid.New().String()
	record := archive.HistoryRecord{
		ID:         id,
		Source:     source,
		Hash:       hash,
		Turns:      len(h.Turns),
		Winner:     h.Winner,
		Value:      h.Value,
		ImportedAt: a.now().UTC(),
		History:    h,
	}
	if err := a.store.PutHistory(ctx, record); err != nil {
		return "", 0, err
	}

	records := make([]archive.VariantRecord, 0, len(variants))
	for _, v := range variants {
		records = append(records, archive.VariantRecord{
			ID:        fmt.Sprintf("%s-%02d", id, v.Index),
			HistoryID: id,
			Index:     v.Index,
			Transform: archive.TransformRecord{
				Perm:       v.Transform.Perm,
				Horizontal: v.Transform.Horizontal,
				Vertical:   v.Transform.Vertical,
			},
			History: v.History,
		})
	}
	if err := a.store.PutVariants(ctx, records); err != nil {
		a.rollback(ctx, id)
		return "", 0, err
	}

	claimed, err := a.cache.MarkImported(ctx, hash, id)
	if err != nil {
		a.rollback(ctx, id)
		return "", 0, err
	}
	if !claimed {
		a.rollback(ctx, id)
		return "", 0, fmt.Errorf("%s: %w", source, errs.ErrAlreadyImported)
	}

	a.log.Infow("log imported", "source", source, "id", id, "turns", len(h.Turns), "variants", len(records))
	return id, len(records), nil
}

// isStale reports whether a cached import points at a history that has
// since been removed from the store.
func (a *ArchiveUseCase) isStale(ctx context.Context, id string) (bool, error) {
	_, err := a.store.GetHistoryByID(ctx, id)
	if errors.Is(err, errs.ErrHistoryNotFound) {
		return true, nil
	}
	return false, err
}

func (a *ArchiveUseCase) rollback(ctx context.Context, id string) {
	if err := a.store.DeleteHistory(ctx, id); err != nil {
		a.log.Errorw("failed to roll back history", "id", id, "error", err)
	}
}

// ImportLogsByPath imports every log under root. Logs that do not parse are
// reported in the summary and skipped; storage errors abort the walk.
func (a *ArchiveUseCase) ImportLogsByPath(ctx context.Context, root string) (*archive.ImportSummary, error) {
	summary := &archive.ImportSummary{
		Imported: []string{},
		Skipped:  []string{},
		Failed:   []archive.ImportFailure{},
	}
	seen := 0

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), a.logExt) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		seen++

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		_, n, err := a.ImportLog(ctx, path, data)
		switch {
		case err == nil:
			summary.Imported = append(summary.Imported, path)
			summary.Variants += n
		case errors.Is(err, errs.ErrAlreadyImported):
			a.log.Infof("skipping %s: already imported", path)
			summary.Skipped = append(summary.Skipped, path)
		case errors.Is(err, errs.ErrStructural):
			a.log.Errorw("failed to parse log", "path", path, "error", err)
			summary.Failed = append(summary.Failed, archive.ImportFailure{Path: path, Error: err.Error()})
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return summary, err
	}
	if seen == 0 {
		return summary, fmt.Errorf("%s: %w", root, errs.ErrEmptyLogDir)
	}
	return summary, nil
}

func (a *ArchiveUseCase) GetHistoryByID(ctx context.Context, id string) (*archive.HistoryRecord, error) {
	return a.store.GetHistoryByID(ctx, id)
}

func (a *ArchiveUseCase) GetVariants(ctx context.Context, id string) ([]archive.VariantRecord, error) {
	return a.store.GetVariantsByHistoryID(ctx, id)
}
