package history

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hale/internal/domain/archive"
	domain "hale/internal/domain/history"
	errs "hale/internal/errors"
	"hale/internal/httpresponse"
	"hale/internal/usecase/augment"
	"hale/internal/utils"
)

type ArchiveService interface {
	ParseLog(text string) (*domain.GameHistory, error)
	AugmentLog(ctx context.Context, text string) ([]augment.Variant, error)
	StreamLog(ctx context.Context, text string, fn func(augment.Variant) error) error
	ImportLogsByPath(ctx context.Context, root string) (*archive.ImportSummary, error)
	GetHistoryByID(ctx context.Context, id string) (*archive.HistoryRecord, error)
	GetVariants(ctx context.Context, id string) ([]archive.VariantRecord, error)
}

type HistoryHandler struct {
	log        *zap.SugaredLogger
	archiveUC  ArchiveService
	defaultDir string
	upgrader   websocket.Upgrader
}

type AugmentResponse struct {
	Count    int               `json:"count"`
	Variants []augment.Variant `json:"variants"`
}

type streamError struct {
	Error string `json:"error"`
}

func NewHistoryHandler(log *zap.SugaredLogger, archiveUC ArchiveService, defaultDir string) *HistoryHandler {
	return &HistoryHandler{
		log:        log,
		archiveUC:  archiveUC,
		defaultDir: defaultDir,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

func (h *HistoryHandler) Register(r chi.Router) {
	r.Post("/parse", h.HandleParse)
	r.Post("/augment", h.HandleAugment)
	r.Get("/augment/stream", h.HandleAugmentStream)
	r.Post("/import", h.HandleImport)
	r.Get("/histories/{id}", h.HandleGetHistory)
	r.Get("/histories/{id}/variants", h.HandleGetVariants)
}

func (h *HistoryHandler) HandleParse(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadRequestBody(w, r)
	if err != nil {
		h.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	parsed, err := h.archiveUC.ParseLog(string(body))
	if err != nil {
		h.log.Errorw("failed to parse log", "error", err)
		httpresponse.WriteError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, parsed)
}

func (h *HistoryHandler) HandleAugment(w http.ResponseWriter, r *http.Request) {
	body, err := utils.ReadRequestBody(w, r)
	if err != nil {
		h.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}

	variants, err := h.archiveUC.AugmentLog(r.Context(), string(body))
	if err != nil {
		h.log.Errorw("failed to augment log", "error", err)
		httpresponse.WriteError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, AugmentResponse{Count: len(variants), Variants: variants})
}

// HandleAugmentStream reads one log from the socket and answers with one
// message per variant, in group order, then closes.
func (h *HistoryHandler) HandleAugmentStream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(utils.MaxLogBytes)
	_, msg, err := conn.ReadMessage()
	if err != nil {
		h.log.Errorw("failed to read log from websocket", "error", err)
		return
	}

	sent := 0
	err = h.archiveUC.StreamLog(r.Context(), string(msg), func(v augment.Variant) error {
		sent++
		return conn.WriteJSON(v)
	})
	if err != nil {
		h.log.Errorw("augment stream stopped", "sent", sent, "error", err)
		var closeErr *websocket.CloseError
		if !errors.As(err, &closeErr) {
			_ = conn.WriteJSON(streamError{Error: err.Error()})
		}
	}

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

func (h *HistoryHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	var req archive.ImportRequest
	if err := utils.DecodeJSONRequest(w, r, &req); err != nil {
		h.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, httpresponse.ErrorResponse{ErrorDescription: err.Error()})
		return
	}
	root, err := resolveImportPath(h.defaultDir, req.Path)
	if err != nil {
		h.log.Warnw("rejected import path", "path", req.Path, "error", err)
		httpresponse.WriteError(w, err)
		return
	}

	summary, err := h.archiveUC.ImportLogsByPath(r.Context(), root)
	if err != nil {
		h.log.Errorw("import failed", "path", root, "error", err)
		httpresponse.WriteError(w, err)
		return
	}

	h.log.Infof("imported %d logs from %s", len(summary.Imported), root)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, summary)
}

func (h *HistoryHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	record, err := h.archiveUC.GetHistoryByID(r.Context(), id)
	if err != nil {
		if !errors.Is(err, errs.ErrHistoryNotFound) {
			h.log.Error(err)
		}
		httpresponse.WriteError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, record)
}

func (h *HistoryHandler) HandleGetVariants(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	records, err := h.archiveUC.GetVariants(r.Context(), id)
	if err != nil {
		if !errors.Is(err, errs.ErrHistoryNotFound) {
			h.log.Error(err)
		}
		httpresponse.WriteError(w, err)
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, records)
}

// resolveImportPath places a requested import path under logDir. Absolute
// paths and paths that climb out of logDir are rejected.
func resolveImportPath(logDir, requested string) (string, error) {
	base := filepath.Clean(logDir)
	if requested == "" {
		return base, nil
	}
	if filepath.IsAbs(requested) {
		return "", fmt.Errorf("%q: %w", requested, errs.ErrPathOutsideLogDir)
	}
	root := filepath.Join(base, requested)
	rel, err := filepath.Rel(base, root)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%q: %w", requested, errs.ErrPathOutsideLogDir)
	}
	return root, nil
}
