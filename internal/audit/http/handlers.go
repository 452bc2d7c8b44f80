package audithttp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/platform/httpx"
)

const maxPageSize = 50

// TimelineService defines the business contract for timeline data.
type TimelineService interface {
	Timeline(ctx context.Context, filters audit.TimelineFilters) (audit.Result, error)
	Export(ctx context.Context, filters audit.TimelineFilters) ([]audit.TimelineRow, error)
	Recent(ctx context.Context, entity string, limit int) ([]audit.RecentItem, error)
}

// Handler serves activity logs as JSON and CSV.
type Handler struct {
	logger  *slog.Logger
	service TimelineService
}

// NewHandler builds the activity log handler.
func NewHandler(logger *slog.Logger, service TimelineService) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

type timelineRow struct {
	At      string `json:"at"`
	Actor   string `json:"actor"`
	Action  string `json:"action"`
	Details string `json:"details,omitempty"`
}

type timelineResponse struct {
	Rows   []timelineRow    `json:"rows"`
	Paging audit.PagingInfo `json:"paging"`
}

func (h *Handler) handleTimeline(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	result, err := h.service.Timeline(r.Context(), filters)
	if err != nil {
		h.respondError(w, "load activity log", err)
		return
	}
	rows := make([]timelineRow, 0, len(result.Rows))
	for _, row := range result.Rows {
		rows = append(rows, timelineRow{At: row.Raw, Actor: row.Actor, Action: row.Action, Details: row.Details})
	}
	httpx.JSON(w, http.StatusOK, timelineResponse{Rows: rows, Paging: result.Paging})
}

func (h *Handler) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	items, err := h.service.Recent(r.Context(), chi.URLParam(r, "entity"), limit)
	if err != nil {
		h.respondError(w, "load recent activity", err)
		return
	}
	httpx.JSON(w, http.StatusOK, items)
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	filters, err := parseFilters(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	rows, err := h.service.Export(r.Context(), filters)
	if err != nil {
		h.respondError(w, "export activity log", err)
		return
	}
	csvBytes, err := audit.WriteCSV(rows)
	if err != nil {
		h.respondError(w, "encode csv", err)
		return
	}
	filename := strings.ToLower(filters.Entity) + "-" + strconv.FormatInt(filters.ID, 10) + "-activity.csv"
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+filename+"\"")
	if _, err := w.Write(csvBytes); err != nil {
		h.logger.Warn("write csv", slog.Any("error", err))
	}
}

func (h *Handler) respondError(w http.ResponseWriter, message string, err error) {
	if errors.Is(err, audit.ErrUnknownEntity) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", err.Error())
		return
	}
	h.logger.Error(message, slog.Any("error", err))
	httpx.RespondError(w, err)
}

var errInvalidFilter = errors.New("invalid filter")

func parseFilters(r *http.Request) (audit.TimelineFilters, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return audit.TimelineFilters{}, errInvalidFilter
	}
	query := r.URL.Query()
	page := 1
	if v := strings.TrimSpace(query.Get("page")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return audit.TimelineFilters{}, errInvalidFilter
		}
		page = parsed
	}
	pageSize := 0
	if v := strings.TrimSpace(query.Get("page_size")); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return audit.TimelineFilters{}, errInvalidFilter
		}
		if parsed > maxPageSize {
			parsed = maxPageSize
		}
		pageSize = parsed
	}
	return audit.TimelineFilters{
		Entity:   chi.URLParam(r, "entity"),
		ID:       id,
		Action:   strings.TrimSpace(query.Get("action")),
		Actor:    strings.TrimSpace(query.Get("actor")),
		Page:     page,
		PageSize: pageSize,
	}, nil
}
