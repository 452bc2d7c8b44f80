package audit

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// ErrUnknownEntity is returned for entity names without an activity log.
var ErrUnknownEntity = errors.New("audit: unknown entity")

const (
	defaultPageSize = 20
	maxPageSize     = 50
)

// Repository reads activity logs.
type Repository interface {
	Timeline(ctx context.Context, entity string, id int64) ([]Entry, error)
	Recent(ctx context.Context, entity string) ([]RecentItem, error)
}

// Result wraps a timeline page.
type Result struct {
	Rows   []TimelineRow
	Paging PagingInfo
}

// Service coordinates activity log reads.
type Service struct {
	repo Repository
}

// NewService builds the activity log service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ValidEntity reports whether entity has an activity log.
func ValidEntity(entity string) bool {
	for _, e := range Entities {
		if e == entity {
			return true
		}
	}
	return false
}

// Timeline returns one page of a record's log, newest first.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	rows, err := s.Export(ctx, filters)
	if err != nil {
		return Result{}, err
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize
	if offset > len(rows) {
		offset = len(rows)
	}
	end := offset + pageSize
	hasNext := end < len(rows)
	if !hasNext {
		end = len(rows)
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows[offset:end], Paging: paging}, nil
}

// Export returns the whole filtered log of a record, newest first.
func (s *Service) Export(ctx context.Context, filters TimelineFilters) ([]TimelineRow, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	if !ValidEntity(filters.Entity) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, filters.Entity)
	}
	entries, err := s.repo.Timeline(ctx, filters.Entity, filters.ID)
	if err != nil {
		return nil, err
	}
	action := strings.TrimSpace(filters.Action)
	actor := strings.TrimSpace(filters.Actor)
	rows := make([]TimelineRow, 0, len(entries))
	for _, entry := range entries {
		if action != "" && !strings.EqualFold(entry.Action, action) {
			continue
		}
		if actor != "" && !strings.EqualFold(entry.PerformedBy, actor) {
			continue
		}
		rows = append(rows, mapEntry(entry))
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].At.After(rows[j].At) })
	return rows, nil
}

// Recent returns at most limit recent activities of an entity. A limit of
// zero or less returns all of them.
func (s *Service) Recent(ctx context.Context, entity string, limit int) ([]RecentItem, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	if !ValidEntity(entity) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEntity, entity)
	}
	items, err := s.repo.Recent(ctx, entity)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

func mapEntry(e Entry) TimelineRow {
	return TimelineRow{
		At:      parseTimestamp(e.Timestamp),
		Raw:     e.Timestamp,
		Actor:   e.PerformedBy,
		Action:  e.Action,
		Details: e.Details,
	}
}
