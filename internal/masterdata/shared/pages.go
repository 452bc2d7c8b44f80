package shared

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/backend"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/listing"
	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/resource"
	internalShared "github.com/synexis/synexis-admin/internal/shared"
)

// Detail page tabs.
const (
	TabOverview = "overview"
	TabActivity = "activity"
)

// Page section names.
const (
	SectionList     = "list"
	SectionRecent   = "recent"
	SectionRecord   = "record"
	SectionSide     = "side"
	SectionActivity = "activity"
)

// Meta describes an entity to the shared templates.
type Meta struct {
	Entity   string
	Singular string
	Plural   string
	BasePath string
}

// ListPage is the data of a list page.
type ListPage[T any] struct {
	Meta
	Page   listing.Page[T]
	Recent []audit.RecentItem
}

// DetailPage is the data of a detail page.
type DetailPage[T any] struct {
	Meta
	Record   T
	Side     []cascade.Option
	Tab      string
	Activity audit.Result
}

// Sources are the loaders behind the list and detail pages of one entity.
type Sources[T any] struct {
	Meta     Meta
	List     func(ctx context.Context) ([]T, error)
	Get      func(ctx context.Context, id int64) (T, error)
	Side     func(ctx context.Context) ([]cascade.Option, error)
	Activity *audit.Service
	Fields   func(T) []string
}

// ParseTab reads ?tab, defaulting to the overview.
func ParseTab(r *http.Request) string {
	if r.URL.Query().Get("tab") == TabActivity {
		return TabActivity
	}
	return TabOverview
}

// LoadList fetches the list and the recent activities concurrently. A failed
// section leaves its part of the page empty.
func (s Sources[T]) LoadList(ctx context.Context, q listing.Query) (ListPage[T], resource.Results) {
	var (
		items  []T
		recent []audit.RecentItem
		g      resource.Group
	)
	g.Add(SectionList, func(ctx context.Context) error {
		var err error
		items, err = s.List(ctx)
		return err
	})
	if s.Activity != nil {
		g.Add(SectionRecent, func(ctx context.Context) error {
			var err error
			recent, err = s.Activity.Recent(ctx, s.Meta.Entity, RecentLimit)
			return err
		})
	}
	results := g.Wait(ctx)
	if items == nil {
		items = []T{}
	}
	return ListPage[T]{Meta: s.Meta, Page: listing.Apply(items, q, s.Fields), Recent: recent}, results
}

// LoadDetail fetches the record, the side list and, on the activity tab, the
// record's activity log concurrently.
func (s Sources[T]) LoadDetail(ctx context.Context, id int64, tab string, page int) (DetailPage[T], resource.Results) {
	out := DetailPage[T]{Meta: s.Meta, Tab: tab}
	var g resource.Group
	g.Add(SectionRecord, func(ctx context.Context) error {
		var err error
		out.Record, err = s.Get(ctx, id)
		return err
	})
	if s.Side != nil {
		g.Add(SectionSide, func(ctx context.Context) error {
			var err error
			out.Side, err = s.Side(ctx)
			return err
		})
	}
	if tab == TabActivity && s.Activity != nil {
		g.Add(SectionActivity, func(ctx context.Context) error {
			var err error
			out.Activity, err = s.Activity.Timeline(ctx, audit.TimelineFilters{Entity: s.Meta.Entity, ID: id, Page: page})
			return err
		})
	}
	return out, g.Wait(ctx)
}

// sectionMessage is the notification shown when a page section fails.
func sectionMessage(meta Meta, name string, err error) string {
	switch name {
	case SectionList:
		return fmt.Sprintf("Failed to load %s. Please try again.", meta.Plural)
	case SectionRecent:
		return "Failed to load recent activities."
	case SectionSide:
		return fmt.Sprintf("Failed to load the %s list.", meta.Singular)
	case SectionActivity:
		return "Failed to load the activity log."
	}
	return internalShared.UserSafeMessage(err)
}

// Report logs and notifies every failed section except skip.
func Report(inbox *notify.Inbox, logger *slog.Logger, meta Meta, results resource.Results, skip ...string) {
	skipped := make(map[string]bool, len(skip))
	for _, name := range skip {
		skipped[name] = true
	}
	for _, name := range results.Failed() {
		if skipped[name] {
			continue
		}
		err := results.Err(name)
		logger.Error("load page section", slog.String("entity", meta.Entity), slog.String("section", name), slog.Any("error", err))
		inbox.Error(sectionMessage(meta, name, err))
	}
}

// ServeImage writes a proxied image.
func ServeImage(w http.ResponseWriter, blob backend.Blob, err error) {
	if err != nil {
		http.Error(w, http.StatusText(statusOf(err)), statusOf(err))
		return
	}
	contentType := blob.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(blob.Data)
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(blob.Data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(blob.Data)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, internalShared.ErrInvalidID), errors.Is(err, backend.ErrValidation):
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

// FormFailure splits a failed submission into the field errors shown next to
// inputs and the notification text. fallback is used for backend failures.
func FormFailure(err error, fallback string) (internalShared.FieldErrors, string) {
	var fields internalShared.FieldErrors
	if errors.As(err, &fields) {
		return fields, fields.Summary()
	}
	if errors.Is(err, backend.ErrValidation) {
		return internalShared.FieldErrors{}, internalShared.UserSafeMessage(err)
	}
	return internalShared.FieldErrors{}, fallback
}
