package dashboard

import (
	"context"
	"html/template"
	"sort"
	"time"

	"github.com/synexis/synexis-admin/internal/audit"
	"github.com/synexis/synexis-admin/internal/cascade"
	"github.com/synexis/synexis-admin/internal/resource"
	"github.com/synexis/synexis-admin/internal/view"
)

// activityLimit caps the merged activity feed.
const activityLimit = 15

// Counter names one entity shown on the dashboard.
type Counter struct {
	Entity string
	Label  string
	Path   string
	Load   func(ctx context.Context) ([]cascade.Option, error)
}

// Count is the record total of one entity.
type Count struct {
	Entity string
	Label  string
	Path   string
	Total  int
	Status resource.Status
}

// Failed reports whether the total could not be loaded.
func (c Count) Failed() bool { return c.Status == resource.StatusError }

// Activity is one recent change with the entity it happened on.
type Activity struct {
	Entity string
	audit.RecentItem
}

// Overview is the content of the home page.
type Overview struct {
	Counts   []Count
	Activity []Activity
	Chart    template.HTML
}

// Service assembles the overview from the entity side lists and activity logs.
// Each total is a shared resource, so concurrent home page loads fetch every
// side list once.
type Service struct {
	counters []Counter
	totals   []*resource.Resource[int]
	activity *audit.Service
}

// NewService builds the dashboard service.
func NewService(activity *audit.Service, counters ...Counter) *Service {
	totals := make([]*resource.Resource[int], len(counters))
	for i, c := range counters {
		totals[i] = resource.New(func(ctx context.Context) (int, error) {
			rows, err := c.Load(ctx)
			return len(rows), err
		})
	}
	return &Service{counters: counters, totals: totals, activity: activity}
}

func countSection(entity string) string    { return "count:" + entity }
func activitySection(entity string) string { return "activity:" + entity }

// Load fetches every count and activity log concurrently. A failing section
// leaves its part of the overview empty and is reported in the results.
func (s *Service) Load(ctx context.Context) (Overview, resource.Results) {
	counts := make([]Count, len(s.counters))
	feeds := make([][]audit.RecentItem, len(s.counters))

	var g resource.Group
	for i, c := range s.counters {
		counts[i] = Count{Entity: c.Entity, Label: c.Label, Path: c.Path}
		g.Add(countSection(c.Entity), func(ctx context.Context) error {
			st := s.totals[i].Reload(ctx)
			counts[i].Total = st.Data
			counts[i].Status = st.Status
			return st.Err
		})
		if s.activity != nil {
			g.Add(activitySection(c.Entity), func(ctx context.Context) error {
				items, err := s.activity.Recent(ctx, c.Entity, activityLimit)
				feeds[i] = items
				return err
			})
		}
	}
	results := g.Wait(ctx)

	var out Overview
	for i, c := range counts {
		for _, item := range feeds[i] {
			out.Activity = append(out.Activity, Activity{Entity: c.Entity, RecentItem: item})
		}
	}
	out.Counts = counts
	if chart, err := Bars(counts); err == nil {
		out.Chart = chart
	}
	sort.SliceStable(out.Activity, func(i, j int) bool {
		return stamp(out.Activity[i].Date).After(stamp(out.Activity[j].Date))
	})
	if len(out.Activity) > activityLimit {
		out.Activity = out.Activity[:activityLimit]
	}
	return out, results
}

func stamp(raw string) time.Time {
	t, _ := view.ParseStamp(raw)
	return t
}
