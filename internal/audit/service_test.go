package audit

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type stubTimelineRepo struct {
	entries    []Entry
	recent     []RecentItem
	err        error
	lastEntity string
	lastID     int64
}

func (s *stubTimelineRepo) Timeline(ctx context.Context, entity string, id int64) ([]Entry, error) {
	s.lastEntity, s.lastID = entity, id
	return s.entries, s.err
}

func (s *stubTimelineRepo) Recent(ctx context.Context, entity string) ([]RecentItem, error) {
	s.lastEntity = entity
	return s.recent, s.err
}

func sampleEntries() []Entry {
	return []Entry{
		{Timestamp: "2024-03-08T08:00:00", Action: "CREATE", PerformedBy: "nimal"},
		{Timestamp: "2024-03-10T10:00:00Z", Action: "UPDATE", PerformedBy: "kamal", Details: "price changed"},
		{Timestamp: "2024-03-09T09:00:00", Action: "UPDATE", PerformedBy: "nimal"},
	}
}

func TestServiceTimelineNewestFirstWithPaging(t *testing.T) {
	repo := &stubTimelineRepo{entries: sampleEntries()}
	svc := NewService(repo)

	result, err := svc.Timeline(context.Background(), TimelineFilters{Entity: EntityMaterial, ID: 7, Page: 1, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, EntityMaterial, repo.lastEntity)
	require.EqualValues(t, 7, repo.lastID)
	require.Len(t, result.Rows, 2)
	require.Equal(t, "kamal", result.Rows[0].Actor)
	require.Equal(t, "2024-03-09T09:00:00", result.Rows[1].Raw)
	require.True(t, result.Paging.HasNext)
	require.Equal(t, 2, result.Paging.NextPage)

	second, err := svc.Timeline(context.Background(), TimelineFilters{Entity: EntityMaterial, ID: 7, Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Len(t, second.Rows, 1)
	require.False(t, second.Paging.HasNext)
	require.Equal(t, 1, second.Paging.PrevPage)

	beyond, err := svc.Timeline(context.Background(), TimelineFilters{Entity: EntityMaterial, ID: 7, Page: 9, PageSize: 2})
	require.NoError(t, err)
	require.Empty(t, beyond.Rows)
}

func TestServiceExportFilters(t *testing.T) {
	svc := NewService(&stubTimelineRepo{entries: sampleEntries()})
	rows, err := svc.Export(context.Background(), TimelineFilters{Entity: EntityUnit, Action: "update", Actor: "NIMAL"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "2024-03-09T09:00:00", rows[0].Raw)
}

func TestServiceRejectsUnknownEntity(t *testing.T) {
	svc := NewService(&stubTimelineRepo{})
	_, err := svc.Timeline(context.Background(), TimelineFilters{Entity: "Journal"})
	require.ErrorIs(t, err, ErrUnknownEntity)
	_, err = svc.Recent(context.Background(), "journal", 5)
	require.ErrorIs(t, err, ErrUnknownEntity)
}

func TestServiceRecentLimitAndErrors(t *testing.T) {
	repo := &stubTimelineRepo{recent: []RecentItem{{Item: "Bolt"}, {Item: "Nut"}, {Item: "Washer"}}}
	svc := NewService(repo)
	items, err := svc.Recent(context.Background(), EntityBrand, 2)
	require.NoError(t, err)
	require.Equal(t, []RecentItem{{Item: "Bolt"}, {Item: "Nut"}}, items)

	all, err := svc.Recent(context.Background(), EntityBrand, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)

	repo.err = errors.New("boom")
	_, err = svc.Recent(context.Background(), EntityBrand, 2)
	require.EqualError(t, err, "boom")
}

func TestWriteCSV(t *testing.T) {
	svc := NewService(&stubTimelineRepo{entries: sampleEntries()[:2]})
	rows, err := svc.Export(context.Background(), TimelineFilters{Entity: EntityBrand})
	require.NoError(t, err)
	raw, err := WriteCSV(rows)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Equal(t, []string{
		"timestamp,action,performed_by,details",
		"2024-03-10T10:00:00Z,UPDATE,kamal,price changed",
		"2024-03-08T08:00:00Z,CREATE,nimal,",
	}, lines)
}
