package service

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/pkg/cache"
	"github.com/suteetoe/tenantportal/pkg/config"
)

func seedEntries() []model.DirectoryEntry {
	return []model.DirectoryEntry{
		{SuiteNumber: "203", BusinessName: "Law Office", MapCoordinates: &model.MapCoordinates{Floor: 2, X: 30, Y: 40}},
		{SuiteNumber: "1001", BusinessName: "Penthouse Labs"},
		{SuiteNumber: "101", BusinessName: "Coffee Corner", MapCoordinates: &model.MapCoordinates{Floor: 1, X: 10, Y: 20}},
		{SuiteNumber: "203", BusinessName: "Duplicate Suite"},
	}
}

func TestDirectorySeedSkipsExistingSuites(t *testing.T) {
	f := newFixture(t)
	svc := NewDirectoryService(f.db, nil, time.Minute, "/static/map.pdf", nil)

	added, err := svc.Seed(ctx, seedEntries())
	require.NoError(t, err)
	assert.Equal(t, 3, added)

	added, err = svc.Seed(ctx, seedEntries())
	require.NoError(t, err)
	assert.Zero(t, added)

	entries, err := svc.ListDirectory(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// lexicographic, not numeric
	assert.Equal(t, []string{"1001", "101", "203"}, []string{entries[0].SuiteNumber, entries[1].SuiteNumber, entries[2].SuiteNumber})
	assert.Equal(t, "Law Office", entries[2].BusinessName)
	require.NotNil(t, entries[2].MapCoordinates)
	assert.Equal(t, 2, entries[2].MapCoordinates.Floor)
	assert.Equal(t, "/static/map.pdf", svc.MapPDFURL())
}

func TestDirectoryServedFromCache(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	c := cache.NewCache(cache.NewClient(config.RedisConfig{Addr: mr.Addr()}), "portal")
	svc := NewDirectoryService(f.db, c, time.Minute, "", nil)

	_, err := svc.Seed(ctx, seedEntries()[:2])
	require.NoError(t, err)

	first, err := svc.ListDirectory(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, mr.Exists("portal:"+directoryCacheKey))

	// rows written behind the service's back stay invisible until the cache expires
	require.NoError(t, f.db.Create(&model.DirectoryEntry{SuiteNumber: "300", BusinessName: "Sneaky"}).Error)
	cached, err := svc.ListDirectory(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 2)

	mr.FastForward(2 * time.Minute)
	fresh, err := svc.ListDirectory(ctx)
	require.NoError(t, err)
	assert.Len(t, fresh, 3)

	// seeding invalidates
	_, err = svc.Seed(ctx, []model.DirectoryEntry{{SuiteNumber: "400", BusinessName: "New"}})
	require.NoError(t, err)
	assert.False(t, mr.Exists("portal:"+directoryCacheKey))
}

func TestDirectoryFallsBackWhenCacheDown(t *testing.T) {
	f := newFixture(t)
	mr := miniredis.RunT(t)
	c := cache.NewCache(cache.NewClient(config.RedisConfig{Addr: mr.Addr()}), "")
	svc := NewDirectoryService(f.db, c, time.Minute, "", nil)
	_, err := svc.Seed(ctx, seedEntries())
	require.NoError(t, err)

	mr.Close()
	entries, err := svc.ListDirectory(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}
