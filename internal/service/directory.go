package service

import (
	"context"
	"errors"
	"time"

	"github.com/suteetoe/tenantportal/internal/model"
	"github.com/suteetoe/tenantportal/pkg/cache"
	"github.com/suteetoe/tenantportal/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const directoryCacheKey = "directory:all"

// DirectoryCache is the subset of pkg/cache used for the directory listing
type DirectoryCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// DirectoryService serves the building directory. The cache is optional.
type DirectoryService struct {
	db     *gorm.DB
	cache  DirectoryCache
	ttl    time.Duration
	mapURL string
	log    *zap.Logger
}

func NewDirectoryService(db *gorm.DB, c DirectoryCache, ttl time.Duration, mapURL string, log *zap.Logger) *DirectoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &DirectoryService{db: db, cache: c, ttl: ttl, mapURL: mapURL, log: log}
}

// ListDirectory returns all entries ordered by suite number
func (s *DirectoryService) ListDirectory(ctx context.Context) ([]model.DirectoryEntry, error) {
	if s.cache != nil {
		var cached []model.DirectoryEntry
		err := s.cache.Get(ctx, directoryCacheKey, &cached)
		if err == nil {
			prometheus.RecordCacheLookup(directoryCacheKey, "hit")
			return cached, nil
		}
		if errors.Is(err, cache.ErrMiss) {
			prometheus.RecordCacheLookup(directoryCacheKey, "miss")
		} else {
			prometheus.RecordCacheLookup(directoryCacheKey, "error")
			s.log.Warn("Directory cache read failed", zap.Error(err))
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	var entries []model.DirectoryEntry
	if err := dbFor(ctx, s.db).Order("suite_number ASC").Find(&entries).Error; err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, directoryCacheKey, entries, s.ttl); err != nil {
			s.log.Warn("Directory cache write failed", zap.Error(err))
		}
	}
	return entries, nil
}

// MapPDFURL returns the location of the building map
func (s *DirectoryService) MapPDFURL() string {
	return s.mapURL
}

// Seed inserts entries whose suite is not listed yet and returns how many were added
func (s *DirectoryService) Seed(ctx context.Context, entries []model.DirectoryEntry) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	var added int64
	err := dbFor(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			entry := entries[i]
			entry.ID = 0
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "suite_number"}},
				DoNothing: true,
			}).Create(&entry)
			if res.Error != nil {
				return res.Error
			}
			added += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if s.cache != nil && added > 0 {
		if err := s.cache.Delete(ctx, directoryCacheKey); err != nil {
			s.log.Warn("Directory cache invalidation failed", zap.Error(err))
		}
	}
	return int(added), nil
}
