package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/venturelink/app-venturelink/internal/config"
	"github.com/venturelink/app-venturelink/internal/models"
	"github.com/venturelink/app-venturelink/internal/observability"
	"github.com/venturelink/app-venturelink/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const settingsCacheKey = "settings:platform"

// SettingsService serves the singleton platform settings record. The
// find-or-create of the singleton happens explicitly at this boundary;
// callers fetch the settings once per request instead of reading a global.
type SettingsService struct {
	logger *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(logger *zap.Logger) *SettingsService {
	return &SettingsService{logger: logger}
}

// GetOrInitSettings returns the platform settings, creating the default
// record on first use. Reads go through the Redis cache when available.
func (s *SettingsService) GetOrInitSettings(ctx context.Context) (*models.PlatformSettings, error) {
	// Cache read is best-effort; a cache failure falls through to Mongo
	if config.Redis != nil {
		cacheCtx, _, finishCache := utils.TraceCacheOperation(ctx, "get", settingsCacheKey)
		cached, err := config.Redis.Get(cacheCtx, settingsCacheKey).Result()
		finishCache()
		if err == nil {
			var settings models.PlatformSettings
			if err := json.Unmarshal([]byte(cached), &settings); err == nil {
				observability.CacheHits.WithLabelValues("settings_get").Inc()
				return &settings, nil
			}
		}
	}

	collection := config.MongoDB.Collection(config.AppConfig.SettingsCollection)

	dbCtx, _, finishDB := utils.TraceDatabaseOperation(ctx, "find_one", collection.Name())
	var settings models.PlatformSettings
	err := collection.FindOne(dbCtx, bson.M{}).Decode(&settings)
	finishDB()
	if err != nil && err != mongo.ErrNoDocuments {
		observability.DatabaseOperations.WithLabelValues("settings_find", "error").Inc()
	} else {
		observability.DatabaseOperations.WithLabelValues("settings_find", "success").Inc()
	}
	if err == mongo.ErrNoDocuments {
		settings = models.PlatformSettings{
			ForbiddenKeywords: []string{},
			UpdatedAt:         time.Now().UTC(),
		}
		result, insertErr := collection.InsertOne(ctx, settings)
		if insertErr != nil {
			return nil, fmt.Errorf("failed to initialize platform settings: %w", insertErr)
		}
		settings.ID = result.InsertedID.(primitive.ObjectID)
		s.logger.Info("initialized default platform settings")
	} else if err != nil {
		return nil, fmt.Errorf("failed to load platform settings: %w", err)
	}

	s.cache(ctx, &settings)
	return &settings, nil
}

// UpdateSettings overwrites the admin-configurable fields and invalidates
// the cache
func (s *SettingsService) UpdateSettings(ctx context.Context, keywords []string, supportEmail string) (*models.PlatformSettings, error) {
	settings, err := s.GetOrInitSettings(ctx)
	if err != nil {
		return nil, err
	}

	settings.ForbiddenKeywords = keywords
	settings.SupportEmail = supportEmail
	settings.UpdatedAt = time.Now().UTC()

	collection := config.MongoDB.Collection(config.AppConfig.SettingsCollection)
	if _, err := collection.UpdateOne(ctx,
		bson.M{"_id": settings.ID},
		bson.M{"$set": bson.M{
			"forbidden_keywords": settings.ForbiddenKeywords,
			"support_email":      settings.SupportEmail,
			"updated_at":         settings.UpdatedAt,
		}}); err != nil {
		return nil, fmt.Errorf("failed to update platform settings: %w", err)
	}

	if config.Redis != nil {
		config.Redis.Del(ctx, settingsCacheKey)
	}
	s.cache(ctx, settings)

	s.logger.Info("platform settings updated",
		zap.Int("forbidden_keywords", len(keywords)))
	return settings, nil
}

// cache stores the settings in Redis, best-effort
func (s *SettingsService) cache(ctx context.Context, settings *models.PlatformSettings) {
	if config.Redis == nil {
		return
	}
	payload, err := json.Marshal(settings)
	if err != nil {
		return
	}
	if err := config.Redis.Set(ctx, settingsCacheKey, payload, config.AppConfig.RedisTTL).Err(); err != nil {
		s.logger.Debug("failed to cache platform settings", zap.Error(err))
	}
}
