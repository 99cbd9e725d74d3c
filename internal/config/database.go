package config

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/venturelink/app-venturelink/internal/logging"
	"github.com/venturelink/app-venturelink/internal/redisclient"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoDB client
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// InitMongoDB initializes the MongoDB connection
func InitMongoDB() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		log.Fatal(err)
	}

	// Ping the database
	err = client.Ping(ctx, readpref.Primary())
	if err != nil {
		log.Fatal(err)
	}

	MongoDB = client.Database(AppConfig.MongoDatabase)

	// Ensure indexes exist and start maintenance routine
	if err := ensureIndexes(); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}
	startIndexMaintenance()

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
}

// InitRedis initializes the Redis connection
func InitRedis() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Wrap with traced client
	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", AppConfig.RedisURI),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", AppConfig.RedisURI))
}

// maskMongoURI masks sensitive information in MongoDB URI
func maskMongoURI(uri string) string {
	if !strings.Contains(uri, "@") {
		return uri
	}
	return "mongodb://****:****@" + uri[strings.LastIndex(uri, "@")+1:]
}

// ensureIndexes creates required indexes if they don't exist
func ensureIndexes() error {
	logger := zap.L().Named("database")
	logger.Info("ensuring required indexes exist")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ensureProfileIndexes(ctx, logger); err != nil {
		return err
	}
	if err := ensurePitchIndexes(ctx, logger); err != nil {
		return err
	}
	if err := ensurePitchRevisionIndexes(ctx, logger); err != nil {
		return err
	}
	if err := ensureDocumentRevisionIndexes(ctx, logger); err != nil {
		return err
	}
	if err := ensureNotificationIndexes(ctx, logger); err != nil {
		return err
	}

	logger.Info("all required indexes verified")
	return nil
}

// listIndexNames returns the names of all indexes on a collection
func listIndexNames(ctx context.Context, collection *mongo.Collection, logger *zap.Logger) (map[string]bool, error) {
	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		logger.Error("failed to list indexes", zap.Error(err))
		return nil, err
	}
	defer cursor.Close(ctx)

	existing := make(map[string]bool)
	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if name, ok := index["name"].(string); ok {
			existing[name] = true
		}
	}
	return existing, nil
}

// createMissingIndexes creates each index that is not already present
func createMissingIndexes(ctx context.Context, collection *mongo.Collection, logger *zap.Logger, models []mongo.IndexModel) error {
	existing, err := listIndexNames(ctx, collection, logger)
	if err != nil {
		return err
	}

	created := 0
	for _, indexModel := range models {
		name := ""
		if indexModel.Options != nil && indexModel.Options.Name != nil {
			name = *indexModel.Options.Name
		}
		if existing[name] {
			continue
		}

		if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
			// Another instance may have created it concurrently
			if mongo.IsDuplicateKeyError(err) {
				logger.Info("index already exists (created by another instance)",
					zap.String("collection", collection.Name()),
					zap.String("index", name))
				continue
			}
			logger.Error("failed to create index",
				zap.String("collection", collection.Name()),
				zap.String("index", name),
				zap.Error(err))
			return err
		}
		created++
	}

	if created > 0 {
		logger.Info("created collection indexes",
			zap.String("collection", collection.Name()),
			zap.Int("count", created))
	} else {
		logger.Debug("collection indexes already exist",
			zap.String("collection", collection.Name()))
	}
	return nil
}

// ensureProfileIndexes creates the indexes for the profiles collection
func ensureProfileIndexes(ctx context.Context, logger *zap.Logger) error {
	collection := MongoDB.Collection(AppConfig.ProfileCollection)
	return createMissingIndexes(ctx, collection, logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("email_1").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "user_type", Value: 1}},
			Options: options.Index().SetName("status_1_user_type_1"),
		},
	})
}

// ensurePitchIndexes creates the indexes for the pitches collection
func ensurePitchIndexes(ctx context.Context, logger *zap.Logger) error {
	collection := MongoDB.Collection(AppConfig.PitchCollection)
	return createMissingIndexes(ctx, collection, logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "entrepreneur_id", Value: 1}},
			Options: options.Index().SetName("entrepreneur_id_1"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("status_1_created_at_-1"),
		},
	})
}

// ensurePitchRevisionIndexes creates the indexes for the pitch_revisions collection
func ensurePitchRevisionIndexes(ctx context.Context, logger *zap.Logger) error {
	collection := MongoDB.Collection(AppConfig.PitchRevisionCollection)
	return createMissingIndexes(ctx, collection, logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "pitch_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("pitch_id_1_created_at_-1"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("status_1"),
		},
	})
}

// ensureDocumentRevisionIndexes creates the indexes for the document_revisions collection.
// The partial unique index on profile_id enforces the single-pending-request
// invariant at the store instead of a racy read-then-insert check.
func ensureDocumentRevisionIndexes(ctx context.Context, logger *zap.Logger) error {
	collection := MongoDB.Collection(AppConfig.DocumentRevisionCollection)
	return createMissingIndexes(ctx, collection, logger, []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "profile_id", Value: 1}},
			Options: options.Index().
				SetName("profile_id_1_pending").
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"status": "pending"}),
		},
	})
}

// ensureNotificationIndexes creates the indexes for the notifications collection
func ensureNotificationIndexes(ctx context.Context, logger *zap.Logger) error {
	collection := MongoDB.Collection(AppConfig.NotificationCollection)
	return createMissingIndexes(ctx, collection, logger, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("recipient_id_1_created_at_-1"),
		},
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "is_read", Value: 1}},
			Options: options.Index().SetName("recipient_id_1_is_read_1"),
		},
	})
}

// startIndexMaintenance starts a goroutine that periodically ensures indexes exist
func startIndexMaintenance() {
	logger := zap.L().Named("database")

	go func() {
		ticker := time.NewTicker(AppConfig.IndexMaintenanceInterval)
		defer ticker.Stop()

		for range ticker.C {
			if err := ensureIndexes(); err != nil {
				logger.Error("periodic index check failed", zap.Error(err))
			}
		}
	}()

	logger.Info("started index maintenance routine",
		zap.Duration("interval", AppConfig.IndexMaintenanceInterval))
}
