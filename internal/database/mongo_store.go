package database

import (
	"context"
	"time"

	"filmnights-bot/internal/database/models"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	postTypesCollectionName = "post_types"
	postLogsCollectionName  = "post_logs"
	adminsCollectionName    = "admins"
)

// MongoStore is a Store backed by MongoDB collections.
type MongoStore struct {
	client    *mongo.Client
	postTypes *mongo.Collection
	postLogs  *mongo.Collection
	admins    *mongo.Collection
}

// NewMongoStore connects to MongoDB and ensures the unique indexes exist.
func NewMongoStore(ctx context.Context, uri, dbName string) (*MongoStore, error) {
	client, db, err := ConnectDB(ctx, uri, dbName)
	if err != nil {
		return nil, err
	}
	s := &MongoStore{
		client:    client,
		postTypes: db.Collection(postTypesCollectionName),
		postLogs:  db.Collection(postLogsCollectionName),
		admins:    db.Collection(adminsCollectionName),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	if _, err := s.postTypes.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: unique,
	}); err != nil {
		return errors.Wrap(err, "failed to create post type name index")
	}
	if _, err := s.admins.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: unique,
	}); err != nil {
		return errors.Wrap(err, "failed to create admin user_id index")
	}
	if _, err := s.postLogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "category", Value: 1}},
	}); err != nil {
		return errors.Wrap(err, "failed to create post log category index")
	}
	return nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ListPostTypes(ctx context.Context) ([]models.PostType, error) {
	cursor, err := s.postTypes.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find post types")
	}
	defer cursor.Close(ctx)

	types := []models.PostType{}
	if err = cursor.All(ctx, &types); err != nil {
		return nil, errors.Wrap(err, "failed to decode post types")
	}
	return types, nil
}

func (s *MongoStore) GetPostType(ctx context.Context, name string) (*models.PostType, error) {
	var pt models.PostType
	err := s.postTypes.FindOne(ctx, bson.M{"name": name}).Decode(&pt)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrPostTypeNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find post type %q", name)
	}
	return &pt, nil
}

func (s *MongoStore) AddPostType(ctx context.Context, name, bannerPath string) error {
	_, err := s.postTypes.InsertOne(ctx, models.PostType{
		Name:       name,
		BannerPath: bannerPath,
		CreatedAt:  time.Now(),
	})
	if mongo.IsDuplicateKeyError(err) {
		return ErrPostTypeExists
	}
	return errors.Wrapf(err, "failed to insert post type %q", name)
}

func (s *MongoStore) DeletePostType(ctx context.Context, name string) error {
	res, err := s.postTypes.DeleteOne(ctx, bson.M{"name": name})
	if err != nil {
		return errors.Wrapf(err, "failed to delete post type %q", name)
	}
	if res.DeletedCount == 0 {
		return ErrPostTypeNotFound
	}
	return nil
}

func (s *MongoStore) LogPublishedPost(ctx context.Context, entry models.PostLog) error {
	if entry.SentAt.IsZero() {
		entry.SentAt = time.Now()
	}
	_, err := s.postLogs.InsertOne(ctx, entry)
	return errors.Wrapf(err, "failed to insert post log into collection '%s'", postLogsCollectionName)
}

func (s *MongoStore) AddAdmin(ctx context.Context, userID int64, username string) error {
	update := bson.M{
		"$setOnInsert": bson.M{
			"user_id":  userID,
			"added_at": time.Now(),
		},
	}
	if username != "" {
		update["$set"] = bson.M{"username": username}
	}
	_, err := s.admins.UpdateOne(ctx, bson.M{"user_id": userID}, update, options.Update().SetUpsert(true))
	return errors.Wrapf(err, "failed to upsert admin %d", userID)
}

func (s *MongoStore) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	n, err := s.admins.CountDocuments(ctx, bson.M{"user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, errors.Wrap(err, "failed to count admins")
	}
	return n > 0, nil
}

func (s *MongoStore) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	cursor, err := s.admins.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "user_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrap(err, "failed to find admins")
	}
	defer cursor.Close(ctx)

	admins := []models.Admin{}
	if err = cursor.All(ctx, &admins); err != nil {
		return nil, errors.Wrap(err, "failed to decode admins")
	}
	return admins, nil
}

func (s *MongoStore) PostStats(ctx context.Context) ([]models.CategoryStats, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "posts", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "last_sent_at", Value: bson.D{{Key: "$max", Value: "$sent_at"}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "posts", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	cursor, err := s.postLogs.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate post stats")
	}
	defer cursor.Close(ctx)

	stats := []models.CategoryStats{}
	if err = cursor.All(ctx, &stats); err != nil {
		return nil, errors.Wrap(err, "failed to decode post stats")
	}
	return stats, nil
}
