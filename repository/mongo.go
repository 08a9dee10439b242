package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"video-catalog/constant"
	"video-catalog/entities"
)

const (
	videosCollection = "videos"
	usersCollection  = "users"
)

// Ids are stored as canonical uuid strings, in videos and in users.
type videoDocument struct {
	ID           string         `bson:"_id"`
	Title        string         `bson:"title"`
	Description  string         `bson:"description"`
	VideoFile    string         `bson:"videoFile"`
	Thumbnail    string         `bson:"thumbnail"`
	Duration     float64        `bson:"duration"`
	Owner        string         `bson:"owner"`
	IsPublished  bool           `bson:"isPublished"`
	CreatedAt    time.Time      `bson:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt"`
	OwnerDetails []userDocument `bson:"ownerDetails,omitempty"`
}

type userDocument struct {
	ID       string `bson:"_id"`
	Email    string `bson:"email"`
	Username string `bson:"username"`
}

type mongoRepo struct {
	videos *mongo.Collection
}

func NewMongoRepo(db *mongo.Database) VideoRepository {
	return &mongoRepo{
		videos: db.Collection(videosCollection),
	}
}

func (r *mongoRepo) List(ctx context.Context, filter ListFilter) ([]*entities.Video, error) {
	opts := options.Find().
		SetSort(sortDocument(filter.SortBy, filter.Desc)).
		SetSkip(filter.Skip).
		SetLimit(filter.Limit)

	cursor, err := r.videos.Find(ctx, filterDocument(filter), opts)
	if err != nil {
		return nil, err
	}

	var docs []videoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	videos := make([]*entities.Video, 0, len(docs))
	for i := range docs {
		video, err := docs[i].toEntity()
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, nil
}

func (r *mongoRepo) FindByID(ctx context.Context, id uuid.UUID) (*entities.Video, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "_id", Value: id.String()}}}},
		{{Key: "$limit", Value: 1}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: usersCollection},
			{Key: "localField", Value: "owner"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "ownerDetails"},
		}}},
	}

	cursor, err := r.videos.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}

	var docs []videoDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, ErrNotFound
	}
	return docs[0].toEntity()
}

func (r *mongoRepo) Create(ctx context.Context, video *entities.Video) error {
	_, err := r.videos.InsertOne(ctx, newVideoDocument(video))
	return err
}

func (r *mongoRepo) Update(ctx context.Context, id uuid.UUID, update entities.VideoUpdate) (*entities.Video, error) {
	set := bson.D{{Key: "updatedAt", Value: time.Now().UTC()}}
	if update.Title != nil {
		set = append(set, bson.E{Key: "title", Value: *update.Title})
	}
	if update.Description != nil {
		set = append(set, bson.E{Key: "description", Value: *update.Description})
	}
	if update.Thumbnail != nil {
		set = append(set, bson.E{Key: "thumbnail", Value: *update.Thumbnail})
	}
	if update.IsPublished != nil {
		set = append(set, bson.E{Key: "isPublished", Value: *update.IsPublished})
	}

	var doc videoDocument
	err := r.videos.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: id.String()}},
		bson.D{{Key: "$set", Value: set}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return doc.toEntity()
}

func (r *mongoRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.videos.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoRepo) Migrate(ctx context.Context) error {
	_, err := r.videos.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("create video indexes: %w", err)
	}
	return nil
}

func filterDocument(filter ListFilter) bson.D {
	doc := bson.D{}
	if filter.OwnerId != nil {
		doc = append(doc, bson.E{Key: "owner", Value: filter.OwnerId.String()})
	}
	if filter.Query != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Query), Options: "i"}
		doc = append(doc, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: pattern}},
			bson.D{{Key: "description", Value: pattern}},
		}})
	}
	return doc
}

func sortDocument(field constant.SortField, desc bool) bson.D {
	if !field.Valid() {
		field = constant.SortFieldCreatedAt
	}
	direction := 1
	if desc {
		direction = -1
	}
	return bson.D{
		{Key: string(field), Value: direction},
		{Key: "_id", Value: direction},
	}
}

func newVideoDocument(v *entities.Video) videoDocument {
	return videoDocument{
		ID:          v.ID.String(),
		Title:       v.Title,
		Description: v.Description,
		VideoFile:   v.VideoFile,
		Thumbnail:   v.Thumbnail,
		Duration:    v.Duration,
		Owner:       v.OwnerId.String(),
		IsPublished: v.IsPublished,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}

func (d videoDocument) toEntity() (*entities.Video, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("video %q: bad id: %w", d.ID, err)
	}
	owner, err := uuid.Parse(d.Owner)
	if err != nil {
		return nil, fmt.Errorf("video %q: bad owner %q: %w", d.ID, d.Owner, err)
	}

	video := &entities.Video{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		VideoFile:   d.VideoFile,
		Thumbnail:   d.Thumbnail,
		Duration:    d.Duration,
		OwnerId:     owner,
		IsPublished: d.IsPublished,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if len(d.OwnerDetails) > 0 {
		u := d.OwnerDetails[0]
		userId, err := uuid.Parse(u.ID)
		if err == nil {
			video.OwnerDetails = &entities.User{ID: userId, Email: u.Email, Username: u.Username}
		}
	}
	return video, nil
}
