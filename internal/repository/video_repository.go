package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/fathima-sithara/video-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrNotFound = errors.New("not found")

type VideoRepo struct {
	col       *mongo.Collection
	usersColl string
}

func NewVideoRepo(col *mongo.Collection, usersCollection string) *VideoRepo {
	if usersCollection == "" {
		usersCollection = "users"
	}
	return &VideoRepo{col: col, usersColl: usersCollection}
}

// EnsureIndexes creates the indexes used by listing and owner lookups.
func (r *VideoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "owner", Value: 1}}, Options: options.Index().SetName("owner_idx")},
		{Keys: bson.D{{Key: "views", Value: -1}}, Options: options.Index().SetName("views_idx")},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}, Options: options.Index().SetName("created_at_idx")},
	})
	return err
}

func buildFilter(f models.VideoFilter) bson.M {
	filter := bson.M{}
	if f.Query != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Query), "$options": "i"}
	}
	if f.HasOwner() {
		filter["owner"] = f.Owner
	}
	return filter
}

func (r *VideoRepo) Count(ctx context.Context, f models.VideoFilter) (int64, error) {
	return r.col.CountDocuments(ctx, buildFilter(f))
}

func (r *VideoRepo) Find(ctx context.Context, f models.VideoFilter, o models.ListOptions) ([]*models.Video, error) {
	dir := 1
	if o.SortDesc {
		dir = -1
	}
	// _id as tie breaker keeps skip/limit pages stable
	opts := options.Find().
		SetSort(bson.D{{Key: o.SortBy, Value: dir}, {Key: "_id", Value: dir}}).
		SetSkip(o.Skip).
		SetLimit(o.Limit)
	cur, err := r.col.Find(ctx, buildFilter(f), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make([]*models.Video, 0, o.Limit)
	for cur.Next(ctx) {
		var v models.Video
		if err := cur.Decode(&v); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, cur.Err()
}

func (r *VideoRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Video, error) {
	var v models.Video
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepo) FindByIDWithOwner(ctx context.Context, id primitive.ObjectID) (*models.VideoWithOwner, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"_id": id}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         r.usersColl,
			"localField":   "owner",
			"foreignField": "_id",
			"as":           "ownerDetails",
			"pipeline": bson.A{
				bson.M{"$project": bson.M{"fullName": 1, "username": 1, "avatar": 1}},
			},
		}}},
		{{Key: "$addFields", Value: bson.M{"ownerDetails": bson.M{"$first": "$ownerDetails"}}}},
		{{Key: "$limit", Value: 1}},
	}
	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}
	var v models.VideoWithOwner
	if err := cur.Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *VideoRepo) Create(ctx context.Context, v *models.Video) error {
	now := time.Now().UTC()
	if v.ID.IsZero() {
		v.ID = primitive.NewObjectID()
	}
	v.CreatedAt = now
	v.UpdatedAt = now
	_, err := r.col.InsertOne(ctx, v)
	return err
}

// Save writes the mutable fields of v. owner and createdAt are never touched.
func (r *VideoRepo) Save(ctx context.Context, v *models.Video) error {
	v.UpdatedAt = time.Now().UTC()
	res, err := r.col.UpdateByID(ctx, v.ID, bson.M{"$set": bson.M{
		"title":             v.Title,
		"description":       v.Description,
		"videoFile":         v.VideoFile,
		"videoFilePublicId": v.VideoFilePublicID,
		"thumbnail":         v.Thumbnail,
		"thumbnailPublicId": v.ThumbnailPublicID,
		"duration":          v.Duration,
		"isPublished":       v.IsPublished,
		"updatedAt":         v.UpdatedAt,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the record; deleting an absent id is not an error.
func (r *VideoRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
