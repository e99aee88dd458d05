package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Video struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	VideoFile         string             `bson:"videoFile" json:"videoFile"`                 // remote URL
	VideoFilePublicID string             `bson:"videoFilePublicId" json:"videoFilePublicId"` // media store key
	Thumbnail         string             `bson:"thumbnail" json:"thumbnail"`
	ThumbnailPublicID string             `bson:"thumbnailPublicId" json:"thumbnailPublicId"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description" json:"description"`
	Duration          float64            `bson:"duration" json:"duration"`
	Views             int64              `bson:"views" json:"views"`
	IsPublished       bool               `bson:"isPublished" json:"isPublished"`
	Owner             primitive.ObjectID `bson:"owner" json:"owner"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OwnerSummary is the public projection of a user shown next to a video.
type OwnerSummary struct {
	ID       primitive.ObjectID `bson:"_id" json:"_id"`
	FullName string             `bson:"fullName" json:"fullName"`
	Username string             `bson:"username" json:"username"`
	Avatar   string             `bson:"avatar" json:"avatar"`
}

// VideoWithOwner is a Video whose owner reference has been expanded.
// The JSON "owner" key is taken by the summary, not the raw id.
type VideoWithOwner struct {
	Video `bson:",inline"`
	Owner *OwnerSummary `bson:"ownerDetails,omitempty" json:"owner"`
}

type PublishStatus struct {
	ID          primitive.ObjectID `json:"_id"`
	IsPublished bool               `json:"isPublished"`
}

type PlaybackURL struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expiresIn"` // seconds; 0 for permanent URLs
}
