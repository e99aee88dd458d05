package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage   = 1
	DefaultLimit  = 10
	DefaultSortBy = "views"
	SortAsc       = "asc"
	SortDesc      = "desc"
)

// SortableFields lists the video fields a listing may be ordered by.
var SortableFields = map[string]bool{
	"views":     true,
	"createdAt": true,
	"updatedAt": true,
	"title":     true,
	"duration":  true,
}

// VideoFilter selects videos. Zero values mean "no constraint".
type VideoFilter struct {
	Query string
	Owner primitive.ObjectID
}

// HasOwner reports whether the filter is restricted to one owner.
func (f VideoFilter) HasOwner() bool {
	return !f.Owner.IsZero()
}

type ListOptions struct {
	SortBy   string
	SortDesc bool
	Skip     int64
	Limit    int64
}

type Pagination struct {
	TotalVideos int64 `json:"totalVideos"`
	TotalPages  int64 `json:"totalPages"`
	CurrentPage int64 `json:"currentPage"`
	Limit       int64 `json:"limit"`
}

type VideoPage struct {
	Videos     []*Video   `json:"videos"`
	Pagination Pagination `json:"pagination"`
}
