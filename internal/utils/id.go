package utils

import "go.mongodb.org/mongo-driver/bson/primitive"

// ParseID parses a hex ObjectID, reporting whether it was well formed.
func ParseID(s string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}
