package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// IsValidID reports whether s is a well-formed document identifier.
func IsValidID(s string) bool {
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// NewID mints a fresh document identifier.
func NewID() string {
	return primitive.NewObjectID().Hex()
}
