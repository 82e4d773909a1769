package utils

import "go.mongodb.org/mongo-driver/bson/primitive"

// IsObjectID reports whether s is a 24 character hex object id.
func IsObjectID(s string) bool {
	return primitive.IsValidObjectID(s)
}

// NewObjectID returns a fresh object id in hex form. Every store backend
// uses this format so ids look the same regardless of STORE_DRIVER.
func NewObjectID() string {
	return primitive.NewObjectID().Hex()
}
