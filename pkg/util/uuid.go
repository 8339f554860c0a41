// Package util holds identifier helpers shared by the viewer and CLI
package util

import (
	"crypto/md5"

	"github.com/google/uuid"
)

// ContentUUID derives a stable uuid from raw bytes, so the same pixel data
// always logs under the same id.
func ContentUUID(value []byte) string {
	hash := md5.Sum(value)
	id, err := uuid.FromBytes(hash[:])
	if err != nil {
		return ""
	}
	return id.String()
}

// NewID returns a random uuid string.
func NewID() string {
	return uuid.NewString()
}
