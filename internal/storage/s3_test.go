package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublicBaseURL(t *testing.T) {
	assert.Equal(t, "https://recipes.s3.eu-west-1.amazonaws.com",
		PublicBaseURL(S3Config{Bucket: "recipes", Region: "eu-west-1"}))
	assert.Equal(t, "http://localhost:9000/recipes",
		PublicBaseURL(S3Config{Bucket: "recipes", Endpoint: "http://localhost:9000/"}))
}

func TestKeyFromURL(t *testing.T) {
	s := &S3Storage{publicURL: "http://localhost:9000/recipes"}

	key, ok := s.KeyFromURL(s.URL("images/abc.png"))
	assert.True(t, ok)
	assert.Equal(t, "images/abc.png", key)

	_, ok = s.KeyFromURL("/assets/images/default-food.svg")
	assert.False(t, ok)
}
