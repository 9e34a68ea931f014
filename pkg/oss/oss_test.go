package oss

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ViewTube.com/config"
)

func TestObjectName(t *testing.T) {
	const base = "http://media.local"
	cases := []struct {
		url  string
		name string
		ok   bool
	}{
		{"http://media.local/viewtube-media/videos/1.mp4", "videos/1.mp4", true},
		{"http://media.local/viewtube-media/thumb.jpg?v=2", "thumb.jpg", true},
		{"http://media.local/other/file.mp4", "other/file.mp4", true},
		{"https://cdn.example.com/viewtube-media/1.mp4", "", false},
		{"http://media.local/", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		name, ok := ObjectName(base, "viewtube-media", c.url)
		assert.Equal(t, c.ok, ok, c.url)
		assert.Equal(t, c.name, name, c.url)
	}

	_, ok := ObjectName("", "viewtube-media", "http://media.local/viewtube-media/1.mp4")
	assert.False(t, ok)
}

func TestNewMediaStoreDisabled(t *testing.T) {
	store, err := NewMediaStore(context.Background(), config.Minio{})
	require.NoError(t, err)
	assert.Nil(t, store)
}
