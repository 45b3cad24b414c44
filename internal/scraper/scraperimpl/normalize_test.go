package scraperimpl

import (
	"testing"

	"github.com/orgball2608/insta-scraper-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestNormalizeForcesVideoType(t *testing.T) {
	post := &domain.Post{VideoURL: "https://cdn.example.com/x.mp4"}
	Normalize(post)
	assert.Equal(t, domain.PostTypeVideo, post.Type)
}

func TestNormalizeVideoIndicators(t *testing.T) {
	tests := []struct {
		url     string
		isVideo bool
	}{
		{"https://cdn.example.com/clip.mp4", true},
		{"https://cdn.example.com/clip.MOV", true},
		{"https://cdn.example.com/clip.webm", true},
		{"https://cdn.example.com/clip.avi", true},
		{"https://example.com/video/12345", true},
		{"https://videos.example.com/12345", true},
		{"https://example.com/videoplayback?id=1", true},
		{"https://example.com/thumb.jpg", false},
		{"https://example.com/page", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.isVideo, isVideoURL(tt.url), "url: %s", tt.url)
	}
}

func TestNormalizeMovesImageToDisplay(t *testing.T) {
	post := &domain.Post{
		VideoURL: "x.mp4",
		ImageURL: "thumb.jpg",
	}
	Normalize(post)

	assert.Equal(t, domain.PostTypeVideo, post.Type)
	assert.Equal(t, "thumb.jpg", post.DisplayURL)
	assert.Empty(t, post.ImageURL)
}

func TestNormalizeKeepsExistingDisplayURL(t *testing.T) {
	post := &domain.Post{
		VideoURL:   "x.mp4",
		ImageURL:   "thumb.jpg",
		DisplayURL: "display.jpg",
	}
	Normalize(post)

	// The display slot is taken; the image field stays as extracted.
	assert.Equal(t, "display.jpg", post.DisplayURL)
	assert.Equal(t, "thumb.jpg", post.ImageURL)
}

func TestNormalizeVideoCountsImplyVideoType(t *testing.T) {
	post := &domain.Post{VideoViewCount: intPtr(1234)}
	Normalize(post)
	assert.Equal(t, domain.PostTypeVideo, post.Type)

	post = &domain.Post{VideoPlayCount: intPtr(99)}
	Normalize(post)
	assert.Equal(t, domain.PostTypeVideo, post.Type)
}

func TestNormalizeDoesNotTouchOtherFields(t *testing.T) {
	post := &domain.Post{
		Caption:       "hello #world",
		Type:          domain.PostTypeImage,
		ImageURL:      "img.jpg",
		LikesCount:    intPtr(10),
		OwnerUsername: "someone",
		Hashtags:      []string{"world"},
		Mentions:      []string{"friend", "friend"},
	}
	want := *post

	Normalize(post)
	assert.Equal(t, want, *post)
}

func TestNormalizeIdempotent(t *testing.T) {
	posts := []*domain.Post{
		{VideoURL: "x.mp4", ImageURL: "thumb.jpg"},
		{VideoViewCount: intPtr(5)},
		{Type: domain.PostTypeCarousel, ImageURL: "a.jpg"},
		{},
	}

	for _, post := range posts {
		once := *Normalize(post)
		twice := *Normalize(post)
		assert.Equal(t, once, twice)
	}
}
