package scraperimpl

import (
	"strings"

	"github.com/orgball2608/insta-scraper-api/internal/domain"
)

var videoExtensions = []string{".mp4", ".mov", ".webm", ".avi"}

var videoIndicators = []string{"video/", "/video", "videos.", "videoplayback"}

// isVideoURL reports whether a URL plausibly points at actual video content
// rather than a thumbnail.
func isVideoURL(url string) bool {
	lower := strings.ToLower(url)
	for _, ext := range videoExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	for _, indicator := range videoIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// Normalize applies the single correction pass for a known extractor
// weakness: conflating thumbnail/image fields with true video URLs. It is
// deterministic, idempotent, and touches no other fields.
func Normalize(post *domain.Post) *domain.Post {
	if post.VideoURL != "" && isVideoURL(post.VideoURL) {
		post.Type = domain.PostTypeVideo

		// A video post must not also claim a primary image; keep the image
		// as the display thumbnail when that slot is free.
		if post.ImageURL != "" && post.DisplayURL == "" {
			post.DisplayURL = post.ImageURL
			post.ImageURL = ""
		}
	}

	if post.Type == "" && (post.VideoViewCount != nil || post.VideoPlayCount != nil) {
		post.Type = domain.PostTypeVideo
	}

	return post
}
