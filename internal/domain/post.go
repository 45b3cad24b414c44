package domain

import "time"

// Post type values as reported by extraction.
const (
	PostTypeImage    = "image"
	PostTypeVideo    = "video"
	PostTypeCarousel = "carousel"
)

// Post is the structured record extracted from a post page. Every field is
// optional: a nil/empty value means the content did not carry it.
type Post struct {
	Caption        string   `json:"caption,omitempty"`
	Type           string   `json:"type,omitempty"`
	URL            string   `json:"url,omitempty"`
	VideoURL       string   `json:"videoUrl,omitempty"`
	ImageURL       string   `json:"imageUrl,omitempty"`
	DisplayURL     string   `json:"displayUrl,omitempty"`
	ShortCode      string   `json:"shortCode,omitempty"`
	Timestamp      string   `json:"timestamp,omitempty"`
	LikesCount     *int     `json:"likesCount,omitempty"`
	CommentsCount  *int     `json:"commentsCount,omitempty"`
	VideoViewCount *int     `json:"videoViewCount,omitempty"`
	VideoPlayCount *int     `json:"videoPlayCount,omitempty"`
	OwnerUsername  string   `json:"ownerUsername,omitempty"`
	OwnerFullName  string   `json:"ownerFullName,omitempty"`
	LocationName   string   `json:"locationName,omitempty"`
	Hashtags       []string `json:"hashtags,omitempty"`
	Mentions       []string `json:"mentions,omitempty"`
	Alt            string   `json:"alt,omitempty"`
}

// ScrapedPost is a cached scrape result as stored in the database.
type ScrapedPost struct {
	ID        int
	ShortCode string
	PostURL   string
	Data      []byte // the Post record, JSON-encoded
	CreatedAt time.Time
}
