package openaiimpl

import "github.com/openai/openai-go/v3/shared"

// postSchema is the fixed contract the extraction result must satisfy.
func postSchema() shared.FunctionParameters {
	str := func(desc string) map[string]any {
		return map[string]any{"type": "string", "description": desc}
	}
	integer := func(desc string) map[string]any {
		return map[string]any{"type": "integer", "description": desc}
	}
	strArray := func(desc string) map[string]any {
		return map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"description": desc,
		}
	}

	return shared.FunctionParameters{
		"type": "object",
		"properties": map[string]any{
			"caption":        str("Post caption text"),
			"type":           str("Post type (image, video, carousel)"),
			"url":            str("Original post URL"),
			"videoUrl":       str("Video file URL"),
			"imageUrl":       str("Image file URL"),
			"displayUrl":     str("Display image URL"),
			"shortCode":      str("Instagram post short code"),
			"timestamp":      str("Post creation timestamp"),
			"likesCount":     integer("Number of likes"),
			"commentsCount":  integer("Number of comments"),
			"videoViewCount": integer("Video view count"),
			"videoPlayCount": integer("Video play count"),
			"ownerUsername":  str("Account username"),
			"ownerFullName":  str("Account full name"),
			"locationName":   str("Location tag"),
			"hashtags":       strArray("Array of hashtags without the # prefix"),
			"mentions":       strArray("Array of mentioned users without the @ prefix"),
			"alt":            str("Alt text for accessibility"),
		},
	}
}
