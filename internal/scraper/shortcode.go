package scraper

import "regexp"

// Post pages live under /p/, /reel/ or /tv/ followed by the short code.
var shortCodeRegex = regexp.MustCompile(`/(?:p|reel|tv)/([A-Za-z0-9_-]+)`)

// ShortCodeFromURL extracts the short code segment from a post URL, or ""
// when the URL does not match a known post-URL pattern.
func ShortCodeFromURL(url string) string {
	matches := shortCodeRegex.FindStringSubmatch(url)
	if len(matches) < 2 {
		return ""
	}
	return matches[1]
}
