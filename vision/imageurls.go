package vision

import (
	"regexp"
	"strings"

	"marketflow/types"
)

// Image discovery patterns: HTML img tags, Markdown image syntax, and
// CMS-hosted asset URLs embedded as bare links.
var (
	htmlImgRe     = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["'][^>]*>`)
	markdownImgRe = regexp.MustCompile(`!\[[^\]]*\]\(([^)]+)\)`)
	ctfAssetRe    = regexp.MustCompile(`https://images\.ctfassets\.net/[a-zA-Z0-9]+/[a-zA-Z0-9]+/[a-zA-Z0-9]+/[^?\s]+`)
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg"}

// DiscoverImageURLs scans free-text body content and the resolved asset link
// fields for image references. Scheme-less CMS URLs (//host/...) get https:
// prefixed. Callers process only the first discovered image per activation.
func DiscoverImageURLs(fields types.RawFields) []string {
	var urls []string

	urls = append(urls, extractFromContent(fields.Body)...)

	if fields.FeaturedImageURL != "" {
		urls = append(urls, fields.FeaturedImageURL)
	}
	urls = append(urls, fields.GalleryImageURLs...)

	out := make([]string, 0, len(urls))
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		if strings.HasPrefix(u, "//") {
			u = "https:" + u
		}
		out = append(out, u)
	}
	return out
}

// extractFromContent pulls embedded image references out of HTML or Markdown
// body text. Inline data URLs from img tags are kept as-is so the local
// provider can decode them.
func extractFromContent(content string) []string {
	var urls []string

	for _, m := range htmlImgRe.FindAllStringSubmatch(content, -1) {
		urls = append(urls, m[1])
	}
	for _, m := range markdownImgRe.FindAllStringSubmatch(content, -1) {
		urls = append(urls, m[1])
	}
	urls = append(urls, ctfAssetRe.FindAllString(content, -1)...)

	valid := urls[:0]
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if isLikelyImageURL(u) {
			valid = append(valid, u)
		}
	}
	return valid
}

func isLikelyImageURL(url string) bool {
	if url == "" {
		return false
	}
	if strings.HasPrefix(url, "data:image/") {
		return true
	}
	lower := strings.ToLower(url)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
