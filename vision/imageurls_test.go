package vision

import (
	"reflect"
	"strings"
	"testing"
	"unicode/utf8"

	"marketflow/types"
)

func TestDiscoverImageURLsFromBody(t *testing.T) {
	cases := []struct {
		name string
		body string
		want []string
	}{
		{
			"html img tag",
			`<p>intro</p><img src="https://example.com/chart.png" alt="">`,
			[]string{"https://example.com/chart.png"},
		},
		{
			"markdown image",
			`Before ![dashboard](https://example.com/dash.jpg) after`,
			[]string{"https://example.com/dash.jpg"},
		},
		{
			"contentful asset url",
			`See https://images.ctfassets.net/abc123/def456/ghi789/hero.webp for details`,
			[]string{"https://images.ctfassets.net/abc123/def456/ghi789/hero.webp"},
		},
		{
			"non-image url ignored",
			`<img src="https://example.com/page.html">`,
			nil,
		},
		{
			"data url kept",
			`<img src="data:image/png;base64,ZmFrZQ==">`,
			[]string{"data:image/png;base64,ZmFrZQ=="},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := DiscoverImageURLs(types.RawFields{Body: c.body})
			if len(c.want) == 0 && len(got) == 0 {
				return
			}
			if !reflect.DeepEqual(got, c.want) {
				t.Fatalf("DiscoverImageURLs = %v; want %v", got, c.want)
			}
		})
	}
}

func TestDiscoverImageURLsAssetFieldsAndScheme(t *testing.T) {
	fields := types.RawFields{
		Body:             `<img src="https://example.com/body.png">`,
		FeaturedImageURL: "//images.ctfassets.net/space/a/b/featured.jpg",
		GalleryImageURLs: []string{"https://example.com/g1.gif", ""},
	}

	got := DiscoverImageURLs(fields)
	want := []string{
		"https://example.com/body.png",
		"https://images.ctfassets.net/space/a/b/featured.jpg",
		"https://example.com/g1.gif",
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("DiscoverImageURLs = %v; want %v", got, want)
	}
}

func TestTruncateAltText(t *testing.T) {
	short := "A concise description"
	if got := truncateAltText(short, 125); got != short {
		t.Fatalf("truncateAltText changed short text: %q", got)
	}

	long := ""
	for len(long) < 200 {
		long += "descriptive words "
	}
	got := truncateAltText(long, 125)
	if len(got) != 125 {
		t.Fatalf("len = %d; want 125", len(got))
	}
	if got[122:] != "..." {
		t.Fatalf("truncated text does not end with ellipsis: %q", got)
	}
}

func TestTruncateAltTextCountsRunes(t *testing.T) {
	long := strings.Repeat("é", 130)
	got := truncateAltText(long, 125)
	if !utf8.ValidString(got) {
		t.Fatalf("truncated alt text is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 125 {
		t.Fatalf("rune count = %d; want 125", n)
	}
	if !strings.HasSuffix(got, "é...") {
		t.Fatalf("unexpected tail: %q", got)
	}
}
