package ssg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPathnameToFilename(t *testing.T) {
	tests := []struct {
		name          string
		pathname      string
		trailingSlash TrailingSlash
		want          string
	}{
		{"flat file when never", "docs/intro", TrailingSlashNever, "docs/intro.html"},
		{"leading slash stripped", "/docs/intro", TrailingSlashNever, "docs/intro.html"},
		{"leading backslash stripped", `\docs`, TrailingSlashNever, "docs.html"},
		{"trailing slash keeps folder", "docs/intro/", TrailingSlashNever, "docs/intro/index.html"},
		{"empty always", "", TrailingSlashAlways, "index.html"},
		{"empty never", "", TrailingSlashNever, "index.html"},
		{"root never", "/", TrailingSlashNever, "index.html"},
		{"root unspecified", "/", TrailingSlashUnspecified, "index.html"},
		{"explicit html never", "guide.html", TrailingSlashNever, "guide.html"},
		{"explicit html always", "/guide.html", TrailingSlashAlways, "guide.html"},
		{"explicit htm unspecified", "/old/page.HTM", TrailingSlashUnspecified, "old/page.HTM"},
		{"unspecified forces folder", "docs/intro", TrailingSlashUnspecified, "docs/intro/index.html"},
		{"always folder", "/docs/intro", TrailingSlashAlways, "docs/intro/index.html"},
		{"traversal not sanitized", "../escape", TrailingSlashNever, "../escape.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PathnameToFilename(tt.pathname, tt.trailingSlash))
		})
	}
}

func TestPathnameToFilenameDeterministic(t *testing.T) {
	pathnames := []string{"", "/", "/a/b", "/a/b/", "x.html", `\y`}
	policies := []TrailingSlash{TrailingSlashUnspecified, TrailingSlashAlways, TrailingSlashNever}
	for _, p := range pathnames {
		for _, ts := range policies {
			assert.Equal(t, PathnameToFilename(p, ts), PathnameToFilename(p, ts), "pathname=%q policy=%s", p, ts)
		}
	}
}

func TestParseTrailingSlash(t *testing.T) {
	for in, want := range map[string]TrailingSlash{
		"":          TrailingSlashUnspecified,
		"undefined": TrailingSlashUnspecified,
		"always":    TrailingSlashAlways,
		"TRUE":      TrailingSlashAlways,
		"never":     TrailingSlashNever,
		"false":     TrailingSlashNever,
	} {
		got, err := ParseTrailingSlash(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseTrailingSlash("sometimes")
	assert.Error(t, err)
}

func TestTrailingSlashFromBool(t *testing.T) {
	yes, no := true, false
	assert.Equal(t, TrailingSlashUnspecified, TrailingSlashFromBool(nil))
	assert.Equal(t, TrailingSlashAlways, TrailingSlashFromBool(&yes))
	assert.Equal(t, TrailingSlashNever, TrailingSlashFromBool(&no))
	assert.Equal(t, "never", TrailingSlashNever.String())
}
