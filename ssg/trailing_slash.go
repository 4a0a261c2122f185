package ssg

import (
	"strings"

	"github.com/pkg/errors"
)

// TrailingSlash is the site-wide policy deciding between folder-style
// (about/index.html) and flat-file (about.html) output.
type TrailingSlash int

const (
	// TrailingSlashUnspecified keeps the legacy behavior: every page is
	// written as <pathname>/index.html.
	TrailingSlashUnspecified TrailingSlash = iota
	TrailingSlashAlways
	TrailingSlashNever
)

func (t TrailingSlash) String() string {
	switch t {
	case TrailingSlashAlways:
		return "always"
	case TrailingSlashNever:
		return "never"
	default:
		return "unspecified"
	}
}

// TrailingSlashFromBool maps the optional boolean site setting to a policy.
func TrailingSlashFromBool(b *bool) TrailingSlash {
	if b == nil {
		return TrailingSlashUnspecified
	}
	if *b {
		return TrailingSlashAlways
	}
	return TrailingSlashNever
}

// ParseTrailingSlash accepts the policy names as well as "true"/"false".
func ParseTrailingSlash(s string) (TrailingSlash, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "unspecified", "undefined":
		return TrailingSlashUnspecified, nil
	case "always", "true":
		return TrailingSlashAlways, nil
	case "never", "false":
		return TrailingSlashNever, nil
	}
	return TrailingSlashUnspecified, errors.Errorf("unknown trailing slash policy %q", s)
}
