package logfields

import (
	"errors"
	"log/slog"
	"testing"
)

// Key drift would break anything that greps build logs.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"RunID", KeyRunID, "r1", RunID("r1")},
		{"Pathname", KeyPathname, "/docs", Pathname("/docs")},
		{"File", KeyFile, "build/index.html", File("build/index.html")},
		{"Bundle", KeyBundle, "server.bundle.js", Bundle("server.bundle.js")},
		{"URL", KeyURL, "http://localhost", URL("http://localhost")},
		{"Link", KeyLink, "/missing", Link("/missing")},
		{"Addr", KeyAddr, ":3000", Addr(":3000")},
		{"Concurrency", KeyConcurrency, "32", Concurrency(32)},
		{"Pages", KeyPages, "4", Pages(4)},
		{"Error", KeyError, "boom", Error(errors.New("boom"))},
		{"NilError", KeyError, "", Error(nil)},
	}

	for _, tc := range cases {
		if tc.attr.Key != tc.attrKey {
			t.Fatalf("%s: expected key %s, got %s", tc.name, tc.attrKey, tc.attr.Key)
		}
		if got := tc.attr.Value.String(); got != tc.attrVal {
			t.Fatalf("%s: expected value %s, got %v", tc.name, tc.attrVal, got)
		}
	}
}
