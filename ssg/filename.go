package ssg

import (
	"path"
	"regexp"
	"strings"
)

var explicitHTMLExt = regexp.MustCompile(`(?i)\.html?$`)

// PathnameToFilename maps a logical site pathname to the output file path,
// relative to the output directory and using forward slashes.
//
// Pathnames that already carry an .htm/.html extension are returned as-is.
// Without a policy every page gets folder-style output. Otherwise the site
// root, pathnames with a trailing slash and the "always" policy produce
// <pathname>/index.html, and everything else <pathname>.html.
//
// The result is not sanitized: ".." segments survive and must be rejected by
// the caller if that matters.
func PathnameToFilename(pathname string, trailingSlash TrailingSlash) string {
	outputFileName := strings.TrimPrefix(pathname, "/")
	if len(outputFileName) == len(pathname) {
		outputFileName = strings.TrimPrefix(pathname, `\`)
	}

	if explicitHTMLExt.MatchString(outputFileName) {
		return outputFileName
	}

	if trailingSlash == TrailingSlashUnspecified {
		return path.Join(outputFileName, "index.html")
	}

	if outputFileName == "" || strings.HasSuffix(pathname, "/") || trailingSlash == TrailingSlashAlways {
		return path.Join(outputFileName, "index.html")
	}
	return outputFileName + ".html"
}
