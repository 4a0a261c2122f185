package utils

import (
	"io"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/net/html"
)

// ExtractLinks returns the hrefs of <a> elements and the anchors (id and
// a[name] attributes) declared in document, in document order and without
// duplicates.
func ExtractLinks(document string) (links, anchors []string, err error) {
	seenLinks := map[string]struct{}{}
	seenAnchors := map[string]struct{}{}
	add := func(list []string, seen map[string]struct{}, v string) []string {
		if v == "" {
			return list
		}
		if _, ok := seen[v]; ok {
			return list
		}
		seen[v] = struct{}{}
		return append(list, v)
	}

	z := html.NewTokenizer(strings.NewReader(document))
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return links, anchors, nil
			}
			return links, anchors, errors.Wrap(z.Err(), "tokenizing html")
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			for _, attr := range tok.Attr {
				switch {
				case attr.Key == "id":
					anchors = add(anchors, seenAnchors, attr.Val)
				case tok.Data == "a" && attr.Key == "name":
					anchors = add(anchors, seenAnchors, attr.Val)
				case tok.Data == "a" && attr.Key == "href":
					links = add(links, seenLinks, attr.Val)
				}
			}
		}
	}
}
