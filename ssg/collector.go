package ssg

import (
	"net/url"
	"sort"
	"strings"
	"sync"
)

// Collector is a concurrency-safe sink for the per-page side channel. Its
// methods can be passed directly as Params callbacks.
type Collector struct {
	mu       sync.Mutex
	links    map[string]LinksCollection
	headTags map[string]HeadTags
}

func NewCollector() *Collector {
	return &Collector{
		links:    make(map[string]LinksCollection),
		headTags: make(map[string]HeadTags),
	}
}

func (c *Collector) OnLinksCollected(collected LinksCollection) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links[collected.StaticPagePath] = collected
}

func (c *Collector) OnHeadTagsCollected(staticPagePath string, tags HeadTags) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.headTags[staticPagePath] = tags
}

// Links returns a copy of the collected links keyed by page path.
func (c *Collector) Links() map[string]LinksCollection {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]LinksCollection, len(c.links))
	for k, v := range c.links {
		out[k] = v
	}
	return out
}

// HeadTags returns a copy of the collected head tags keyed by page path.
func (c *Collector) HeadTags() map[string]HeadTags {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]HeadTags, len(c.headTags))
	for k, v := range c.headTags {
		out[k] = v
	}
	return out
}

// BrokenLinks resolves every collected internal link against its page and
// returns, per page, the links that match none of routes. External links,
// bare fragments and unparsable links are ignored.
func (c *Collector) BrokenLinks(routes []string) map[string][]string {
	known := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		known[normalizeRoute(r)] = struct{}{}
	}

	broken := make(map[string][]string)
	for page, collected := range c.Links() {
		base, err := url.Parse(page)
		if err != nil {
			continue
		}
		for _, link := range collected.Links {
			if link == "" || strings.HasPrefix(link, "#") {
				continue
			}
			ref, err := url.Parse(link)
			if err != nil || ref.Scheme != "" || ref.Host != "" {
				continue
			}
			target := normalizeRoute(base.ResolveReference(ref).Path)
			if _, ok := known[target]; !ok {
				broken[page] = append(broken[page], link)
			}
		}
		if links, ok := broken[page]; ok {
			sort.Strings(links)
		}
	}
	return broken
}

func normalizeRoute(p string) string {
	p = strings.TrimSuffix(p, "/")
	if p == "" {
		return "/"
	}
	return p
}
