package ssg

import (
	"context"
	"path/filepath"
)

// Renderer turns a pathname into a complete HTML document. Implementations
// are called concurrently with the same *Params.
type Renderer func(ctx context.Context, pathname string, params *Params) (string, error)

// LinksCollection lists what a rendered page links to and the anchors it
// declares.
type LinksCollection struct {
	StaticPagePath string   `mapstructure:"staticPagePath" json:"staticPagePath"`
	Links          []string `mapstructure:"links" json:"links"`
	Anchors        []string `mapstructure:"anchors" json:"anchors"`
}

// HeadTags holds the serialized head elements of a page keyed by kind
// (title, meta, link, script, ...).
type HeadTags map[string]string

// Params is shared, read-only, by every render call of a run.
//
// OnLinksCollected and OnHeadTagsCollected are invoked from several
// goroutines at once; they must synchronize internally. Collector does.
type Params struct {
	OutDir         string
	BaseURL        string
	ManifestPath   string
	RoutesLocation RoutesLocation
	HeadTags       string
	PreBodyTags    string
	PostBodyTags   string
	SSRTemplate    string
	NoIndex        bool
	Version        string

	OnLinksCollected    func(LinksCollection)
	OnHeadTagsCollected func(staticPagePath string, tags HeadTags)
}

// CollectLinks forwards to OnLinksCollected when set.
func (p *Params) CollectLinks(c LinksCollection) {
	if p.OnLinksCollected != nil {
		p.OnLinksCollected(c)
	}
}

// CollectHeadTags forwards to OnHeadTagsCollected when set.
func (p *Params) CollectHeadTags(staticPagePath string, tags HeadTags) {
	if p.OnHeadTagsCollected != nil {
		p.OnHeadTagsCollected(staticPagePath, tags)
	}
}

// SiteProps is the subset of the loaded site needed to build Params.
type SiteProps struct {
	BaseURL           string
	OutDir            string
	GeneratedFilesDir string
	HeadTags          string
	PreBodyTags       string
	PostBodyTags      string
	SSRTemplate       string
	NoIndex           bool
	Version           string
	RoutesPaths       []string
}

// CreateServerEntryParams assembles the render parameters of one run.
func CreateServerEntryParams(
	props SiteProps,
	onLinksCollected func(LinksCollection),
	onHeadTagsCollected func(string, HeadTags),
) *Params {
	ssrTemplate := props.SSRTemplate
	if ssrTemplate == "" {
		ssrTemplate = DefaultSSRTemplate
	}

	return &Params{
		OutDir:              props.OutDir,
		BaseURL:             props.BaseURL,
		ManifestPath:        filepath.Join(props.GeneratedFilesDir, "client-manifest.json"),
		RoutesLocation:      BuildRoutesLocation(props.RoutesPaths, props.BaseURL),
		HeadTags:            props.HeadTags,
		PreBodyTags:         props.PreBodyTags,
		PostBodyTags:        props.PostBodyTags,
		SSRTemplate:         ssrTemplate,
		NoIndex:             props.NoIndex,
		Version:             props.Version,
		OnLinksCollected:    onLinksCollected,
		OnHeadTagsCollected: onHeadTagsCollected,
	}
}

// DefaultSSRTemplate is the plush page shell used when the site does not
// configure one.
const DefaultSSRTemplate = `<!DOCTYPE html>
<html lang="<%= lang %>">
  <head>
    <meta charset="UTF-8">
    <meta name="generator" content="Docusaurus v<%= version %>">
    <%= if (noIndex) { %><meta name="robots" content="noindex, nofollow"><% } %>
    <title><%= title %></title>
    <%= pageHeadTags %>
    <%= headTags %>
  </head>
  <body>
    <%= preBodyTags %>
    <div id="__docusaurus"><%= appHtml %></div>
    <%= postBodyTags %>
  </body>
</html>
`
