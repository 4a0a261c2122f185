package handlers

import (
	"context"
	"html/template"
	"strings"

	"github.com/gobuffalo/plush"
	"github.com/imjustablacknerd/docusaurus/config"
	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/imjustablacknerd/docusaurus/utils"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

var ErrRouteNotFound = errors.New("route not found")

// TemplateRenderer renders configured routes without a server bundle: the
// route's markdown or plush source becomes appHtml of the SSR template.
type TemplateRenderer struct {
	fs        afero.Fs
	siteTitle string
	pages     map[string]Page
}

func NewTemplateRenderer(fs afero.Fs, siteTitle string, routes []config.Route) (*TemplateRenderer, error) {
	pages := make(map[string]Page, len(routes))
	for _, route := range routes {
		page, err := NewPage(route)
		if err != nil {
			return nil, err
		}
		pages[route.Path] = page
	}

	return &TemplateRenderer{
		fs:        fs,
		siteTitle: siteTitle,
		pages:     pages,
	}, nil
}

func (t *TemplateRenderer) Renderer() ssg.Renderer { return t.Render }

// Render produces the full document for pathname and reports its links,
// anchors and head tags to the params collectors.
func (t *TemplateRenderer) Render(ctx context.Context, pathname string, params *ssg.Params) (string, error) {
	page, ok := t.pages[pathname]
	if !ok {
		return "", errors.Wrap(ErrRouteNotFound, pathname)
	}
	if err := ctx.Err(); err != nil {
		return "", errors.WithStack(err)
	}

	pctx := t.newContext(pathname, params)

	content, meta, err := page.Render(t.fs, pctx)
	if err != nil {
		return "", errors.Wrapf(err, "rendering page %s", pathname)
	}

	title := t.title(meta)
	tags := pageHeadTags(title, meta)
	pctx.Set("title", title)
	pctx.Set("noIndex", params.NoIndex || meta.NoIndex)
	pctx.Set("appHtml", template.HTML(content))
	pctx.Set("pageHeadTags", template.HTML(tags["meta"]))

	ssrTemplate := params.SSRTemplate
	if ssrTemplate == "" {
		ssrTemplate = ssg.DefaultSSRTemplate
	}
	layout, err := plush.Parse(ssrTemplate)
	if err != nil {
		return "", errors.Wrap(err, "parsing ssr template")
	}

	html, err := layout.Exec(pctx)
	if err != nil {
		return "", errors.Wrap(err, "executing ssr template")
	}

	links, anchors, err := utils.ExtractLinks(html)
	if err != nil {
		return "", err
	}
	params.CollectLinks(ssg.LinksCollection{
		StaticPagePath: pathname,
		Links:          links,
		Anchors:        anchors,
	})
	params.CollectHeadTags(pathname, tags)

	return html, nil
}

func (t *TemplateRenderer) newContext(pathname string, params *ssg.Params) *plush.Context {
	ctx := plush.NewContext()
	ctx.Set("lang", "en")
	ctx.Set("version", params.Version)
	ctx.Set("baseUrl", params.BaseURL)
	ctx.Set("currentPath", pathname)
	ctx.Set("siteTitle", t.siteTitle)
	ctx.Set("headTags", template.HTML(params.HeadTags))
	ctx.Set("preBodyTags", template.HTML(params.PreBodyTags))
	ctx.Set("postBodyTags", template.HTML(params.PostBodyTags))

	// Add url helper
	ctx.Set("url", func(p string) string {
		return strings.TrimSuffix(params.BaseURL, "/") + "/" + strings.TrimPrefix(p, "/")
	})

	// Add startsWith helper
	ctx.Set("startsWith", func(s string, prefix string) bool {
		return strings.HasPrefix(s, prefix)
	})

	return ctx
}

func (t *TemplateRenderer) title(meta PageMeta) string {
	switch {
	case meta.Title == "":
		return t.siteTitle
	case t.siteTitle == "":
		return meta.Title
	default:
		return meta.Title + " | " + t.siteTitle
	}
}

func pageHeadTags(title string, meta PageMeta) ssg.HeadTags {
	tags := ssg.HeadTags{
		"title": "<title>" + template.HTMLEscapeString(title) + "</title>",
	}

	var metaTags []string
	if meta.Description != "" {
		metaTags = append(metaTags, `<meta name="description" content="`+template.HTMLEscapeString(meta.Description)+`">`)
	}
	if len(meta.Keywords) > 0 {
		metaTags = append(metaTags, `<meta name="keywords" content="`+template.HTMLEscapeString(strings.Join(meta.Keywords, ", "))+`">`)
	}
	if len(metaTags) > 0 {
		tags["meta"] = strings.Join(metaTags, "\n")
	}
	return tags
}
