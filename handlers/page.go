package handlers

import (
	"strings"

	"github.com/gobuffalo/plush"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/parser"
	"github.com/imjustablacknerd/docusaurus/config"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v2"
)

const (
	TemplateTypePlush    = "PLUSH"
	TemplateTypeMarkdown = "MARKDOWN"
)

// PageMeta is what a page source declares about itself in its front matter.
type PageMeta struct {
	Title       string
	Description string
	Keywords    []string
	NoIndex     bool
}

// Page renders the body of a single route. The result is inserted into the
// SSR template as appHtml.
type Page interface {
	Render(fs afero.Fs, ctx *plush.Context) (string, PageMeta, error)
}

// NewPage picks the page implementation for the route's template type.
func NewPage(route config.Route) (Page, error) {
	if route.Source == "" {
		return nil, errors.Errorf("route %s has no source", route.Path)
	}
	switch strings.ToUpper(route.TemplateType) {
	case TemplateTypePlush:
		return plushPage{source: route.Source}, nil
	case TemplateTypeMarkdown:
		return markdownPage{source: route.Source}, nil
	default:
		return nil, errors.Errorf("route %s: unsupported template type %q", route.Path, route.TemplateType)
	}
}

type plushPage struct {
	source string
}

func (p plushPage) Render(fs afero.Fs, ctx *plush.Context) (string, PageMeta, error) {
	content, err := afero.ReadFile(fs, p.source)
	if err != nil {
		return "", PageMeta{}, errors.WithStack(err)
	}

	template, err := plush.Parse(string(content))
	if err != nil {
		return "", PageMeta{}, errors.Wrapf(err, "parsing %s", p.source)
	}

	html, err := template.Exec(ctx)
	if err != nil {
		return "", PageMeta{}, errors.Wrapf(err, "executing %s", p.source)
	}
	return html, PageMeta{}, nil
}

type markdownPage struct {
	source string
}

func (p markdownPage) Render(fs afero.Fs, _ *plush.Context) (string, PageMeta, error) {
	content, err := afero.ReadFile(fs, p.source)
	if err != nil {
		return "", PageMeta{}, errors.WithStack(err)
	}

	frontMatter, body := splitFrontMatter(string(content))

	var meta PageMeta
	if frontMatter != "" {
		var metadata map[string]interface{}
		if err := yaml.Unmarshal([]byte(frontMatter), &metadata); err != nil {
			return "", PageMeta{}, errors.Wrapf(err, "parsing front matter of %s", p.source)
		}
		meta = PageMeta{
			Title:       cast.ToString(metadata["title"]),
			Description: cast.ToString(metadata["description"]),
			Keywords:    cast.ToStringSlice(metadata["keywords"]),
			NoIndex:     cast.ToBool(metadata["noIndex"]),
		}
	}

	extensions := parser.CommonExtensions | parser.AutoHeadingIDs
	md := parser.NewWithExtensions(extensions)
	htmlContent := markdown.ToHTML([]byte(body), md, nil)

	return `<article class="markdown">` + "\n" + string(htmlContent) + "</article>", meta, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// markdown body.
func splitFrontMatter(content string) (string, string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	rest, ok := strings.CutPrefix(content, "---\n")
	if !ok {
		return "", content
	}
	if front, body, found := strings.Cut(rest, "\n---\n"); found {
		return front, body
	}
	if front, found := strings.CutSuffix(rest, "\n---"); found {
		return front, ""
	}
	return "", content
}
