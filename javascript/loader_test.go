package javascript

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/imjustablacknerd/docusaurus/ssg"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const esmBundle = `
export default function render(params) {
  return "<html>" + params.pathname + "</html>";
}
`

func loadEntry(t *testing.T, source string, opts ...LoaderOption) *ServerEntry {
	t.Helper()
	entry, err := NewServerEntry([]byte(source), "server.bundle.js", opts...)
	require.NoError(t, err)
	return entry
}

func render(t *testing.T, entry *ServerEntry, pathname string, params *ssg.Params) string {
	t.Helper()
	if params == nil {
		params = &ssg.Params{}
	}
	html, err := entry.Render(context.Background(), pathname, params)
	require.NoError(t, err)
	return html
}

func TestNewServerEntryESMDefaultExport(t *testing.T) {
	entry := loadEntry(t, esmBundle)
	assert.Equal(t, "server.bundle.js", entry.Filename())
	assert.Equal(t, "<html>/about</html>", render(t, entry, "/about", nil))
}

func TestNewServerEntryCommonJSAsyncDefault(t *testing.T) {
	entry := loadEntry(t, `
module.exports = {
  default: async function (params) {
    const body = await Promise.resolve(params.pathname);
    return "<html>" + body + "</html>";
  },
};
`)
	assert.Equal(t, "<html>/docs</html>", render(t, entry, "/docs", nil))
}

func TestNewServerEntryRejectsNonFunctionDefault(t *testing.T) {
	_, err := NewServerEntry([]byte(`export default "not a function";`), "my-bundle.js")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidBundleExport))
	assert.Contains(t, err.Error(), `"my-bundle.js"`)
}

func TestNewServerEntryRejectsMissingDefault(t *testing.T) {
	for name, source := range map[string]string{
		"named export only": `export const render = () => "";`,
		"module.exports fn": `module.exports = function () { return ""; };`,
		"exports replaced":  `module.exports = null;`,
		"nothing exported":  `var x = 1;`,
		"throwing getter":   `Object.defineProperty(module.exports, "default", { get() { throw new Error("boom"); } });`,
	} {
		t.Run(name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = NewServerEntry([]byte(source), "bundle.js")
			})
			assert.ErrorIs(t, err, ErrInvalidBundleExport)
			assert.Contains(t, err.Error(), `"bundle.js"`)
		})
	}
}

func TestNewServerEntrySyntaxError(t *testing.T) {
	_, err := NewServerEntry([]byte(`export default function (`), "broken.js")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidBundleExport))
	assert.Contains(t, err.Error(), "broken.js")
}

func TestNewServerEntrySandboxGlobals(t *testing.T) {
	entry := loadEntry(t, `
export default function () {
  return [typeof __filename, JSON.stringify(__filename), typeof process, typeof siteName, siteName].join(",");
}
`, WithGlobals(map[string]any{"siteName": "docs"}))
	assert.Equal(t, `string,"",undefined,string,docs`, render(t, entry, "/", nil))
}

func TestNewServerEntryRequireUnavailable(t *testing.T) {
	_, err := NewServerEntry([]byte(`
const fs = require("fs");
module.exports = { default: () => fs.readFileSync("x") };
`), "bundle.js")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cannot require "fs"`)
}

func TestRenderPassesParams(t *testing.T) {
	entry := loadEntry(t, `
export default (p) => [p.pathname, p.baseUrl, p.outDir, p.noIndex, p.routesLocation["/docs"], p.DOCUSAURUS_VERSION, p.manifestPath].join("|");
`)
	params := ssg.CreateServerEntryParams(ssg.SiteProps{
		BaseURL:           "/base/",
		OutDir:            "build",
		GeneratedFilesDir: ".docusaurus",
		NoIndex:           true,
		Version:           "3.0.0",
		RoutesPaths:       []string{"/base/docs"},
	}, nil, nil)

	assert.Equal(t, "/x|/base/|build|true|/base/docs|3.0.0|"+filepath.Join(".docusaurus", "client-manifest.json"), render(t, entry, "/x", params))
}

func TestRenderCallsCollectors(t *testing.T) {
	entry := loadEntry(t, `
export default function (params) {
  params.onLinksCollected({ staticPagePath: params.pathname, links: ["/a", "/b"], anchors: ["top"] });
  params.onHeadTagsCollected(params.pathname, {
    title: { toString() { return "<title>Intro</title>"; } },
    meta: "<meta name=\"x\">",
  });
  return "<html></html>";
}
`)
	collector := ssg.NewCollector()
	params := ssg.CreateServerEntryParams(ssg.SiteProps{BaseURL: "/"}, collector.OnLinksCollected, collector.OnHeadTagsCollected)

	render(t, entry, "/docs/intro", params)

	assert.Equal(t, ssg.LinksCollection{
		StaticPagePath: "/docs/intro",
		Links:          []string{"/a", "/b"},
		Anchors:        []string{"top"},
	}, collector.Links()["/docs/intro"])
	assert.Equal(t, ssg.HeadTags{
		"title": "<title>Intro</title>",
		"meta":  `<meta name="x">`,
	}, collector.HeadTags()["/docs/intro"])
}

func TestRenderErrors(t *testing.T) {
	tests := map[string]struct {
		source string
		want   string
	}{
		"throws":          {`export default () => { throw new Error("kaboom"); };`, "kaboom"},
		"rejects":         {`export default async () => { throw new Error("async kaboom"); };`, "async kaboom"},
		"returns nothing": {`export default () => undefined;`, "no HTML"},
		"never settles":   {`export default () => new Promise(() => {});`, "never settled"},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			entry := loadEntry(t, tt.source)
			_, err := entry.Render(context.Background(), "/p", &ssg.Params{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRenderInterruptedByContext(t *testing.T) {
	entry := loadEntry(t, `
export default (p) => {
  if (p.pathname === "/spin") {
    while (true) {}
  }
  return "ok " + p.pathname;
};
`)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := entry.Render(ctx, "/spin", &ssg.Params{})
	require.Error(t, err)

	// The interrupted runtime is not handed out again.
	assert.Equal(t, "ok /after", render(t, entry, "/after", nil))
}

func TestRendererDrivesGenerator(t *testing.T) {
	entry := loadEntry(t, esmBundle, WithPoolSize(4))
	fs := afero.NewMemMapFs()

	pathnames := make([]string, 40)
	for i := range pathnames {
		pathnames[i] = fmt.Sprintf("/docs/page-%d", i)
	}

	g := ssg.NewGenerator(fs, ssg.WithConcurrency(8))
	require.NoError(t, g.Generate(context.Background(), entry.Renderer(), pathnames, &ssg.Params{OutDir: "out"}, ssg.TrailingSlashNever))

	for _, p := range pathnames {
		data, err := afero.ReadFile(fs, filepath.Join("out", p+".html"))
		require.NoError(t, err)
		assert.Equal(t, "<html>"+p+"</html>", string(data))
	}
}

func TestLoadServerEntryRenderer(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/site/.docusaurus/server.bundle.js", []byte(esmBundle), 0o644))

	entry, err := LoadServerEntryRenderer(fs, "/site/.docusaurus/server.bundle.js")
	require.NoError(t, err)
	assert.Equal(t, "server.bundle.js", entry.Filename())

	_, err = LoadServerEntryRenderer(fs, "/site/missing.js")
	assert.Error(t, err)
}

func TestConsoleForwardsToLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	entry := loadEntry(t, `
console.log("loaded");
export default (p) => { console.warn("rendering", p.pathname); return "ok"; };
`, WithConsole(logger))
	render(t, entry, "/c", nil)

	out := buf.String()
	assert.Contains(t, out, "loaded")
	assert.Contains(t, out, "rendering /c")
	assert.Contains(t, out, "level=WARN")
}
