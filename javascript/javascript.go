package javascript

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ServerBundleName is the file name of the bundle written by WriteServerBundle.
const ServerBundleName = "server.bundle.js"

// BuildServerBundle bundles a server entry and everything it imports into a
// single self-contained CommonJS file. The result is what NewServerEntry
// expects: the sandbox offers no require, so nothing may stay external.
func BuildServerBundle(entryPoint string) ([]byte, error) {
	result := api.Build(api.BuildOptions{
		EntryPoints:  []string{entryPoint},
		Bundle:       true,
		Format:       api.FormatCommonJS,
		Platform:     api.PlatformNeutral,
		MainFields:   []string{"module", "main"},
		Target:       api.ES2017,
		MinifySyntax: true,
		Outfile:      ServerBundleName,
		Write:        false,
		LogLevel:     api.LogLevelSilent,
	})

	if len(result.Errors) > 0 {
		return nil, errors.Errorf("bundling server entry %s: %s", entryPoint, formatMessages(result.Errors))
	}

	for _, out := range result.OutputFiles {
		if strings.EqualFold(filepath.Ext(out.Path), ".map") {
			continue
		}
		return out.Contents, nil
	}
	return nil, errors.Errorf("bundling server entry %s produced no output", entryPoint)
}

// WriteServerBundle bundles entryPoint into outDir/server.bundle.js and
// returns the written path.
func WriteServerBundle(fs afero.Fs, entryPoint, outDir string) (string, error) {
	contents, err := BuildServerBundle(entryPoint)
	if err != nil {
		return "", err
	}

	if err := fs.MkdirAll(outDir, 0o755); err != nil {
		return "", errors.WithStack(err)
	}

	bundlePath := filepath.Join(outDir, ServerBundleName)
	if err := afero.WriteFile(fs, bundlePath, contents, 0o644); err != nil {
		return "", errors.Wrapf(err, "writing server bundle %s", bundlePath)
	}
	return bundlePath, nil
}

// toCommonJS rewrites ES module syntax so `export default` ends up on
// module.exports.default. CommonJS input passes through unchanged.
func toCommonJS(source []byte, filename string) (string, error) {
	result := api.Transform(string(source), api.TransformOptions{
		Loader:     api.LoaderJS,
		Format:     api.FormatCommonJS,
		Target:     api.ES2017,
		Sourcefile: filename,
		LogLevel:   api.LogLevelSilent,
	})
	if len(result.Errors) > 0 {
		return "", errors.Errorf("transforming server bundle %q: %s", filename, formatMessages(result.Errors))
	}
	return string(result.Code), nil
}

func formatMessages(msgs []api.Message) string {
	lines := make([]string, 0, len(msgs))
	for _, msg := range msgs {
		if loc := msg.Location; loc != nil {
			lines = append(lines, fmt.Sprintf("%s:%d:%d: %s", loc.File, loc.Line, loc.Column, msg.Text))
			continue
		}
		lines = append(lines, msg.Text)
	}
	return strings.Join(lines, "; ")
}
