package ssg

import (
	"path/filepath"

	"github.com/BurntSushi/locker"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

const htmlMediaType = "text/html"

// Publisher writes rendered pages below the output directory.
//
// Writes to the same target are serialized so the file never ends up with
// interleaved content; the last writer still wins.
type Publisher struct {
	fs       afero.Fs
	locks    *locker.Locker
	minifier *minify.M
}

func NewPublisher(fs afero.Fs) *Publisher {
	return &Publisher{
		fs:    fs,
		locks: locker.NewLocker(),
	}
}

// SetMinify toggles HTML minification of published pages.
func (p *Publisher) SetMinify(enabled bool) {
	if !enabled {
		p.minifier = nil
		return
	}
	m := minify.New()
	m.Add(htmlMediaType, &html.Minifier{
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
	})
	p.minifier = m
}

// Publish creates the parent directories of filePath and writes content,
// replacing any existing file.
func (p *Publisher) Publish(filePath, content string) error {
	if filePath == "" {
		return errors.New("publish: must provide a target path")
	}

	if p.minifier != nil {
		minified, err := p.minifier.String(htmlMediaType, content)
		if err != nil {
			return errors.Wrapf(err, "minifying %s", filePath)
		}
		content = minified
	}

	p.locks.Lock(filePath)
	defer p.locks.Unlock(filePath)

	if err := p.fs.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", filePath)
	}
	if err := afero.WriteFile(p.fs, filePath, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, "writing %s", filePath)
	}
	return nil
}
