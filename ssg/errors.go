package ssg

import "fmt"

// RenderError reports a page that could not be rendered or written.
type RenderError struct {
	Pathname string
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("can't render static file for pathname=%s: %v", e.Pathname, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Cause lets github.com/pkg/errors.Cause see through the wrapper.
func (e *RenderError) Cause() error { return e.Err }
