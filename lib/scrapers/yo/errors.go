package yo

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork signals a failed request: transport error or a non-2xx status.
	ErrNetwork = errors.New("yo: request failed")
	// ErrParse signals a body that could not be parsed, or a malformed score
	// cell when strict parsing is enabled.
	ErrParse = errors.New("yo: could not parse response")
	// ErrStructure signals that an expected element is missing from a page.
	ErrStructure = errors.New("yo: failed to parse document")
	// ErrUnrecognizedLayout signals a content container that matches neither
	// the single-year nor the multi-year layout.
	ErrUnrecognizedLayout = errors.New("yo: unrecognized page layout")
	// ErrNoTableBody is returned by ParseTable when the container holds no
	// tbody, it also matches ErrStructure.
	ErrNoTableBody = fmt.Errorf("%w: no table body", ErrStructure)
)
