package yo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// OutputShape selects which indexes WriteResults writes.
type OutputShape string

const (
	ShapeYear           OutputShape = "year"
	ShapeYearAndSubject OutputShape = "year+subject"
)

func ParseOutputShape(s string) (OutputShape, error) {
	switch OutputShape(s) {
	case ShapeYear, ShapeYearAndSubject:
		return OutputShape(s), nil
	case "":
		return ShapeYearAndSubject, nil
	}
	return "", fmt.Errorf("unknown output shape %q, expected %q or %q", s, ShapeYear, ShapeYearAndSubject)
}

const (
	DefaultYearPath    = "./out/yo-results.json"
	DefaultSubjectPath = "./out/yo-results-subject.json"
)

type OutputOptions struct {
	Shape       OutputShape
	YearPath    string
	SubjectPath string
}

func DefaultOutputOptions() OutputOptions {
	return OutputOptions{
		Shape:       ShapeYearAndSubject,
		YearPath:    DefaultYearPath,
		SubjectPath: DefaultSubjectPath,
	}
}

// MarshalCompact encodes v without indentation, html escaping or a trailing newline.
func MarshalCompact(v any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(v)
	if err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

func writeJSON(path string, v any) error {
	contents, err := MarshalCompact(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	err = os.MkdirAll(filepath.Dir(path), 0777)
	if err != nil {
		return err
	}
	return os.WriteFile(path, contents, 0644)
}

// WriteResults writes the indexes selected by opts.Shape, overwriting
// existing files. It returns the paths written.
func WriteResults(results Results, opts OutputOptions) ([]string, error) {
	shape, err := ParseOutputShape(string(opts.Shape))
	if err != nil {
		return nil, err
	}
	if opts.YearPath == "" {
		opts.YearPath = DefaultYearPath
	}
	if opts.SubjectPath == "" {
		opts.SubjectPath = DefaultSubjectPath
	}

	err = writeJSON(opts.YearPath, results.ByYear)
	if err != nil {
		return nil, err
	}
	written := []string{opts.YearPath}

	if shape == ShapeYearAndSubject {
		err = writeJSON(opts.SubjectPath, results.BySubject)
		if err != nil {
			return written, err
		}
		written = append(written, opts.SubjectPath)
	}
	return written, nil
}

func readJSON[T any](path string) (T, error) {
	var out T
	contents, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(contents, &out)
	if err != nil {
		return out, fmt.Errorf("decode %s: %w", path, err)
	}
	return out, nil
}

func ReadYearIndex(path string) (YearIndex, error) {
	return readJSON[YearIndex](path)
}

func ReadSubjectIndex(path string) (SubjectIndex, error) {
	return readJSON[SubjectIndex](path)
}
