// pre_processor.go implements the Oxy GLSL pre-processor. It scans shader source for
// @oxy: annotations in line comments, replaces //@oxy:include lines with the contents of
// the named file from the shader library, and normalizes the #version directive for the
// backend that will consume the source:
//   - the GLSL backend injects a #version matching the driver when the source has none,
//   - the ARB backend strips #version, since ARB shader objects only accept GLSL 1.10.
package shader

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
)

// annotationPrefix is the marker that identifies an Oxy annotation within a line comment.
const annotationPrefix = "@oxy:"

// maxIncludeDepth bounds nested includes.
const maxIncludeDepth = 8

// annotationInclude injects the contents of a library file at the annotation site.
//
// Syntax: //@oxy:include <path>
//
// Example: //@oxy:include common/palette.glsl
const annotationInclude = "include"

// VersionMode controls how the pre-processor treats #version directives.
type VersionMode int

const (
	// VersionKeep leaves #version directives untouched.
	VersionKeep VersionMode = iota

	// VersionInject prepends a #version directive when the source does not declare one.
	VersionInject

	// VersionStrip removes every #version directive.
	VersionStrip
)

// preProcessor is the implementation of the PreProcessor interface.
type preProcessor struct {
	fsys      fs.FS
	mode      VersionMode
	directive int

	// includes accumulates the files injected during a Process call, in source order.
	includes []string
}

// PreProcessor processes raw GLSL source containing @oxy: annotations.
type PreProcessor interface {
	// Process resolves includes and normalizes the #version directive.
	// Included files have their own #version lines removed.
	//
	// Parameters:
	//   - source: the raw GLSL source
	//
	// Returns:
	//   - string: the processed source
	//   - error: an error if an annotation is malformed, unknown, cyclic or names a missing file
	Process(source string) (string, error)
}

var _ PreProcessor = &preProcessor{}

// PreProcessorOption is a functional option for configuring a preProcessor.
type PreProcessorOption func(p *preProcessor)

// WithVersionInjection makes the pre-processor prepend "#version <directive>" to sources that lack one.
//
// Parameters:
//   - directive: the version number, e.g. 120
//
// Returns:
//   - PreProcessorOption: option function to apply
func WithVersionInjection(directive int) PreProcessorOption {
	return func(p *preProcessor) {
		p.mode = VersionInject
		p.directive = directive
	}
}

// WithVersionStripping makes the pre-processor remove #version directives.
//
// Returns:
//   - PreProcessorOption: option function to apply
func WithVersionStripping() PreProcessorOption {
	return func(p *preProcessor) {
		p.mode = VersionStrip
	}
}

// NewPreProcessor creates a PreProcessor resolving includes against fsys.
//
// Parameters:
//   - fsys: the file system includes are read from (may be nil if sources never include)
//   - options: functional options selecting the #version handling
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor
func NewPreProcessor(fsys fs.FS, options ...PreProcessorOption) PreProcessor {
	p := &preProcessor{fsys: fsys}
	for _, opt := range options {
		opt(p)
	}
	return p
}

func (p *preProcessor) Process(source string) (string, error) {
	p.includes = p.includes[:0]

	out, hasVersion, err := p.expand(source, nil, true)
	if err != nil {
		return "", err
	}

	if p.mode == VersionInject && !hasVersion {
		out = append([]string{fmt.Sprintf("#version %d", p.directive)}, out...)
	}
	return strings.Join(out, "\n"), nil
}

// expand processes one source body. stack holds the include chain leading to it and
// top is false for included files, whose #version lines are always dropped.
func (p *preProcessor) expand(source string, stack []string, top bool) ([]string, bool, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	hasVersion := false

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#version") {
			if !top || p.mode == VersionStrip {
				continue
			}
			hasVersion = true
			out = append(out, line)
			continue
		}

		name, args, ok, err := parseAnnotation(trimmed, i+1)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			out = append(out, line)
			continue
		}

		switch name {
		case annotationInclude:
			if len(args) != 1 {
				return nil, false, fmt.Errorf("line %d: @oxy:include expects 1 argument, got %d", i+1, len(args))
			}
			file := path.Clean(args[0])
			if slices.Contains(stack, file) {
				return nil, false, fmt.Errorf("line %d: include cycle through %q", i+1, file)
			}
			if len(stack) >= maxIncludeDepth {
				return nil, false, fmt.Errorf("line %d: includes nested deeper than %d", i+1, maxIncludeDepth)
			}
			if p.fsys == nil {
				return nil, false, fmt.Errorf("line %d: cannot include %q without a source file system", i+1, file)
			}
			data, err := fs.ReadFile(p.fsys, file)
			if err != nil {
				return nil, false, fmt.Errorf("line %d: failed to read include %q: %w", i+1, file, err)
			}
			p.includes = append(p.includes, file)

			included, _, err := p.expand(string(data), append(stack, file), false)
			if err != nil {
				return nil, false, fmt.Errorf("%s: %w", file, err)
			}
			out = append(out, included...)
		default:
			return nil, false, fmt.Errorf("line %d: unknown annotation %q", i+1, annotationPrefix+name)
		}
	}
	return out, hasVersion, nil
}

// parseAnnotation recognizes a "//@oxy:<name> <args...>" comment line.
// Lines that are not annotation comments return ok=false and no error.
func parseAnnotation(trimmed string, lineNum int) (name string, args []string, ok bool, err error) {
	body, isComment := strings.CutPrefix(trimmed, "//")
	if !isComment {
		return "", nil, false, nil
	}
	body, isAnnotation := strings.CutPrefix(strings.TrimSpace(body), annotationPrefix)
	if !isAnnotation {
		return "", nil, false, nil
	}
	fields := strings.Fields(body)
	if len(fields) == 0 {
		return "", nil, false, fmt.Errorf("line %d: empty annotation", lineNum)
	}
	return fields[0], fields[1:], true, nil
}
