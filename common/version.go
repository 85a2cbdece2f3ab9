package common

import (
	"strconv"
	"strings"
)

// glesPrefixes are the vendor prefixes OpenGL ES drivers put in front of GL_VERSION
// and GL_SHADING_LANGUAGE_VERSION.
var glesPrefixes = []string{
	"OpenGL ES GLSL ES ",
	"OpenGL ES-CM ",
	"OpenGL ES-CL ",
	"OpenGL ES ",
}

// Version is a parsed major.minor pair reported by the graphics driver.
type Version struct {
	// Major is the major version number.
	Major int

	// Minor is the minor version number. For GLSL versions "1.30" this is 30, not 3.
	Minor int

	// ES is true when the driver reported an OpenGL ES string.
	ES bool
}

// ParseVersion extracts the leading major.minor pair from a driver version string such as
// "4.6.0 NVIDIA 535.54.03", "2.1 Mesa 23.0.4" or "OpenGL ES 3.2 v1.r32p1".
// Anything after the first space following the numbers is vendor specific and ignored.
//
// Parameters:
//   - s: the raw version string returned by the driver
//
// Returns:
//   - Version: the parsed version
//   - bool: false if no major.minor pair could be found
func ParseVersion(s string) (Version, bool) {
	var v Version
	s = strings.TrimSpace(s)
	for _, prefix := range glesPrefixes {
		if rest, ok := strings.CutPrefix(s, prefix); ok {
			v.ES = true
			s = rest
			break
		}
	}

	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	majorStr, rest, ok := strings.Cut(s, ".")
	if !ok {
		return Version{}, false
	}
	minorStr, _, _ := strings.Cut(rest, ".")

	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return Version{}, false
	}
	minor, err := strconv.Atoi(minorStr)
	if err != nil {
		return Version{}, false
	}
	v.Major = major
	v.Minor = minor
	return v, true
}

// AtLeast reports whether v is greater than or equal to major.minor.
//
// Parameters:
//   - major: the required major version
//   - minor: the required minor version
//
// Returns:
//   - bool: true if v >= major.minor
func (v Version) AtLeast(major, minor int) bool {
	if v.Major != major {
		return v.Major > major
	}
	return v.Minor >= minor
}

// GLSLDirective returns the number used in a "#version" directive for a shading language
// version, e.g. 1.20 -> 120, 3.30 -> 330, ES 1.00 -> 100.
//
// Returns:
//   - int: the directive number
func (v Version) GLSLDirective() int {
	minor := v.Minor
	if minor < 10 {
		minor *= 10
	}
	return v.Major*100 + minor
}
