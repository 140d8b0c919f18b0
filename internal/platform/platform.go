// Package platform resolves the host operating system into the small set of
// variants the build orchestrator cares about.
package platform

import (
	"runtime"
	"strings"
)

// Platform is the target operating system family.
type Platform int

const (
	// POSIX covers Linux, macOS and the BSDs.
	POSIX Platform = iota
	// Windows targets produce .exe binaries.
	Windows
)

// ExeSuffix is appended to executables built for Windows.
const ExeSuffix = ".exe"

// Host returns the platform of the running process.
func Host() Platform {
	return Parse(runtime.GOOS)
}

// Parse maps a platform identifier such as "windows", "win32" or "linux"
// onto a Platform. Anything that is not Windows is treated as POSIX.
func Parse(id string) Platform {
	switch strings.ToLower(strings.TrimSpace(id)) {
	case "windows", "win32", "win64", "cygwin", "msys":
		return Windows
	default:
		return POSIX
	}
}

// String implements fmt.Stringer.
func (p Platform) String() string {
	if p == Windows {
		return "windows"
	}
	return "posix"
}

// ExecutableName returns name with the platform suffix applied.
// A name that already carries the suffix is returned unchanged.
func (p Platform) ExecutableName(name string) string {
	if p != Windows || name == "" {
		return name
	}
	if strings.HasSuffix(strings.ToLower(name), ExeSuffix) {
		return name
	}
	return name + ExeSuffix
}

// RunInstruction returns the shell invocation of an executable at path,
// e.g. "./app", "./build/app" or ".\app.exe". Absolute paths are returned
// unchanged.
func (p Platform) RunInstruction(path string) string {
	if p == Windows {
		path = strings.ReplaceAll(path, "/", `\`)
		if strings.HasPrefix(path, `\`) || (len(path) >= 2 && path[1] == ':') {
			return path
		}
		return `.\` + path
	}
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "./" + path
}
