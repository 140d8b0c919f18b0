package orchestrator

import (
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/LiboWorks/cppbuild/internal/platform"
)

// AssembleCommand returns the compiler argv for cfg:
//
//	<compiler> <std> <source> -o <output> <opt> [-I<include>] [-L<lib>] <link flags>...
//
// Empty fields are dropped; no empty token is ever emitted. Link flags come
// last, in their configured order, so the linker sees them after the source.
func AssembleCommand(cfg BuildConfig) []string {
	argv := make([]string, 0, 8+len(cfg.LinkFlags))
	add := func(tokens ...string) {
		for _, t := range tokens {
			if t != "" {
				argv = append(argv, t)
			}
		}
	}

	add(cfg.Compiler, cfg.StandardFlag, cfg.SourceFile)
	if cfg.OutputName != "" {
		add("-o", cfg.OutputName)
	}
	add(cfg.OptimizationFlag)
	if cfg.IncludeDir != "" {
		add("-I" + cfg.IncludeDir)
	}
	if cfg.LibDir != "" {
		add("-L" + cfg.LibDir)
	}
	add(cfg.LinkFlags...)
	return argv
}

// FormatCommand renders argv as a single line that can be pasted into the
// shell of platform p.
func FormatCommand(p platform.Platform, argv []string) string {
	if p != platform.Windows {
		return shellquote.Join(argv...)
	}
	quoted := make([]string, len(argv))
	for i, a := range argv {
		quoted[i] = windowsQuote(a)
	}
	return strings.Join(quoted, " ")
}

// windowsQuote quotes a for the Microsoft C runtime argument parser:
// backslashes are literal unless they precede a double quote, in which
// case they must be doubled.
func windowsQuote(a string) string {
	if a != "" && !strings.ContainsAny(a, " \t\"") {
		return a
	}
	var b strings.Builder
	b.WriteByte('"')
	slashes := 0
	for i := 0; i < len(a); i++ {
		switch c := a[i]; c {
		case '\\':
			slashes++
		case '"':
			b.WriteString(strings.Repeat(`\`, 2*slashes+1))
			b.WriteByte(c)
			slashes = 0
		default:
			b.WriteString(strings.Repeat(`\`, slashes))
			b.WriteByte(c)
			slashes = 0
		}
	}
	// the closing quote must not be escaped by trailing backslashes
	b.WriteString(strings.Repeat(`\`, 2*slashes))
	b.WriteByte('"')
	return b.String()
}
