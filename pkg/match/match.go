// Package match implements the find-and-replace engine: it builds an
// immutable lookup from (find, replace) reference pairs and resolves source
// values against it, optionally normalizing both sides through regex
// extraction, leading-zero stripping, and fixed-width padding.
package match

import (
	"iter"
	"regexp"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// DefaultPattern extracts a maximal run of decimal digits.
const DefaultPattern = `[0-9]+`

// ErrInvalidPattern is reported by BuildLookup when the configured pattern
// does not compile as a regular expression. No partial lookup is built.
var ErrInvalidPattern = errors.Base("invalid match pattern")

// Options controls how find keys and source values are normalized before
// comparison. The same pipeline is applied to both sides.
type Options struct {
	// PatternMatch enables regex extraction. When false the lookup is a
	// direct equality check and the other options are ignored.
	PatternMatch bool

	// Pattern is the extraction regex. Empty means DefaultPattern.
	Pattern string

	// StripLeadingZeros trims leading '0' from digit extracts. An all-zero
	// extract collapses to "0", never to the empty string.
	StripLeadingZeros bool

	// PadNumbers left-pads digit extracts with '0' to the widest digit
	// length observed across the reference set at build time.
	PadNumbers bool
}

// Pair is one (find, replace) tuple taken from a reference table row.
type Pair struct {
	Find    string
	Replace string
}

// Outcome is the result of resolving a single source value. Unmatched is not
// an error; callers decide whether unmatched values keep their original or
// become blank.
type Outcome struct {
	Source      string
	Replacement string
	Matched     bool
}

// Lookup is an immutable mapping from normalized find keys to replacement
// values, built once per run. Replacement values are stored verbatim; the
// normalization pipeline applies to keys only.
type Lookup struct {
	opts     Options
	pattern  *regexp.Regexp // nil when pattern matching is off
	padWidth int
	entries  map[string]string
}

// BuildLookup constructs the lookup from reference pairs. Pairs whose find
// key yields no pattern match are excluded. Duplicate normalized keys are
// resolved last-writer-wins in input order.
func BuildLookup(pairs []Pair, opts Options) (*Lookup, error) {
	l := &Lookup{
		opts:    opts,
		entries: make(map[string]string, len(pairs)),
	}

	if opts.PatternMatch {
		expr := opts.Pattern
		if expr == "" {
			expr = DefaultPattern
		}
		pattern, err := regexp.Compile(expr)
		if err != nil {
			return nil, errors.Errorf("%w: compiling %q: %v", ErrInvalidPattern, expr, err)
		}
		l.pattern = pattern
	}

	// The pad width is fixed from the reference set before any key is
	// padded, so source values pad against the same width later.
	if l.pattern != nil && opts.PadNumbers {
		for _, p := range pairs {
			key, ok := l.extractAndStrip(p.Find)
			if !ok || !isDigits(key) {
				continue
			}
			if len(key) > l.padWidth {
				l.padWidth = len(key)
			}
		}
	}

	for _, p := range pairs {
		key, ok := l.normalize(p.Find)
		if !ok {
			continue
		}
		l.entries[key] = p.Replace
	}

	return l, nil
}

// Resolve normalizes value and looks it up. A source value with no pattern
// match, or whose normalized key is absent, is Unmatched.
func (l *Lookup) Resolve(value string) Outcome {
	key, ok := l.normalize(value)
	if !ok {
		return Outcome{Source: value}
	}
	replacement, ok := l.entries[key]
	if !ok {
		return Outcome{Source: value}
	}
	return Outcome{Source: value, Replacement: replacement, Matched: true}
}

// ApplyBatch resolves each value independently, preserving input order. The
// returned sequence is lazy and can be re-iterated from the same lookup.
func (l *Lookup) ApplyBatch(values []string) iter.Seq[Outcome] {
	return func(yield func(Outcome) bool) {
		for _, v := range values {
			if !yield(l.Resolve(v)) {
				return
			}
		}
	}
}

// Len reports the number of distinct normalized keys in the lookup.
func (l *Lookup) Len() int {
	return len(l.entries)
}

// extractAndStrip runs steps 1 and 2 of the pipeline: pattern extraction and
// leading-zero stripping. ok is false when the pattern yields no usable
// substring, leaving the key undefined.
func (l *Lookup) extractAndStrip(value string) (string, bool) {
	if l.pattern == nil {
		return value, true
	}
	key := l.pattern.FindString(value)
	if key == "" {
		return "", false
	}
	// Zero-stripping operates on digit runs only; a letter-class extract
	// passes through untouched.
	if l.opts.StripLeadingZeros && isDigits(key) {
		key = strings.TrimLeft(key, "0")
		if key == "" {
			key = "0"
		}
	}
	return key, true
}

func (l *Lookup) normalize(value string) (string, bool) {
	key, ok := l.extractAndStrip(value)
	if !ok {
		return "", false
	}
	if l.pattern != nil && l.opts.PadNumbers && isDigits(key) && len(key) < l.padWidth {
		key = strings.Repeat("0", l.padWidth-len(key)) + key
	}
	return key, true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
