// Package ledger collects the imports proposed by cheatsheet rows and
// derives the list that is safe to share between all of them.
package ledger

import (
	"bytes"
	"go/format"
	"sort"
	"strings"
)

// Ledger maps the identifier an import binds to the import spec proposing
// it. Recording is optimistic; conflicts are only resolved by Finalize, once
// every row has been seen.
type Ledger struct {
	// ExcludeSuffix and ExcludePrefix name module paths that are never
	// recorded.
	ExcludeSuffix string
	ExcludePrefix string

	specs     map[string]string
	conflicts map[string]struct{}
}

// New returns a ledger skipping modules ending in excludeSuffix or starting
// with excludePrefix. Empty strings disable the respective rule.
func New(excludeSuffix, excludePrefix string) *Ledger {
	return &Ledger{
		ExcludeSuffix: excludeSuffix,
		ExcludePrefix: excludePrefix,
		specs:         make(map[string]string),
		conflicts:     make(map[string]struct{}),
	}
}

// Excluded reports whether imports from module are kept out of the ledger.
func (l *Ledger) Excluded(module string) bool {
	if l.ExcludeSuffix != "" && strings.HasSuffix(module, l.ExcludeSuffix) {
		return true
	}
	return l.ExcludePrefix != "" && strings.HasPrefix(module, l.ExcludePrefix)
}

// Record proposes spec for name. A second, different spec marks name as
// conflicted; an identical one is a no-op. It reports whether the proposal
// was taken into account.
func (l *Ledger) Record(module, name, spec string) bool {
	if l.Excluded(module) {
		return false
	}
	prev, ok := l.specs[name]
	switch {
	case !ok:
		l.specs[name] = spec
	case prev != spec:
		l.conflicts[name] = struct{}{}
	}
	return true
}

// Conflicts returns the conflicted names in sorted order.
func (l *Ledger) Conflicts() []string {
	out := make([]string, 0, len(l.conflicts))
	for name := range l.conflicts {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Finalize returns the import specs of every unconflicted name, sorted by
// spec text.
func (l *Ledger) Finalize() []string {
	out := make([]string, 0, len(l.specs))
	for name, spec := range l.specs {
		if _, bad := l.conflicts[name]; bad {
			continue
		}
		out = append(out, spec)
	}
	sort.Strings(out)
	return out
}

// Declaration renders specs as a gofmt'd import declaration. It returns an
// empty string for no specs.
func Declaration(specs []string) (string, error) {
	if len(specs) == 0 {
		return "", nil
	}
	var b bytes.Buffer
	b.WriteString("import (\n")
	for _, s := range specs {
		b.WriteString("\t")
		b.WriteString(s)
		b.WriteString("\n")
	}
	b.WriteString(")\n")
	out, err := format.Source(b.Bytes())
	if err != nil {
		return "", err
	}
	return string(out), nil
}
