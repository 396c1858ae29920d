// Package catalog implements the video catalog: natural keys, derived
// titles and the catalog service.
package catalog

import (
	"fmt"
	"strings"
)

// Kind distinguishes unit videos from revision videos
type Kind string

const (
	KindUnit     Kind = "unit"
	KindRevision Kind = "revision"
)

// Path segment prefixes used to tell unit and revision keys apart
const (
	unitPrefix     = "u"
	revisionPrefix = "r"
)

// Key identifies a video. It is either a UnitSession or a RevisionSession;
// the set of implementations is closed.
type Key interface {
	// Kind reports which variant the key is
	Kind() Kind
	// Parts flattens the key into storage columns
	Parts() KeyParts
	// Path renders the key as grade/level/{u|r}part/session
	Path() string
	isKey()
}

// KeyParts is the flattened, column-oriented form of a Key
type KeyParts struct {
	Grade   string
	Level   string
	Kind    Kind
	Part    string
	Session string
}

// UnitSession is the key of a regular unit video
type UnitSession struct {
	Grade   string
	Level   string
	Unit    string
	Session string
}

func (UnitSession) Kind() Kind { return KindUnit }

func (k UnitSession) Parts() KeyParts {
	return KeyParts{Grade: k.Grade, Level: k.Level, Kind: KindUnit, Part: k.Unit, Session: k.Session}
}

func (k UnitSession) Path() string {
	return strings.Join([]string{k.Grade, k.Level, unitPrefix + k.Unit, k.Session}, "/")
}

func (UnitSession) isKey() {}

// RevisionSession is the key of a revision video
type RevisionSession struct {
	Grade    string
	Level    string
	Revision string
	Session  string
}

func (RevisionSession) Kind() Kind { return KindRevision }

func (k RevisionSession) Parts() KeyParts {
	return KeyParts{Grade: k.Grade, Level: k.Level, Kind: KindRevision, Part: k.Revision, Session: k.Session}
}

func (k RevisionSession) Path() string {
	return strings.Join([]string{k.Grade, k.Level, revisionPrefix + k.Revision, k.Session}, "/")
}

func (RevisionSession) isKey() {}

// ParseKey builds a Key from its path segments. The part segment carries the
// variant: "u2" is unit 2, "r1" is revision 1.
func ParseKey(grade, level, part, session string) (Key, error) {
	var kind Kind
	switch {
	case strings.HasPrefix(part, unitPrefix):
		kind = KindUnit
		part = strings.TrimPrefix(part, unitPrefix)
	case strings.HasPrefix(part, revisionPrefix):
		kind = KindRevision
		part = strings.TrimPrefix(part, revisionPrefix)
	default:
		return nil, invalidKey("part must start with %q or %q", unitPrefix, revisionPrefix)
	}

	return FromParts(KeyParts{Grade: grade, Level: level, Kind: kind, Part: part, Session: session})
}

// FromParts rebuilds a Key from its flattened form
func FromParts(p KeyParts) (Key, error) {
	for _, seg := range []struct{ name, value string }{
		{"grade", p.Grade},
		{"level", p.Level},
		{"part", p.Part},
		{"session", p.Session},
	} {
		if err := validateSegment(seg.name, seg.value); err != nil {
			return nil, err
		}
	}

	switch p.Kind {
	case KindUnit:
		return UnitSession{Grade: p.Grade, Level: p.Level, Unit: p.Part, Session: p.Session}, nil
	case KindRevision:
		return RevisionSession{Grade: p.Grade, Level: p.Level, Revision: p.Part, Session: p.Session}, nil
	default:
		return nil, invalidKey("unknown kind %q", p.Kind)
	}
}

func validateSegment(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidKey("%s is required", name)
	}
	if strings.ContainsAny(value, "/?#") {
		return invalidKey("%s contains a reserved character", name)
	}
	if len(value) > 64 {
		return invalidKey("%s is too long", name)
	}
	return nil
}

func invalidKey(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidKey, fmt.Sprintf(format, args...))
}
