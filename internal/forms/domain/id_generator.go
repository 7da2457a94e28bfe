package domain

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

const (
	FieldIDPrefix  = "field"
	OptionIDPrefix = "opt"

	_idSuffixLength = 12
	_maxIDAttempts  = 16
)

type IDGenerator interface {
	NewFieldID() (ID, error)
	NewOptionID() (ID, error)
}

var _ IDGenerator = (*SessionIDGenerator)(nil)

// SessionIDGenerator issues ids that are unique for the lifetime of a builder
// session. Every id handed out, and every id reserved from an existing model,
// is remembered; a candidate that collides is re-rolled.
type SessionIDGenerator struct {
	mu     sync.Mutex
	issued map[ID]struct{}
	source func() string
}

func NewSessionIDGenerator() *SessionIDGenerator {
	return &SessionIDGenerator{
		issued: make(map[ID]struct{}),
		source: uuid.NewString,
	}
}

// NewSessionIDGeneratorWithSource is meant for tests that need to force
// collisions.
func NewSessionIDGeneratorWithSource(source func() string) *SessionIDGenerator {
	g := NewSessionIDGenerator()
	g.source = source
	return g
}

// Reserve marks the field and option ids of an existing model as taken.
func (g *SessionIDGenerator) Reserve(fields []Field) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, f := range fields {
		g.issued[f.ID] = struct{}{}
		for _, o := range f.Options {
			g.issued[o.ID] = struct{}{}
		}
	}
}

func (g *SessionIDGenerator) NewFieldID() (ID, error) {
	return g.next(FieldIDPrefix)
}

func (g *SessionIDGenerator) NewOptionID() (ID, error) {
	return g.next(OptionIDPrefix)
}

func (g *SessionIDGenerator) next(prefix string) (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for range _maxIDAttempts {
		candidate := ID(prefix + "_" + suffix(g.source()))
		if _, taken := g.issued[candidate]; taken {
			continue
		}
		g.issued[candidate] = struct{}{}
		return candidate, nil
	}

	return "", ErrIDGeneratorExhausted
}

func suffix(raw string) string {
	s := strings.ReplaceAll(raw, "-", "")
	if len(s) > _idSuffixLength {
		s = s[:_idSuffixLength]
	}
	return s
}
