// Package id generates expense identifiers.
package id

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Generator hands out identifiers that are never reused.
type Generator interface {
	NewID() string
}

// UUID generates random version 4 UUIDs.
type UUID struct{}

// NewID returns a fresh UUID string like "9b2d6f0e-...".
func (UUID) NewID() string {
	return uuid.NewString()
}

// Sequence generates deterministic IDs like "exp-001", "exp-002".
// It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	next   int
}

// NewSequence returns a Sequence starting at 1.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix, next: 1}
}

// NewID returns the next ID in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := FormatSeq(s.prefix, s.next)
	s.next++
	return id
}

// Observe advances the sequence past an existing ID so it is never handed out again.
// IDs with another prefix are ignored.
func (s *Sequence) Observe(id string) {
	seq, ok := ParseSeq(s.prefix, id)
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq >= s.next {
		s.next = seq + 1
	}
}

// ParseSeq extracts the number from an ID produced by FormatSeq with the same prefix.
func ParseSeq(prefix, id string) (int, bool) {
	rest, ok := strings.CutPrefix(id, prefix+"-")
	if !ok {
		return 0, false
	}
	seq, err := strconv.Atoi(rest)
	if err != nil || seq < 1 {
		return 0, false
	}
	return seq, true
}

// FormatSeq returns an ID like "exp-007".
func FormatSeq(prefix string, seq int) string {
	return fmt.Sprintf("%s-%03d", prefix, seq)
}

// New returns the generator registered under name: "uuid" or "sequence".
func New(name string) (Generator, error) {
	switch name {
	case "", "uuid":
		return UUID{}, nil
	case "sequence":
		return NewSequence("exp"), nil
	default:
		return nil, fmt.Errorf("unknown id generator %q", name)
	}
}
