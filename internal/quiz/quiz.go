// Package quiz runs a name-guessing session over a table of places and their
// map coordinates.
package quiz

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/paveg/tabular/internal/series"
	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/validation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Column names of a states table.
const (
	StateColumn = "state"
	XColumn     = "x"
	YColumn     = "y"
)

// ExitWord ends a session when guessed.
const ExitWord = "Exit"

// Outcome classifies a guess.
type Outcome int

const (
	// Unknown means the name is not in the table.
	Unknown Outcome = iota
	// Correct means the name was found and had not been guessed before.
	Correct
	// AlreadyGuessed means the name was found earlier in the session.
	AlreadyGuessed
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case AlreadyGuessed:
		return "already guessed"
	default:
		return "unknown"
	}
}

// Result describes a single guess. State, X and Y are only set when the
// name was found.
type Result struct {
	Outcome Outcome
	State   string
	X, Y    series.Value
}

// Session tracks which states have been named. It is not safe for
// concurrent use.
type Session struct {
	states  *table.Table
	index   *table.KeyIndex
	guessed map[int]bool
	order   []string
}

// NewSession starts a session over t, which must have state, x and y columns.
// The session reads t but does not take ownership of it.
func NewSession(t *table.Table) (*Session, error) {
	if err := validation.ValidateColumns(t, "NewSession", StateColumn, XColumn, YColumn); err != nil {
		return nil, err
	}
	index, err := t.Index(StateColumn)
	if err != nil {
		return nil, err
	}
	return &Session{
		states:  t,
		index:   index,
		guessed: make(map[int]bool, index.Len()),
	}, nil
}

// Normalize trims name and title-cases each word.
func Normalize(name string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(name))
}

// Guess records an answer and reports whether it named a state.
func (s *Session) Guess(name string) Result {
	name = Normalize(name)
	row, found := s.index.Lookup(name)
	if !found {
		slog.Debug("unknown guess", "guess", name)
		return Result{Outcome: Unknown}
	}

	state, _ := row.Get(StateColumn)
	x, _ := row.Get(XColumn)
	y, _ := row.Get(YColumn)
	result := Result{Outcome: Correct, State: state.String(), X: x, Y: y}

	if s.guessed[row.Index()] {
		result.Outcome = AlreadyGuessed
		return result
	}
	s.guessed[row.Index()] = true
	s.order = append(s.order, result.State)
	slog.Debug("correct guess", "state", result.State, "progress", s.Progress())
	return result
}

// Guessed returns the states named so far, in guessing order.
func (s *Session) Guessed() []string {
	return append([]string(nil), s.order...)
}

// Total returns the number of distinct states in the table.
func (s *Session) Total() int {
	return s.index.Len()
}

// Progress returns the score as "n/total".
func (s *Session) Progress() string {
	return fmt.Sprintf("%d/%d", len(s.order), s.Total())
}

// Done reports whether every state has been named.
func (s *Session) Done() bool {
	return len(s.order) == s.Total()
}

// Missed returns the rows of every state not yet named, in table order.
// The caller releases the returned table.
func (s *Session) Missed() *table.Table {
	seen := make(map[string]bool, len(s.order))
	for _, state := range s.order {
		seen[strings.ToLower(state)] = true
	}
	return s.states.Filter(func(r table.Row) bool {
		v, _ := r.Get(StateColumn)
		return !seen[strings.ToLower(v.String())]
	})
}
