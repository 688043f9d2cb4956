// Package phonetic spells words with a code-word alphabet loaded from a table.
package phonetic

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/paveg/tabular/internal/table"
	"github.com/paveg/tabular/internal/validation"
)

// Default column names of an alphabet table.
const (
	LetterColumn = "letter"
	CodeColumn   = "code"
)

// UnrecognizedError is returned by Encode when a character has no code word.
type UnrecognizedError struct {
	Word string
	Rune rune
}

func (e *UnrecognizedError) Error() string {
	return fmt.Sprintf("no code word for %q in %q", e.Rune, e.Word)
}

// Encoder maps upper-case letters to code words.
type Encoder struct {
	codes map[rune]string
}

// NewEncoder builds an Encoder from the letter and code columns of t.
// Each letter must be a single character; the first row for a letter wins.
func NewEncoder(t *table.Table) (*Encoder, error) {
	return NewEncoderFrom(t, LetterColumn, CodeColumn)
}

// NewEncoderFrom is NewEncoder with explicit column names.
func NewEncoderFrom(t *table.Table, letterColumn, codeColumn string) (*Encoder, error) {
	if err := validation.ValidateColumns(t, "NewEncoder", letterColumn, codeColumn); err != nil {
		return nil, err
	}

	codes := make(map[rune]string, t.Len())
	for _, row := range t.Rows() {
		letter, _ := row.Get(letterColumn)
		code, _ := row.Get(codeColumn)

		text := strings.ToUpper(letter.String())
		if utf8.RuneCountInString(text) != 1 {
			return nil, fmt.Errorf("row %d: letter %q must be a single character", row.Index(), letter.String())
		}
		r, _ := utf8.DecodeRuneInString(text)
		if _, seen := codes[r]; !seen {
			codes[r] = code.String()
		}
	}
	return &Encoder{codes: codes}, nil
}

// Len returns the number of letters the encoder knows.
func (e *Encoder) Len() int {
	return len(e.codes)
}

// Encode upper-cases word and returns one code word per character.
func (e *Encoder) Encode(word string) ([]string, error) {
	word = strings.ToUpper(word)
	out := make([]string, 0, utf8.RuneCountInString(word))
	for _, r := range word {
		code, ok := e.codes[r]
		if !ok {
			return nil, &UnrecognizedError{Word: word, Rune: r}
		}
		out = append(out, code)
	}
	return out, nil
}
