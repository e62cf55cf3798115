package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors returned when building or parsing a Key.
var (
	// ErrInvalidNumber is returned when the Camelot number is outside 1..12.
	ErrInvalidNumber = errors.New("key: invalid number")

	// ErrInvalidLetter is returned when the Camelot letter is not A or B.
	ErrInvalidLetter = errors.New("key: invalid letter")

	// ErrMalformedKey is returned when a string cannot be read as a key at all.
	ErrMalformedKey = errors.New("key: malformed key")
)

// Letter is the Camelot wheel letter: A for minor keys, B for major keys.
type Letter byte

const (
	// LetterA marks a minor key.
	LetterA Letter = 'A'

	// LetterB marks a major key.
	LetterB Letter = 'B'
)

// Valid reports whether l is A or B.
func (l Letter) Valid() bool {
	return l == LetterA || l == LetterB
}

// Key is the musical key of a track in Camelot notation.
//
// A Key is a small immutable value. The zero value is not a valid key;
// use NewKey or one of the parse functions to build one.
//
// Example:
//
//	k, err := model.ParseCamelot("7A")
//	fmt.Println(k.Number(), k.Letter()) // 7 A
//	fmt.Println(k)                      // 7A
type Key struct {
	number int
	letter Letter
}

// NewKey builds a Key from a Camelot number (1..12) and letter (A or B).
func NewKey(number int, letter Letter) (Key, error) {
	if number < 1 || number > 12 {
		return Key{}, fmt.Errorf("%w: %d", ErrInvalidNumber, number)
	}
	if !letter.Valid() {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidLetter, rune(letter))
	}
	return Key{number: number, letter: letter}, nil
}

// MustKey is like NewKey but panics on invalid input.
// It is meant for tables and tests.
func MustKey(number int, letter Letter) Key {
	k, err := NewKey(number, letter)
	if err != nil {
		panic(err)
	}
	return k
}

// Number returns the Camelot number (1..12).
func (k Key) Number() int { return k.number }

// Letter returns the Camelot letter.
func (k Key) Letter() Letter { return k.letter }

// Minor reports whether the key is a minor (A) key.
func (k Key) Minor() bool { return k.letter == LetterA }

// IsZero reports whether k is the zero value.
func (k Key) IsZero() bool { return k.number == 0 }

// String returns the Camelot form, e.g. "7A".
func (k Key) String() string {
	return strconv.Itoa(k.number) + string(rune(k.letter))
}

// MarshalText encodes the key as its Camelot string.
func (k Key) MarshalText() ([]byte, error) {
	if k.IsZero() {
		return nil, fmt.Errorf("%w: zero key", ErrMalformedKey)
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a Camelot string.
func (k *Key) UnmarshalText(text []byte) error {
	parsed, err := ParseCamelot(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseCamelot parses the exact Camelot form produced by String.
//
// The number must be written without sign or padding and the letter must
// be an upper-case A or B:
//
//	ParseCamelot("7A")  // 7A
//	ParseCamelot("13A") // ErrInvalidNumber
//	ParseCamelot("7C")  // ErrInvalidLetter
//	ParseCamelot("")    // ErrMalformedKey
func ParseCamelot(s string) (Key, error) {
	if len(s) < 2 || len(s) > 3 {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}

	digits := s[:len(s)-1]
	if len(digits) > 1 && digits[0] == '0' {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
		}
	}

	number, err := strconv.Atoi(digits)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	return NewKey(number, Letter(s[len(s)-1]))
}

// Pitch class to Camelot number, indexed by pitch class with C = 0.
var (
	majorNumbers = [12]int{8, 3, 10, 5, 12, 7, 2, 9, 4, 11, 6, 1}
	minorNumbers = [12]int{5, 12, 7, 2, 9, 4, 11, 6, 1, 8, 3, 10}
)

// FromPitchClass maps a tonic pitch class (C = 0, C# = 1, ... B = 11) and
// mode to its Camelot key. Pitch classes outside 0..11 wrap around.
func FromPitchClass(pitchClass int, minor bool) Key {
	pc := ((pitchClass % 12) + 12) % 12
	if minor {
		return Key{number: minorNumbers[pc], letter: LetterA}
	}
	return Key{number: majorNumbers[pc], letter: LetterB}
}

var noteClasses = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// ParseKey reads a key written either in Camelot notation ("8A", "12b")
// or in musical notation ("Am", "F#m", "Bb", "C major", "D minor", "Ebmin").
//
// Tag writers disagree on how keys are stored, so this is the parser used
// for metadata. Use ParseCamelot when the exact Camelot form is required.
func ParseKey(s string) (Key, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Key{}, fmt.Errorf("%w: empty", ErrMalformedKey)
	}

	if s[0] >= '0' && s[0] <= '9' {
		return ParseCamelot(strings.ToUpper(s))
	}

	note, ok := noteClasses[upper(s[0])]
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
	rest := s[1:]

	switch {
	case strings.HasPrefix(rest, "#"), strings.HasPrefix(rest, "♯"):
		note++
		rest = strings.TrimPrefix(strings.TrimPrefix(rest, "#"), "♯")
	case strings.HasPrefix(rest, "b"), strings.HasPrefix(rest, "♭"):
		note--
		rest = strings.TrimPrefix(strings.TrimPrefix(rest, "b"), "♭")
	}

	mode := strings.ToLower(strings.TrimSpace(rest))
	switch mode {
	case "", "maj", "major":
		return FromPitchClass(note, false), nil
	case "m", "min", "minor":
		return FromPitchClass(note, true), nil
	default:
		return Key{}, fmt.Errorf("%w: %q", ErrMalformedKey, s)
	}
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - 'a' + 'A'
	}
	return b
}
