package models

import (
	"errors"
	"strings"
)

// ErrMoodNotFound is returned when a mood token is outside the supported set.
var ErrMoodNotFound = errors.New("mood not found")

// Mood is an emotional category used as the catalog search query.
type Mood string

const (
	MoodHappy     Mood = "happy"
	MoodSad       Mood = "sad"
	MoodRelaxed   Mood = "relaxed"
	MoodEnergetic Mood = "energetic"
	MoodRomantic  Mood = "romantic"
	MoodFocused   Mood = "focused"
)

var moods = []Mood{MoodHappy, MoodSad, MoodRelaxed, MoodEnergetic, MoodRomantic, MoodFocused}

// Moods returns every supported mood in declaration order.
func Moods() []Mood {
	out := make([]Mood, len(moods))
	copy(out, moods)
	return out
}

// ParseMood resolves a user supplied token into a Mood. Matching ignores case
// and surrounding whitespace.
func ParseMood(token string) (Mood, error) {
	candidate := Mood(strings.ToLower(strings.TrimSpace(token)))
	if !candidate.Valid() {
		return "", ErrMoodNotFound
	}
	return candidate, nil
}

// Valid reports whether m is one of the supported moods.
func (m Mood) Valid() bool {
	for _, known := range moods {
		if m == known {
			return true
		}
	}
	return false
}

func (m Mood) String() string {
	return string(m)
}
