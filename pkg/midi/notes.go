// Package midi provides note-name, MIDI-note and frequency conversions
// for equal temperament tuned to A4 = 440 Hz.
package midi

import (
	"fmt"
	"math"
	"strconv"
)

const (
	// A4 is the MIDI note number of the A above middle C.
	A4 = 69
	// DefaultFrequency is the fallback frequency for unresolvable notes.
	DefaultFrequency = 440.0
)

var noteNames = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Semitone offsets from C for the letters A-G.
var letterOffsets = map[byte]int{
	'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11,
}

// NoteToFrequency converts a MIDI note number to a frequency in Hz.
func NoteToFrequency(note int) float64 {
	return DefaultFrequency * math.Pow(2.0, float64(note-A4)/12.0)
}

// FrequencyToNote converts a frequency in Hz to the nearest MIDI note
// number, clamped to the 0-127 range.
func FrequencyToNote(freq float64) int {
	if freq <= 0 {
		return 0
	}
	note := float64(A4) + 12.0*math.Log2(freq/DefaultFrequency)
	rounded := int(math.Round(note))
	if rounded < 0 {
		return 0
	}
	if rounded > 127 {
		return 127
	}
	return rounded
}

// NoteName converts a MIDI note number to a name such as "C#4".
// Octave numbering follows the convention where middle C (60) is C4.
func NoteName(note int) string {
	octave := note/12 - 1
	return fmt.Sprintf("%s%d", noteNames[((note%12)+12)%12], octave)
}

// FrequencyToName converts a frequency in Hz to the name of the nearest
// equal-temperament note.
func FrequencyToName(freq float64) string {
	return NoteName(FrequencyToNote(freq))
}

// ParseNote converts a note name matching [A-G](#|b)?[0-9]+ to a MIDI
// note number.
func ParseNote(name string) (int, error) {
	if len(name) < 2 {
		return 0, fmt.Errorf("midi: malformed note name %q", name)
	}

	offset, ok := letterOffsets[name[0]]
	if !ok {
		return 0, fmt.Errorf("midi: malformed note name %q", name)
	}

	rest := name[1:]
	switch rest[0] {
	case '#':
		offset++
		rest = rest[1:]
	case 'b':
		offset--
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil || octave < 0 {
		return 0, fmt.Errorf("midi: malformed note name %q", name)
	}

	return (octave+1)*12 + offset, nil
}

// NoteFrequency resolves a note name such as "C#4" to its equal-temperament
// frequency. "A4" resolves to exactly 440 Hz.
func NoteFrequency(name string) (float64, error) {
	note, err := ParseNote(name)
	if err != nil {
		return DefaultFrequency, err
	}
	return NoteToFrequency(note), nil
}
