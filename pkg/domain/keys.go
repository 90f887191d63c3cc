package domain

import "fmt"

// MusicalKey is one of the 17 enumerated keys a song or placement can use.
type MusicalKey string

// The enumerated key set: seven naturals plus the five sharp and five flat
// enharmonic spellings.
const (
	KeyC      MusicalKey = "C"
	KeyCSharp MusicalKey = "C#"
	KeyDFlat  MusicalKey = "Db"
	KeyD      MusicalKey = "D"
	KeyDSharp MusicalKey = "D#"
	KeyEFlat  MusicalKey = "Eb"
	KeyE      MusicalKey = "E"
	KeyF      MusicalKey = "F"
	KeyFSharp MusicalKey = "F#"
	KeyGFlat  MusicalKey = "Gb"
	KeyG      MusicalKey = "G"
	KeyGSharp MusicalKey = "G#"
	KeyAFlat  MusicalKey = "Ab"
	KeyA      MusicalKey = "A"
	KeyASharp MusicalKey = "A#"
	KeyBFlat  MusicalKey = "Bb"
	KeyB      MusicalKey = "B"
)

// MusicalKeys lists every valid key in chromatic order.
var MusicalKeys = []MusicalKey{
	KeyC, KeyCSharp, KeyDFlat, KeyD, KeyDSharp, KeyEFlat, KeyE,
	KeyF, KeyFSharp, KeyGFlat, KeyG, KeyGSharp, KeyAFlat,
	KeyA, KeyASharp, KeyBFlat, KeyB,
}

// Valid reports whether k is one of the enumerated keys.
func (k MusicalKey) Valid() bool {
	for _, known := range MusicalKeys {
		if k == known {
			return true
		}
	}
	return false
}

// ParseMusicalKey converts a raw string into a MusicalKey.
func ParseMusicalKey(raw string) (MusicalKey, error) {
	k := MusicalKey(raw)
	if !k.Valid() {
		return "", ValidationError{Field: "key", Reason: fmt.Sprintf("unknown musical key %q", raw)}
	}
	return k, nil
}
