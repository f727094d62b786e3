package domain

import "fmt"

// Sound names a completion sound.
type Sound string

const (
	SoundBell    Sound = "bell"
	SoundChime   Sound = "chime"
	SoundDigital Sound = "digital"
	SoundGentle  Sound = "gentle"
)

// Sounds lists the available sounds.
var Sounds = []Sound{SoundBell, SoundChime, SoundDigital, SoundGentle}

// ParseSound validates a sound name.
func ParseSound(s string) (Sound, error) {
	for _, snd := range Sounds {
		if string(snd) == s {
			return snd, nil
		}
	}
	return "", fmt.Errorf("unknown sound %q", s)
}
