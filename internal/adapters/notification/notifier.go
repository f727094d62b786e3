// Package notification provides desktop notifications and completion sounds.
package notification

import (
	"fmt"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/tomato/internal/domain"
	"github.com/xvierd/tomato/internal/ports"
)

func init() {
	beeep.AppName = "Tomato"
}

// Notifier shows desktop notifications through beeep.
type Notifier struct {
	enabled func() bool
	send    func(title, body string) error
}

var _ ports.Notifier = (*Notifier)(nil)

// New creates a notifier. enabled is consulted before every notification
// so toggling it in the config takes effect immediately.
func New(enabled func() bool) *Notifier {
	return &Notifier{
		enabled: enabled,
		send: func(title, body string) error {
			return beeep.Notify(title, body, "")
		},
	}
}

// PermissionGranted implements ports.Notifier.
func (n *Notifier) PermissionGranted() bool {
	return n.enabled != nil && n.enabled()
}

// Notify implements ports.Notifier.
func (n *Notifier) Notify(title, body string) error {
	if err := n.send(title, body); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

// tone is a single beep.
type tone struct {
	freq float64
	ms   int
}

var patterns = map[domain.Sound][]tone{
	domain.SoundBell:    {{freq: 880, ms: 400}},
	domain.SoundChime:   {{freq: 660, ms: 150}, {freq: 880, ms: 150}, {freq: 1320, ms: 300}},
	domain.SoundDigital: {{freq: 1200, ms: 80}, {freq: 1200, ms: 80}, {freq: 1200, ms: 80}},
	domain.SoundGentle:  {{freq: 440, ms: 500}},
}

const toneGap = 60 * time.Millisecond

// BeepPlayer plays completion sounds as beep patterns.
type BeepPlayer struct {
	beep  func(freq float64, ms int) error
	sleep func(time.Duration)
}

var _ ports.AudioPlayer = (*BeepPlayer)(nil)

// NewBeepPlayer creates a player using the system beeper.
func NewBeepPlayer() *BeepPlayer {
	return &BeepPlayer{beep: beeep.Beep, sleep: time.Sleep}
}

// Play implements ports.AudioPlayer. It blocks until the pattern finishes.
func (p *BeepPlayer) Play(sound domain.Sound) error {
	pattern, ok := patterns[sound]
	if !ok {
		return fmt.Errorf("unknown sound %q", sound)
	}
	for i, t := range pattern {
		if i > 0 {
			p.sleep(toneGap)
		}
		if err := p.beep(t.freq, t.ms); err != nil {
			return fmt.Errorf("failed to play %s: %w", sound, err)
		}
	}
	return nil
}
