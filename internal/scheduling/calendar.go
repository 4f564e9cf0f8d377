// Package scheduling gestisce la tabella degli orari di visita.
package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/biodoia/goestate/pkg/config"
)

// Slot è una proposta concreta di visita
type Slot struct {
	Day  time.Time
	Time string
}

// Label formatta lo slot per l'utente, es. "Tomorrow (Friday) at 2:00 PM"
func (s Slot) Label(now time.Time) string {
	day := s.Day.Format("Monday, Jan 2")
	switch daysBetween(now, s.Day) {
	case 0:
		day = "Today (" + s.Day.Format("Monday") + ")"
	case 1:
		day = "Tomorrow (" + s.Day.Format("Monday") + ")"
	}
	return fmt.Sprintf("%s at %s", day, s.Time)
}

// Calendar genera gli slot di visita dalle tabelle configurate
type Calendar struct {
	cfg config.SchedulingConfig
	// Clock iniettabile nei test
	now func() time.Time
}

// New crea un calendario
func New(cfg config.SchedulingConfig) *Calendar {
	return &Calendar{cfg: cfg, now: time.Now}
}

// SetClock sostituisce la sorgente dell'ora corrente
func (c *Calendar) SetClock(now func() time.Time) {
	c.now = now
}

// slotsFor restituisce la tabella oraria del giorno
func (c *Calendar) slotsFor(day time.Time) []string {
	switch day.Weekday() {
	case time.Saturday, time.Sunday:
		return c.cfg.WeekendSlots
	default:
		return c.cfg.WeekdaySlots
	}
}

// NextSlots propone i prossimi n slot a partire da domani,
// entro la finestra di lookahead configurata
func (c *Calendar) NextSlots(n int) []Slot {
	if n < 1 {
		return nil
	}

	now := c.now()
	var slots []Slot
	for offset := 1; offset <= c.lookahead(); offset++ {
		day := now.AddDate(0, 0, offset)
		for _, t := range c.slotsFor(day) {
			slots = append(slots, Slot{Day: day, Time: t})
			if len(slots) == n {
				return slots
			}
		}
	}
	return slots
}

// SuggestedTimes formatta i prossimi n slot come azioni suggerite
func (c *Calendar) SuggestedTimes(n int) []string {
	now := c.now()
	slots := c.NextSlots(n)
	labels := make([]string, 0, len(slots))
	for _, s := range slots {
		labels = append(labels, s.Label(now))
	}
	return labels
}

// HoursDescription descrive le tabelle orarie per il prompt dell'agente
func (c *Calendar) HoursDescription() string {
	return fmt.Sprintf("Weekdays: %s. Weekends: %s.",
		strings.Join(c.cfg.WeekdaySlots, ", "),
		strings.Join(c.cfg.WeekendSlots, ", "))
}

func (c *Calendar) lookahead() int {
	if c.cfg.LookaheadDays < 1 {
		return 7
	}
	return c.cfg.LookaheadDays
}

// daysBetween conta i giorni di calendario tra due istanti
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	start := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	end := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(end.Sub(start).Hours() / 24)
}
