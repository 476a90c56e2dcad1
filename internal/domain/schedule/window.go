package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidClock = errors.New("invalid clock time")

// Relojes por defecto cuando el paciente no configuró los suyos.
const (
	DefaultMorningClock = "08:00"
	DefaultEveningClock = "20:00"
)

// WindowSpan: una toma sigue "a tiempo" hasta una hora después del recordatorio.
const WindowSpan = time.Hour

// Window es la ventana de aceptación de una toma: hora configurada + una hora.
type Window struct {
	start time.Duration // offset desde medianoche
}

// ParseWindow arma la ventana desde un reloj "HH:MM" (24h).
func ParseWindow(clock string) (Window, error) {
	clock = strings.TrimSpace(clock)
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return Window{}, ErrInvalidClock
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Window{}, ErrInvalidClock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Window{}, ErrInvalidClock
	}
	return Window{start: time.Duration(h)*time.Hour + time.Duration(m)*time.Minute}, nil
}

// WindowFor devuelve la ventana por defecto de una categoría.
func WindowFor(cat Category) Window {
	clock := DefaultMorningClock
	if cat == CategoryEvening {
		clock = DefaultEveningClock
	}
	w, _ := ParseWindow(clock)
	return w
}

// Contains responde si now cae dentro de [inicio, inicio+1h).
// Se compara contra la medianoche local de now: la ventana es hora de pared,
// no un instante absoluto.
func (w Window) Contains(now time.Time) bool {
	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	off := now.Sub(midnight)
	return off >= w.start && off < w.start+WindowSpan
}

// Clock devuelve la hora configurada como "HH:MM".
func (w Window) Clock() string {
	h := int(w.start / time.Hour)
	m := int((w.start % time.Hour) / time.Minute)
	return fmt.Sprintf("%02d:%02d", h, m)
}
