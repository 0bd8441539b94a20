package systemprompt

import (
	"fmt"
	"time"
)

// ContextProvider adds a titled piece of information to the system prompt
type ContextProvider interface {
	Title() string
	Info() string
}

var germanWeekdays = [...]string{"Sonntag", "Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag"}

// Date tells the model the current date so questions about today can be answered
type Date struct {
	now func() time.Time
}

var _ ContextProvider = (*Date)(nil)

// NewDate uses now as the clock, time.Now when nil
func NewDate(now func() time.Time) *Date {
	if now == nil {
		now = time.Now
	}
	return &Date{now: now}
}

func (d *Date) Title() string {
	return "Aktuelles Datum"
}

func (d *Date) Info() string {
	t := d.now()
	return fmt.Sprintf("Heute ist %s, der %s.", germanWeekdays[t.Weekday()], t.Format("02.01.2006"))
}
