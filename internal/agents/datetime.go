package agents

import (
	"fmt"
	"time"
)

// datetimeFact produce il fatto "data e ora corrente" iniettato nel
// prompt, con gli ancoraggi per i riferimenti relativi dell'utente
func datetimeFact(now time.Time) string {
	tomorrow := now.AddDate(0, 0, 1)

	daysToSaturday := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	weekend := now.AddDate(0, 0, daysToSaturday)

	daysToMonday := (int(time.Monday) - int(now.Weekday()) + 7) % 7
	if daysToMonday == 0 {
		daysToMonday = 7
	}
	nextWeek := now.AddDate(0, 0, daysToMonday)

	return fmt.Sprintf(`CURRENT DATE AND TIME: %s
Relative dates for this conversation:
- today: %s
- tomorrow: %s (%s)
- this weekend: %s
- next week starts: %s (Monday)`,
		now.Format("Monday, January 2, 2006 at 15:04"),
		now.Format("2006-01-02"),
		tomorrow.Format("2006-01-02"), tomorrow.Format("Monday"),
		weekend.Format("2006-01-02"),
		nextWeek.Format("2006-01-02"))
}
