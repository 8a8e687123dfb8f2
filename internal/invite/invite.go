// Package invite turns the resolved next occurrence into an iCalendar
// invite that attendees can import, including a recurrence rule when the
// schedule's cadence maps onto one.
package invite

import (
	"fmt"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"meetbot/internal/log"
	"meetbot/internal/schedule"
)

// defaultSlot is the event length advertised in the invite; the schedule
// notation carries no meeting duration.
const defaultSlot = time.Hour

// Build serializes a VCALENDAR for the meeting at start. When the cadence
// cannot be expressed as a recurrence rule (mixed calendar and clock units),
// the invite is emitted as a one-off event.
func Build(title string, start time.Time, every schedule.Duration, link string) (string, error) {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//meetbot//meeting scheduler//EN")

	uid := fmt.Sprintf("meetbot-%d@meetbot", start.Unix())
	event := cal.AddEvent(uid)
	event.SetDtStampTime(start)
	event.SetStartAt(start)
	event.SetEndAt(start.Add(defaultSlot))
	event.SetSummary(title)
	if link != "" {
		event.SetURL(link)
	}

	rule, err := ruleFor(every)
	if err != nil {
		log.Debug("emitting one-off invite", "cadence", every.String(), "reason", err.Error())
	} else {
		event.AddRrule(rule)
	}

	return cal.Serialize(), nil
}

// ruleFor maps a single-unit cadence onto an RRULE. Mixed cadences such as
// P1M15D have no RRULE equivalent and report an error. The produced rule is
// validated through the rrule parser before it goes into the invite.
func ruleFor(every schedule.Duration) (string, error) {
	freq := ""
	interval := 0
	units := 0

	if every.Years > 0 {
		freq, interval = "YEARLY", every.Years
		units++
	}
	if every.Months > 0 {
		freq, interval = "MONTHLY", every.Months
		units++
	}
	if every.Weeks > 0 {
		freq, interval = "WEEKLY", every.Weeks
		units++
	}
	if every.Days > 0 {
		if every.Days%7 == 0 {
			freq, interval = "WEEKLY", every.Days/7
		} else {
			freq, interval = "DAILY", every.Days
		}
		units++
	}
	if every.Clock > 0 {
		if every.Clock%time.Hour != 0 {
			return "", fmt.Errorf("cadence %s is finer than hourly", every)
		}
		freq, interval = "HOURLY", int(every.Clock/time.Hour)
		units++
	}

	if units != 1 {
		return "", fmt.Errorf("cadence %s does not map onto a single recurrence frequency", every)
	}

	rule := "FREQ=" + freq + ";INTERVAL=" + strconv.Itoa(interval)
	if _, err := rrule.StrToRRule(rule); err != nil {
		return "", err
	}
	return rule, nil
}
