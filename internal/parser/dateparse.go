package parser

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ritualdetail/slotbook/internal/calendar"
	"github.com/ritualdetail/slotbook/internal/intake"
)

var (
	ErrEmptyInput = errors.New("empty input")
	ErrNoDate     = errors.New("no date found")
	ErrBadDate    = errors.New("no such calendar date")
)

var (
	weekdayRe   = regexp.MustCompile(`^(next|this)\s+(mon|monday|tue|tuesday|wed|wednesday|thu|thursday|fri|friday|sat|saturday|sun|sunday)\b`)
	inRe        = regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks|month|months)\b`)
	fromNowRe   = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks|month|months)\s+from\s+(now|today)\b`)
	isoDateRe   = regexp.MustCompile(`^(\d{4})-(\d{1,2})-(\d{1,2})\b`)
	dateRe      = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	shortDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})\b`)
	monthNameRe = regexp.MustCompile(`^(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)\s+(\d{1,2})(?:st|nd|rd|th)?(?:,?\s+(\d{4}))?\b`)
	slotRe      = regexp.MustCompile(`^(?:in\s+the\s+)?(morning|afternoon|am|pm)\b`)
)

// ParsedDate is the result of reading a free-form "go to" entry.
type ParsedDate struct {
	Date    calendar.Date
	HasSlot bool
	Slot    intake.TimeSlot
	Text    string // unparsed remainder
}

// DateParser reads dates like "tomorrow", "next fri afternoon", "in 2 weeks",
// "10/15" or "Oct 15 2023". Dates without a year that already passed this
// year roll to the next one.
type DateParser struct {
	now time.Time
}

func NewDateParser() *DateParser {
	return &DateParser{now: time.Now()}
}

func (p *DateParser) SetNow(now time.Time) {
	p.now = now
}

func (p *DateParser) Parse(input string) (*ParsedDate, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	result := &ParsedDate{}
	remaining := input
	found := false

	if date, text, ok := p.parseRelativeDate(remaining); ok {
		result.Date = date
		remaining = text
		found = true
	} else {
		date, text, ok, err := p.parseAbsoluteDate(remaining)
		if err != nil {
			return nil, err
		}
		if ok {
			result.Date = date
			remaining = text
			found = true
		}
	}

	if slot, text, ok := parseSlot(remaining); ok {
		result.HasSlot = true
		result.Slot = slot
		remaining = text
		if !found {
			result.Date = p.today()
			found = true
		}
	}

	if !found {
		return nil, ErrNoDate
	}

	result.Text = strings.TrimSpace(remaining)
	return result, nil
}

func (p *DateParser) parseRelativeDate(input string) (calendar.Date, string, bool) {
	lower := strings.ToLower(input)

	if hasWord(lower, "today") {
		return p.today(), rest(input, 5), true
	}
	if hasWord(lower, "tomorrow") {
		return p.today().AddDays(1), rest(input, 8), true
	}
	if hasWord(lower, "tmrw") {
		return p.today().AddDays(1), rest(input, 4), true
	}

	if m := weekdayRe.FindStringSubmatch(lower); m != nil {
		date := p.findNextWeekday(parseWeekday(m[2]), m[1] == "next")
		return date, rest(input, len(m[0])), true
	}

	if m := inRe.FindStringSubmatch(lower); m != nil {
		return p.offset(m[1], m[2]), rest(input, len(m[0])), true
	}

	if m := fromNowRe.FindStringSubmatch(lower); m != nil {
		return p.offset(m[1], m[2]), rest(input, len(m[0])), true
	}

	return calendar.Date{}, input, false
}

func (p *DateParser) parseAbsoluteDate(input string) (calendar.Date, string, bool, error) {
	lower := strings.ToLower(input)

	if m := isoDateRe.FindStringSubmatch(input); m != nil {
		d, err := exactDate(atoi(m[1]), time.Month(atoi(m[2])), atoi(m[3]))
		return d, rest(input, len(m[0])), err == nil, err
	}

	if m := dateRe.FindStringSubmatch(input); m != nil {
		d, err := exactDate(atoi(m[3]), time.Month(atoi(m[1])), atoi(m[2]))
		return d, rest(input, len(m[0])), err == nil, err
	}

	if m := shortDateRe.FindStringSubmatch(input); m != nil {
		d, err := p.upcoming(time.Month(atoi(m[1])), atoi(m[2]))
		return d, rest(input, len(m[0])), err == nil, err
	}

	if m := monthNameRe.FindStringSubmatch(lower); m != nil {
		month := parseMonth(m[1])
		day := atoi(m[2])
		var (
			d   calendar.Date
			err error
		)
		if m[3] != "" {
			d, err = exactDate(atoi(m[3]), month, day)
		} else {
			d, err = p.upcoming(month, day)
		}
		return d, rest(input, len(m[0])), err == nil, err
	}

	return calendar.Date{}, input, false, nil
}

func parseSlot(input string) (intake.TimeSlot, string, bool) {
	m := slotRe.FindStringSubmatch(strings.ToLower(input))
	if m == nil {
		return intake.Morning, input, false
	}
	slot, err := intake.ParseTimeSlot(m[1])
	if err != nil {
		return intake.Morning, input, false
	}
	return slot, rest(input, len(m[0])), true
}

func (p *DateParser) offset(count, unit string) calendar.Date {
	n := atoi(count)
	date := p.today()
	switch {
	case strings.HasPrefix(unit, "day"):
		return date.AddDays(n)
	case strings.HasPrefix(unit, "week"):
		return date.AddDays(n * 7)
	default:
		return calendar.DateOf(date.Time(time.UTC).AddDate(0, n, 0))
	}
}

// upcoming picks the next occurrence of month/day on or after today.
func (p *DateParser) upcoming(month time.Month, day int) (calendar.Date, error) {
	today := p.today()
	d, err := exactDate(today.Year, month, day)
	if err != nil {
		// Feb 29 outside a leap year.
		return exactDate(today.Year+1, month, day)
	}
	if d.Before(today) {
		if next, err := exactDate(today.Year+1, month, day); err == nil {
			return next, nil
		}
	}
	return d, nil
}

func (p *DateParser) findNextWeekday(target time.Weekday, skipThisWeek bool) calendar.Date {
	date := p.today()
	daysUntilTarget := int(target - date.Weekday())

	if daysUntilTarget <= 0 || skipThisWeek {
		daysUntilTarget += 7
	}

	return date.AddDays(daysUntilTarget)
}

func (p *DateParser) today() calendar.Date {
	return calendar.DateOf(p.now)
}

// exactDate refuses dates time.Date would normalize, such as 2/30.
func exactDate(year int, month time.Month, day int) (calendar.Date, error) {
	d := calendar.NewDate(year, month, day)
	if d.Year != year || d.Month != month || d.Day != day {
		return calendar.Date{}, ErrBadDate
	}
	return d, nil
}

func parseWeekday(s string) time.Weekday {
	switch s {
	case "mon", "monday":
		return time.Monday
	case "tue", "tuesday":
		return time.Tuesday
	case "wed", "wednesday":
		return time.Wednesday
	case "thu", "thursday":
		return time.Thursday
	case "fri", "friday":
		return time.Friday
	case "sat", "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}

func parseMonth(s string) time.Month {
	switch s {
	case "feb", "february":
		return time.February
	case "mar", "march":
		return time.March
	case "apr", "april":
		return time.April
	case "may":
		return time.May
	case "jun", "june":
		return time.June
	case "jul", "july":
		return time.July
	case "aug", "august":
		return time.August
	case "sep", "sept", "september":
		return time.September
	case "oct", "october":
		return time.October
	case "nov", "november":
		return time.November
	case "dec", "december":
		return time.December
	default:
		return time.January
	}
}

func hasWord(lower, word string) bool {
	if !strings.HasPrefix(lower, word) {
		return false
	}
	if len(lower) == len(word) {
		return true
	}
	c := lower[len(word)]
	return c == ' ' || c == ',' || c == '\t'
}

func rest(input string, n int) string {
	return strings.TrimLeft(strings.TrimSpace(input[n:]), ", ")
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
