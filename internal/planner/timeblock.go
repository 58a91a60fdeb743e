package planner

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalization errors. They are the only errors the planner returns.
var (
	ErrUnrecognizedDay = errors.New("unrecognized day")
	ErrInvalidHour     = errors.New("invalid hour")
	ErrInvalidRange    = errors.New("invalid hour range")
)

// Day is one of the six canonical teaching days.
type Day int

const (
	Monday Day = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
)

var dayNames = map[Day]string{
	Monday:    "MONDAY",
	Tuesday:   "TUESDAY",
	Wednesday: "WEDNESDAY",
	Thursday:  "THURSDAY",
	Friday:    "FRIDAY",
	Saturday:  "SATURDAY",
}

// dayAliases is keyed by the upper-cased, accent-free spelling.
var dayAliases = map[string]Day{
	"LU": Monday, "LUN": Monday, "LUNES": Monday, "MON": Monday, "MONDAY": Monday,
	"MA": Tuesday, "MAR": Tuesday, "MARTES": Tuesday, "TUE": Tuesday, "TUESDAY": Tuesday,
	"MI": Wednesday, "MIE": Wednesday, "MIERCOLES": Wednesday, "WED": Wednesday, "WEDNESDAY": Wednesday,
	"JU": Thursday, "JUE": Thursday, "JUEVES": Thursday, "THU": Thursday, "THURSDAY": Thursday,
	"VI": Friday, "VIE": Friday, "VIERNES": Friday, "FRI": Friday, "FRIDAY": Friday,
	"SA": Saturday, "SAB": Saturday, "SABADO": Saturday, "SAT": Saturday, "SATURDAY": Saturday,
}

// Days returns the canonical days in week order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}
}

// Valid reports whether d is a canonical day.
func (d Day) Valid() bool {
	return d >= Monday && d <= Saturday
}

func (d Day) String() string {
	if name, ok := dayNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Day(%d)", int(d))
}

// MarshalJSON encodes the day by name.
func (d Day) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnrecognizedDay, int(d))
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts any spelling NormalizeDay understands.
func (d *Day) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrUnrecognizedDay, string(data))
	}
	day, err := NormalizeDay(raw)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// NormalizeDay maps an abbreviation or full day name, in Spanish or English, to a Day.
func NormalizeDay(raw string) (Day, error) {
	key := strings.ToUpper(foldAccents(strings.TrimSpace(raw)))
	key = strings.TrimSuffix(key, ".")
	if day, ok := dayAliases[key]; ok {
		return day, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnrecognizedDay, raw)
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

var (
	clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
	digitPattern = regexp.MustCompile(`^\d{1,2}$`)
	rangePattern = regexp.MustCompile(`^\[\s*(\d{1,2})\s*-\s*(\d{1,2})\s*\]$`)
)

// NormalizeHour converts "HH:MM", "HH:MM:SS", "H:MM", digit strings and integral numbers
// into an hour in 0..23. Minutes are truncated.
func NormalizeHour(raw interface{}) (int, error) {
	var hour int
	switch v := raw.(type) {
	case int:
		hour = v
	case int32:
		hour = int(v)
	case int64:
		hour = int(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v", ErrInvalidHour, v)
		}
		hour = int(v)
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHour, v.String())
		}
		hour = int(n)
	case string:
		parsed, err := parseHourString(v)
		if err != nil {
			return 0, err
		}
		hour = parsed
	default:
		return 0, fmt.Errorf("%w: unsupported value %v", ErrInvalidHour, raw)
	}
	if hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %d out of range", ErrInvalidHour, hour)
	}
	return hour, nil
}

func parseHourString(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if m := clockPattern.FindStringSubmatch(s); m != nil {
		minutes, _ := strconv.Atoi(m[2])
		if minutes > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidHour, raw)
		}
		h, _ := strconv.Atoi(m[1])
		return h, nil
	}
	if digitPattern.MatchString(s) {
		h, _ := strconv.Atoi(s)
		return h, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidHour, raw)
}

// ParseHourRange parses the catalog's bracketed "[HH-HH]" form.
func ParseHourRange(raw string) (int, int, error) {
	m := rangePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidHour, raw)
	}
	start, err := NormalizeHour(m[1])
	if err != nil {
		return 0, 0, err
	}
	end, err := NormalizeHour(m[2])
	if err != nil {
		return 0, 0, err
	}
	if start >= end {
		return 0, 0, fmt.Errorf("%w: %q starts at or after its end", ErrInvalidRange, raw)
	}
	return start, end, nil
}

// SessionType describes what kind of meeting a block is.
type SessionType string

const (
	SessionLecture  SessionType = "LECTURE"
	SessionLab      SessionType = "LAB"
	SessionPractice SessionType = "PRACTICE"
)

var sessionAliases = map[string]SessionType{
	"T": SessionLecture, "TEORIA": SessionLecture, "LECTURE": SessionLecture, "THEORY": SessionLecture,
	"L": SessionLab, "LAB": SessionLab, "LABORATORIO": SessionLab, "LABORATORY": SessionLab,
	"P": SessionPractice, "PRACTICA": SessionPractice, "PRACTICE": SessionPractice,
}

// NormalizeSessionType maps catalog codes such as T/P/L; unknown input yields "".
func NormalizeSessionType(raw string) SessionType {
	key := strings.ToUpper(foldAccents(strings.TrimSpace(raw)))
	return sessionAliases[key]
}

// TimeBlock is one weekly meeting of a course.
type TimeBlock struct {
	Day         Day         `json:"day"`
	StartHour   int         `json:"startHour"`
	EndHour     int         `json:"endHour"`
	Room        string      `json:"room,omitempty"`
	Instructor  string      `json:"instructor,omitempty"`
	Group       string      `json:"group,omitempty"`
	SessionType SessionType `json:"sessionType,omitempty"`
}

// BlockOption sets a descriptive attribute on a new block.
type BlockOption func(*TimeBlock)

func WithRoom(room string) BlockOption {
	return func(b *TimeBlock) { b.Room = strings.TrimSpace(room) }
}

func WithInstructor(name string) BlockOption {
	return func(b *TimeBlock) { b.Instructor = strings.TrimSpace(name) }
}

func WithGroup(group string) BlockOption {
	return func(b *TimeBlock) { b.Group = strings.TrimSpace(group) }
}

func WithSessionType(t SessionType) BlockOption {
	return func(b *TimeBlock) { b.SessionType = t }
}

// NewTimeBlock validates and builds a block.
func NewTimeBlock(day Day, start, end int, opts ...BlockOption) (TimeBlock, error) {
	if !day.Valid() {
		return TimeBlock{}, fmt.Errorf("%w: %d", ErrUnrecognizedDay, int(day))
	}
	if start < 0 || start > 23 {
		return TimeBlock{}, fmt.Errorf("%w: start %d out of range", ErrInvalidHour, start)
	}
	if end < 0 || end > 23 {
		return TimeBlock{}, fmt.Errorf("%w: end %d out of range", ErrInvalidHour, end)
	}
	if start >= end {
		return TimeBlock{}, fmt.Errorf("%w: %02d-%02d", ErrInvalidRange, start, end)
	}
	block := TimeBlock{Day: day, StartHour: start, EndHour: end}
	for _, opt := range opts {
		opt(&block)
	}
	return block, nil
}

// Duration returns the block length in hours.
func (b TimeBlock) Duration() int {
	if b.EndHour <= b.StartHour {
		return 0
	}
	return b.EndHour - b.StartHour
}

// RawTimeBlock is the untyped shape received from storage or imports.
// Range takes precedence over Start/End when set.
type RawTimeBlock struct {
	Day        string      `json:"day"`
	Start      interface{} `json:"start,omitempty"`
	End        interface{} `json:"end,omitempty"`
	Range      string      `json:"range,omitempty"`
	Room       string      `json:"room,omitempty"`
	Instructor string      `json:"instructor,omitempty"`
	Group      string      `json:"group,omitempty"`
	Type       string      `json:"type,omitempty"`
}

// Normalize converts the raw block into a validated TimeBlock.
func (r RawTimeBlock) Normalize() (TimeBlock, error) {
	day, err := NormalizeDay(r.Day)
	if err != nil {
		return TimeBlock{}, err
	}
	var start, end int
	if strings.TrimSpace(r.Range) != "" {
		start, end, err = ParseHourRange(r.Range)
		if err != nil {
			return TimeBlock{}, err
		}
	} else {
		if start, err = NormalizeHour(r.Start); err != nil {
			return TimeBlock{}, err
		}
		if end, err = NormalizeHour(r.End); err != nil {
			return TimeBlock{}, err
		}
	}
	return NewTimeBlock(day, start, end,
		WithRoom(r.Room),
		WithInstructor(r.Instructor),
		WithGroup(r.Group),
		WithSessionType(NormalizeSessionType(r.Type)),
	)
}
