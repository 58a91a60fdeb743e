package planner

import (
	"fmt"
	"strings"
)

const (
	DefaultTimetableStart = 7
	DefaultTimetableEnd   = 21
)

// TimetableRow is one hour band across the teaching days.
type TimetableRow struct {
	Hour  int               `json:"hour"`
	Label string            `json:"label"`
	Cells map[string]string `json:"cells"`
}

// Timetable is a day by hour grid of a course selection.
type Timetable struct {
	Days []string       `json:"days"`
	Rows []TimetableRow `json:"rows"`
}

// BuildTimetable lays courses out on an hour grid between fromHour and toHour (exclusive).
// Cells read "CODE (SESSION)"; collisions list each occupant separated by " / ".
func BuildTimetable(courses []Course, fromHour, toHour int) Timetable {
	if fromHour < 0 || fromHour > 23 {
		fromHour = DefaultTimetableStart
	}
	if toHour <= fromHour || toHour > 24 {
		toHour = DefaultTimetableEnd
	}

	days := Days()
	table := Timetable{Days: make([]string, len(days))}
	for i, d := range days {
		table.Days[i] = d.String()
	}

	occupants := make(map[Day]map[int][]string)
	for _, c := range courses {
		for _, b := range c.Blocks {
			if occupants[b.Day] == nil {
				occupants[b.Day] = make(map[int][]string)
			}
			for h := b.StartHour; h < b.EndHour; h++ {
				occupants[b.Day][h] = append(occupants[b.Day][h], cellLabel(c, b))
			}
		}
	}

	for h := fromHour; h < toHour; h++ {
		row := TimetableRow{
			Hour:  h,
			Label: fmt.Sprintf("%02d:00-%02d:00", h, h+1),
			Cells: make(map[string]string, len(days)),
		}
		for _, d := range days {
			row.Cells[d.String()] = strings.Join(occupants[d][h], " / ")
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func cellLabel(c Course, b TimeBlock) string {
	label := c.Code
	if label == "" {
		label = c.Name
	}
	if b.SessionType != "" {
		label = fmt.Sprintf("%s (%s)", label, b.SessionType)
	}
	return label
}
