package dto

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ScrapedSchedule is one scraper output file: one school's course offer.
type ScrapedSchedule struct {
	General ScrapedGeneralInfo `json:"informacionGeneral"`
	Courses []ScrapedCourse    `json:"cursos"`
}

// ScrapedGeneralInfo identifies the faculty and school of a file.
type ScrapedGeneralInfo struct {
	Name        string `json:"nombre"`
	Faculty     string `json:"facultad"`
	FacultyCode string `json:"codigoFacultad"`
	School      string `json:"escuela"`
	SchoolCode  string `json:"codigoEscuela"`
	Career      string `json:"carrera"`
	Semester    string `json:"semestre"`
}

// ScrapedCourse is a course as published by the scraper.
type ScrapedCourse struct {
	Code        string           `json:"codigo"`
	Name        string           `json:"nombre"`
	Credits     FlexibleInt      `json:"creditos"`
	Type        string           `json:"tipo"`
	Instructors []string         `json:"docentes"`
	Rooms       []string         `json:"aulas"`
	Sessions    []ScrapedSession `json:"horarios"`
}

// ScrapedSession is a weekly session. Horario carries the bracketed "[08-10]" range;
// HoraInicio/HoraFin are used when it is absent.
type ScrapedSession struct {
	Day        string      `json:"dia"`
	Range      string      `json:"horario"`
	Start      interface{} `json:"horaInicio"`
	End        interface{} `json:"horaFin"`
	Type       string      `json:"tipo"`
	Group      string      `json:"grupo"`
	Room       string      `json:"aula"`
	Instructor string      `json:"docente"`
}

// ImportRequest starts an asynchronous catalog import.
type ImportRequest struct {
	Semester string `json:"semester" form:"semester" validate:"omitempty,max=16"`
}

// ImportAccepted is returned when an import has been queued.
type ImportAccepted struct {
	ImportID string   `json:"importId"`
	Status   string   `json:"status"`
	Files    []string `json:"files"`
}

// FlexibleInt decodes numbers, numeric strings and empty values. Unparseable input decodes to 0.
type FlexibleInt int

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch v := raw.(type) {
	case float64:
		*f = FlexibleInt(int(v))
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			*f = 0
			return nil
		}
		*f = FlexibleInt(int(n))
	default:
		*f = 0
	}
	return nil
}
