package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/mesh-intelligence/satchel/pkg/types"
)

// TimeLayout matches the store's ISO-8601 timestamps with optional
// fractional seconds and a literal trailing Z.
const TimeLayout = "2006-01-02T15:04:05.999999999Z"

// PropertiesFromMap converts a flat key/value map into the typed property
// record. Each field converts independently: a malformed value for a known
// key degrades to absent instead of failing the record, and unknown keys
// are ignored.
func PropertiesFromMap(kv map[string]string) types.NoteProperties {
	var p types.NoteProperties
	for k, v := range kv {
		switch k {
		case KeyTitle:
			p.Title = strPtr(v)
		case KeyBody:
			p.Body = strPtr(v)
		case "created_time":
			p.CreatedTime = parseTime(v)
		case "altitude":
			p.Altitude = parseFloat(v)
		case "latitude":
			p.Latitude = parseFloat(v)
		case "longitude":
			p.Longitude = parseFloat(v)
		case "author":
			p.Author = strPtr(v)
		case "source_url":
			p.SourceURL = strPtr(v)
		case "is_todo":
			p.IsTodo = parseBool(v)
		case "todo_due":
			p.TodoDue = parseBool(v)
		case "todo_completed":
			p.TodoCompleted = parseBool(v)
		case "source":
			p.Source = strPtr(v)
		case "source_application":
			p.SourceApplication = strPtr(v)
		case "application_data":
			p.ApplicationData = strPtr(v)
		case "order":
			p.Order = parseInt(v)
		case "user_created_time":
			p.UserCreatedTime = parseTime(v)
		case "user_updated_time":
			p.UserUpdatedTime = parseTime(v)
		case "markup_language":
			p.MarkupLanguage = strPtr(v)
		case "is_shared":
			p.IsShared = parseBool(v)
		}
	}
	return p
}

func strPtr(v string) *string {
	return &v
}

// ParseTime parses a store timestamp, nil on failure.
func ParseTime(v string) *time.Time {
	t, err := time.Parse(TimeLayout, strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &t
}

func parseTime(v string) *time.Time {
	return ParseTime(v)
}

func parseFloat(v string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(v string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return nil
	}
	return &n
}

// parseBool parses the store's integer booleans: parseable and equal to 1
// is true, any other parseable integer is false, unparseable is absent.
func parseBool(v string) *bool {
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 8)
	if err != nil {
		return nil
	}
	b := n == 1
	return &b
}
