package types

import "time"

// NoteProperties holds the decoded content of an item. Every field is
// independently optional; nil means the property was absent or its value
// failed to parse. Unknown keys in the source never surface here.
type NoteProperties struct {
	Title             *string
	Body              *string
	CreatedTime       *time.Time
	Altitude          *float64
	Latitude          *float64
	Longitude         *float64
	Author            *string
	SourceURL         *string
	IsTodo            *bool
	TodoDue           *bool
	TodoCompleted     *bool
	Source            *string
	SourceApplication *string
	ApplicationData   *string
	Order             *int
	UserCreatedTime   *time.Time
	UserUpdatedTime   *time.Time
	MarkupLanguage    *string
	IsShared          *bool
}
