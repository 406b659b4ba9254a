package models

import "time"

// Memory status values. A memory starts as a draft unless the form says
// otherwise.
const (
	StatusDraft   = "draft"
	StatusPrivate = "private"
	StatusPublic  = "public"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusPrivate, StatusPublic:
		return true
	}
	return false
}

// Memory is one user-authored record, optionally linked to an itinerary day.
// Day is kept as a string everywhere; an empty Day means the memory belongs
// to the day-less cover collection.
type Memory struct {
	ID        string         `json:"id" bson:"memoryid"`
	User      string         `json:"user" bson:"user"`
	Title     string         `json:"title" bson:"title"`
	Text      string         `json:"text,omitempty" bson:"text,omitempty"`
	Location  string         `json:"location,omitempty" bson:"location,omitempty"`
	Date      string         `json:"date" bson:"date"`
	Tags      []string       `json:"tags" bson:"tags,omitempty"`
	Status    string         `json:"status" bson:"status"`
	Media     []string       `json:"media" bson:"media,omitempty"`
	Day       string         `json:"day,omitempty" bson:"day,omitempty"`
	Reactions map[string]int `json:"reactions" bson:"reactions,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updated_at"`
}

// Comment belongs to exactly one memory and dies with it.
type Comment struct {
	ID        string         `json:"id" bson:"commentid"`
	MemoryID  string         `json:"memoryId" bson:"memoryid"`
	User      string         `json:"user" bson:"user"`
	Text      string         `json:"text" bson:"text"`
	Reactions map[string]int `json:"reactions" bson:"reactions,omitempty"`
	CreatedAt time.Time      `json:"createdAt" bson:"created_at"`
}

// ExportedMemory is the /api/export shape: comments inlined, media URLs
// made absolute.
type ExportedMemory struct {
	Memory   `bson:",inline"`
	Comments []Comment `json:"comments"`
}
