package models

// Day is one itinerary day, extracted once from the source document at
// startup and immutable afterwards. Title, Subtitle and Highlight carry raw
// markup fragments and are rendered verbatim.
type Day struct {
	ID        int            `json:"id"`
	Title     string         `json:"title"`
	Subtitle  string         `json:"subtitle,omitempty"`
	Highlight string         `json:"highlight,omitempty"`
	Schedule  []ScheduleItem `json:"schedule"`
}

// ScheduleItem is one row of a day's agenda. Its position within the parent
// schedule is part of its identity: the per-item state key is built from it.
type ScheduleItem struct {
	Time      string `json:"time,omitempty"`
	Content   string `json:"content"`
	Transport string `json:"transport,omitempty"`
}

// ItemState is the persisted completion/note for one (day, index) pair. A
// state with Completed false and an empty Note is equivalent to absent.
type ItemState struct {
	Completed bool   `json:"completed,omitempty"`
	Note      string `json:"note,omitempty"`
}

func (s ItemState) Empty() bool {
	return !s.Completed && s.Note == ""
}

// DiaryEntry is derived from stored item states: one entry per non-empty
// note, ordered ascending by day id.
type DiaryEntry struct {
	Day  int    `json:"day"`
	Note string `json:"note"`
}
