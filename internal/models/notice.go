package models

import "time"

// NoticeAudience controls which roles see a notice.
type NoticeAudience string

const (
	NoticeAudienceStudent NoticeAudience = "student"
	NoticeAudienceFaculty NoticeAudience = "faculty"
	NoticeAudienceBoth    NoticeAudience = "both"
)

// Notice is a broadcast announcement.
type Notice struct {
	ID          string         `db:"id" json:"id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Audience    NoticeAudience `db:"audience" json:"type"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updatedAt"`
}

// NoticeFilter narrows notice listings.
type NoticeFilter struct {
	Audience string
}
