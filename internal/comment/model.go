package comment

import (
	"time"

	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

// Comment moderation states
const (
	StateNew      = "NEW"
	StateApproved = "APPROVED"
	StateRejected = "REJECTED"
)

// Comment is a user's note on a published event. New and edited comments go
// back to NEW and wait for admin moderation; only APPROVED comments are
// publicly visible.
type Comment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	Text     string    `gorm:"size:2000;not null" json:"text"`
	EventID  uint      `gorm:"index;not null" json:"eventId"`
	AuthorID uint      `gorm:"index;not null" json:"authorId"`
	State    string    `gorm:"size:20;index;not null" json:"state"`
	Created  time.Time `gorm:"autoCreateTime" json:"-"`
}

func (Comment) TableName() string {
	return "comments"
}

type NewCommentRequest struct {
	Text string `json:"text" binding:"required,min=1,max=2000"`
}

type CommentDto struct {
	ID       uint   `json:"id"`
	Text     string `json:"text"`
	EventID  uint   `json:"eventId"`
	AuthorID uint   `json:"authorId"`
	State    string `json:"state"`
	Created  string `json:"created"`
}

func ToCommentDto(c *Comment) CommentDto {
	return CommentDto{
		ID:       c.ID,
		Text:     c.Text,
		EventID:  c.EventID,
		AuthorID: c.AuthorID,
		State:    c.State,
		Created:  c.Created.Format(event.DateTimeLayout),
	}
}
