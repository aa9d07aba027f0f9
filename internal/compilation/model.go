package compilation

import (
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

// Compilation is a curated, optionally pinned set of events shown on the
// main page
type Compilation struct {
	ID     uint          `gorm:"primaryKey" json:"id"`
	Title  string        `gorm:"size:255;not null" json:"title"`
	Pinned bool          `gorm:"not null;default:false" json:"pinned"`
	Events []event.Event `gorm:"many2many:compilation_events" json:"-"`
}

func (Compilation) TableName() string {
	return "compilations"
}

type NewCompilationRequest struct {
	Title  string `json:"title" binding:"required,max=255"`
	Pinned bool   `json:"pinned"`
	Events []uint `json:"events"`
}

type CompilationDto struct {
	ID     uint                  `json:"id"`
	Title  string                `json:"title"`
	Pinned bool                  `json:"pinned"`
	Events []event.EventShortDto `json:"events"`
}

func ToCompilationDto(c *Compilation) CompilationDto {
	events := make([]event.EventShortDto, 0, len(c.Events))
	for i := range c.Events {
		events = append(events, event.ToEventShortDto(&c.Events[i]))
	}
	return CompilationDto{
		ID:     c.ID,
		Title:  c.Title,
		Pinned: c.Pinned,
		Events: events,
	}
}
