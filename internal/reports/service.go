package reports

import (
	"context"

	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

type Service interface {
	EventsReport(ctx context.Context, filter event.AdminSearchFilter, format string, actorID *uint, ip string) ([]byte, string, string, error)
}

type service struct {
	eventRepo event.Repository
	exporter  Exporter
	auditSvc  auditlog.Service
}

func NewService(eventRepo event.Repository, exporter Exporter, auditSvc auditlog.Service) Service {
	return &service{eventRepo: eventRepo, exporter: exporter, auditSvc: auditSvc}
}

// ===========================
// 📊 Events Report
func (s *service) EventsReport(ctx context.Context, filter event.AdminSearchFilter, format string, actorID *uint, ip string) ([]byte, string, string, error) {
	events, err := s.eventRepo.AdminSearch(ctx, filter)
	if err != nil {
		return nil, "", "", err
	}

	rows := make([]EventReportRow, 0, len(events))
	for i := range events {
		ev := &events[i]
		rows = append(rows, EventReportRow{
			ID:                ev.ID,
			Title:             ev.Title,
			State:             ev.State,
			Category:          ev.Category.Name,
			Initiator:         ev.Initiator.Name,
			EventDate:         ev.EventDate,
			ParticipantLimit:  ev.ParticipantLimit,
			ConfirmedRequests: ev.ConfirmedRequests,
			Paid:              ev.Paid,
		})
	}

	data, filename, contentType, err := s.exporter.ExportEvents(format, rows)
	if err != nil {
		return nil, "", "", err
	}

	s.auditSvc.LogAction(ctx, actorID, nil, "EVENTS_REPORT_EXPORTED", map[string]interface{}{
		"format": format,
		"rows":   len(rows),
	}, ip, "SUCCESS")

	return data, filename, contentType, nil
}
