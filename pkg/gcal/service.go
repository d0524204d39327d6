package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/itsprade/good-morning/pkg/googleauth"
)

const defaultTitle = "Untitled Event"

// Event is a calendar entry as read from Google Calendar.
type Event struct {
	ID          string
	Title       string
	Start       time.Time
	End         time.Time
	MeetingLink string
}

type Service struct {
	auth *googleauth.Client
}

func NewService(auth *googleauth.Client) *Service {
	return &Service{auth: auth}
}

// ListEvents reads single events of the primary calendar that start in
// [from, to), ordered by start time. Events without a usable start or end
// are skipped.
func (s *Service) ListEvents(ctx context.Context, creds googleauth.Credentials, from, to time.Time) ([]Event, error) {
	srv, err := calendar.NewService(ctx, option.WithHTTPClient(s.auth.HTTPClient(ctx, creds)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Calendar service: %w", err)
	}

	var events []Event
	call := srv.Events.List("primary").
		TimeMin(from.Format(time.RFC3339)).
		TimeMax(to.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx)
	err = call.Pages(ctx, func(page *calendar.Events) error {
		for _, item := range page.Items {
			if ev, ok := convertEvent(item, from.Location()); ok {
				events = append(events, ev)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list events: %w", err)
	}
	return events, nil
}

func convertEvent(item *calendar.Event, loc *time.Location) (Event, bool) {
	if item == nil || item.Status == "cancelled" {
		return Event{}, false
	}
	start, ok := parseEventTime(item.Start, loc)
	if !ok {
		return Event{}, false
	}
	end, ok := parseEventTime(item.End, loc)
	if !ok {
		return Event{}, false
	}

	title := item.Summary
	if title == "" {
		title = defaultTitle
	}
	return Event{
		ID:          item.Id,
		Title:       title,
		Start:       start,
		End:         end,
		MeetingLink: item.HangoutLink,
	}, true
}

// parseEventTime reads a timed event's dateTime, or an all-day event's date
// as midnight in loc.
func parseEventTime(t *calendar.EventDateTime, loc *time.Location) (time.Time, bool) {
	if t == nil {
		return time.Time{}, false
	}
	if t.DateTime != "" {
		parsed, err := time.Parse(time.RFC3339, t.DateTime)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	if t.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", t.Date, loc)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	}
	return time.Time{}, false
}
