package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"devevents/internal/domain"
)

type eventService struct {
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

// NewEventService creates an EventService backed by the given repository.
func NewEventService(eventRepo domain.EventRepository, timeout time.Duration) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

// requiredEventFields maps field names to accessors, for the presence check on create.
var requiredEventFields = []struct {
	name string
	get  func(*domain.CreateEventInput) string
}{
	{"title", func(i *domain.CreateEventInput) string { return i.Title }},
	{"description", func(i *domain.CreateEventInput) string { return i.Description }},
	{"overview", func(i *domain.CreateEventInput) string { return i.Overview }},
	{"image", func(i *domain.CreateEventInput) string { return i.Image }},
	{"venue", func(i *domain.CreateEventInput) string { return i.Venue }},
	{"location", func(i *domain.CreateEventInput) string { return i.Location }},
	{"date", func(i *domain.CreateEventInput) string { return i.Date }},
	{"time", func(i *domain.CreateEventInput) string { return i.Time }},
	{"mode", func(i *domain.CreateEventInput) string { return i.Mode }},
	{"audience", func(i *domain.CreateEventInput) string { return i.Audience }},
	{"organizer", func(i *domain.CreateEventInput) string { return i.Organizer }},
}

func (s *eventService) CreateEvent(ctx context.Context, input *domain.CreateEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var errs []string
	for _, f := range requiredEventFields {
		if strings.TrimSpace(f.get(input)) == "" {
			errs = append(errs, f.name+" is required")
		}
	}

	mode := strings.ToLower(strings.TrimSpace(input.Mode))
	if mode != "" && !domain.ValidMode(mode) {
		errs = append(errs, "mode must be either online, offline, or hybrid")
	}

	tags := normalizeList(input.Tags, true)
	if len(tags) == 0 {
		errs = append(errs, "tags must contain at least one tag")
	}
	agenda := normalizeList(input.Agenda, false)
	if len(agenda) == 0 {
		errs = append(errs, "agenda must contain at least one item")
	}

	date := ""
	if strings.TrimSpace(input.Date) != "" {
		var err error
		date, err = domain.NormalizeEventDate(input.Date)
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	slug := domain.Slugify(input.Title)
	if strings.TrimSpace(input.Title) != "" && slug == "" {
		errs = append(errs, "title must contain at least one slug-safe character")
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(errs, "; "))
	}

	// Pre-check for a friendlier conflict error; the unique index still
	// backstops concurrent creates.
	if _, err := s.eventRepo.GetBySlug(ctx, slug); err == nil {
		return nil, domain.ErrSlugTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check slug: %w", err)
	}

	now := time.Now()
	event := &domain.Event{
		Slug:        slug,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Overview:    strings.TrimSpace(input.Overview),
		Image:       strings.TrimSpace(input.Image),
		Venue:       strings.TrimSpace(input.Venue),
		Location:    strings.TrimSpace(input.Location),
		Date:        date,
		Time:        strings.TrimSpace(input.Time),
		Mode:        mode,
		Audience:    strings.TrimSpace(input.Audience),
		Organizer:   strings.TrimSpace(input.Organizer),
		Tags:        tags,
		Agenda:      agenda,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		if errors.Is(err, domain.ErrSlugTaken) {
			return nil, domain.ErrSlugTaken
		}
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// normalizeList trims elements and drops empties; lowercases when lower is set
// (tags are stored lowercase, agenda items keep their case).
func normalizeList(in []string, lower bool) []string {
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if lower {
			s = strings.ToLower(s)
		}
		out = append(out, s)
	}
	return out
}

func (s *eventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	events, err := s.eventRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

// SimilarEvents matches on the source event's first tag only. That mirrors the
// documented relation; the repository takes the tag as an argument, so ranking
// on full tag overlap would be a local change here.
func (s *eventService) SimilarEvents(ctx context.Context, slug string) []*domain.Event {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetBySlug(ctx, slug)
	if err != nil || len(event.Tags) == 0 {
		return []*domain.Event{}
	}
	events, err := s.eventRepo.ListByTag(ctx, event.Tags[0], event.ID)
	if err != nil || events == nil {
		return []*domain.Event{}
	}
	return events
}
