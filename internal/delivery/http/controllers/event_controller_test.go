package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"devevents/internal/delivery/http/helpers"
	"devevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	listEventsErr    error
	listEventsResult []*domain.Event
	getBySlugErr     error
	getBySlugResult  *domain.Event
	similarResult    []*domain.Event
	lastSlug         string
}

func (f *fakeEventService) CreateEvent(ctx context.Context, input *domain.CreateEventInput) (*domain.Event, error) {
	return nil, fmt.Errorf("not used in handler tests")
}

func (f *fakeEventService) GetEventBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	f.lastSlug = slug
	if f.getBySlugErr != nil {
		return nil, f.getBySlugErr
	}
	return f.getBySlugResult, nil
}

func (f *fakeEventService) ListEvents(ctx context.Context) ([]*domain.Event, error) {
	if f.listEventsErr != nil {
		return nil, f.listEventsErr
	}
	return f.listEventsResult, nil
}

func (f *fakeEventService) SimilarEvents(ctx context.Context, slug string) []*domain.Event {
	f.lastSlug = slug
	if f.similarResult == nil {
		return []*domain.Event{}
	}
	return f.similarResult
}

// fakeIngestionService implements domain.IngestionService for handler tests.
type fakeIngestionService struct {
	createErr error
	result    *domain.Event
	lastInput *domain.CreateEventInput
	lastImage *domain.EventImage
}

func (f *fakeIngestionService) CreateEventFromSubmission(ctx context.Context, input *domain.CreateEventInput, image *domain.EventImage) (*domain.Event, error) {
	f.lastInput = input
	f.lastImage = image
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.result, nil
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) (json.RawMessage, *helpers.APIError) {
	t.Helper()
	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope.Data, envelope.Error
}

func newEventRequest(t *testing.T, method, target string, ctrl *EventController) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /events", ctrl.ListEvents)
	mux.HandleFunc("POST /events", ctrl.CreateEvent)
	mux.HandleFunc("GET /events/{slug}", ctrl.GetEventBySlug)
	mux.HandleFunc("GET /events/{slug}/similar", ctrl.SimilarEvents)

	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestListEvents(t *testing.T) {
	svc := &fakeEventService{listEventsResult: []*domain.Event{
		{Slug: "react-summit-2025", Title: "React Summit 2025", Date: "2025-11-14"},
		{Slug: "nextjs-conf-2025", Title: "NextJS Conf 2025", Date: "2025-11-28"},
	}}
	ctrl := NewEventController(testLogger, svc, &fakeIngestionService{})

	rr := newEventRequest(t, http.MethodGet, "/events", ctrl)
	require.Equal(t, http.StatusOK, rr.Code)

	data, apiErr := decodeEnvelope(t, rr.Body)
	require.Nil(t, apiErr)
	var events []*domain.Event
	require.NoError(t, json.Unmarshal(data, &events))
	require.Len(t, events, 2)
	assert.Equal(t, "react-summit-2025", events[0].Slug)
}

func TestListEvents_ServiceError(t *testing.T) {
	svc := &fakeEventService{listEventsErr: fmt.Errorf("boom")}
	ctrl := NewEventController(testLogger, svc, &fakeIngestionService{})

	rr := newEventRequest(t, http.MethodGet, "/events", ctrl)
	require.Equal(t, http.StatusInternalServerError, rr.Code)
	_, apiErr := decodeEnvelope(t, rr.Body)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeInternalError, apiErr.Code)
}

func TestGetEventBySlug(t *testing.T) {
	svc := &fakeEventService{getBySlugResult: &domain.Event{Slug: "react-summit-2025", Title: "React Summit 2025"}}
	ctrl := NewEventController(testLogger, svc, &fakeIngestionService{})

	rr := newEventRequest(t, http.MethodGet, "/events/react-summit-2025", ctrl)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "react-summit-2025", svc.lastSlug)
}

func TestGetEventBySlug_InvalidSlug(t *testing.T) {
	svc := &fakeEventService{}
	ctrl := NewEventController(testLogger, svc, &fakeIngestionService{})

	for _, slug := range []string{"Bad-Slug", "has_underscore", "double--hyphen", "-leading", "trailing-"} {
		rr := newEventRequest(t, http.MethodGet, "/events/"+slug, ctrl)
		require.Equal(t, http.StatusBadRequest, rr.Code, "slug %q", slug)
		_, apiErr := decodeEnvelope(t, rr.Body)
		require.NotNil(t, apiErr)
		assert.Equal(t, helpers.ErrCodeBadRequest, apiErr.Code)
	}
	assert.Empty(t, svc.lastSlug, "invalid slugs never reach the service")
}

func TestGetEventBySlug_NotFound(t *testing.T) {
	svc := &fakeEventService{getBySlugErr: domain.ErrNotFound}
	ctrl := NewEventController(testLogger, svc, &fakeIngestionService{})

	rr := newEventRequest(t, http.MethodGet, "/events/no-such-event", ctrl)
	require.Equal(t, http.StatusNotFound, rr.Code)
	_, apiErr := decodeEnvelope(t, rr.Body)
	require.NotNil(t, apiErr)
	assert.Equal(t, helpers.ErrCodeNotFound, apiErr.Code)
}

func TestSimilarEvents_AlwaysOK(t *testing.T) {
	svc := &fakeEventService{}
	ctrl := NewEventController(testLogger, svc, &fakeIngestionService{})

	// Even an unknown slug yields 200 with an empty list.
	rr := newEventRequest(t, http.MethodGet, "/events/no-such-event/similar", ctrl)
	require.Equal(t, http.StatusOK, rr.Code)

	data, apiErr := decodeEnvelope(t, rr.Body)
	require.Nil(t, apiErr)
	var events []*domain.Event
	require.NoError(t, json.Unmarshal(data, &events))
	assert.Empty(t, events)
	assert.NotNil(t, events, "an empty JSON array, not null")
}

// buildMultipart builds a multipart form with the given fields and an optional image part.
func buildMultipart(t *testing.T, fields map[string]string, imageName string, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if imageName != "" {
		part, err := mw.CreateFormFile("image", imageName)
		require.NoError(t, err)
		_, err = part.Write(imageData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func eventFormFields() map[string]string {
	return map[string]string{
		"title":       "React Summit 2025!",
		"description": "Two days of React talks",
		"overview":    "The biggest React conference in Europe",
		"venue":       "RAI Amsterdam",
		"location":    "Amsterdam, Netherlands",
		"date":        "2025/11/14",
		"time":        "09:00 AM - 6:00 PM",
		"mode":        "hybrid",
		"audience":    "Frontend developers",
		"organizer":   "React Summit",
		"tags":        `["react","javascript"]`,
		"agenda":      `["Keynote","Workshops"]`,
	}
}

func postMultipart(ctrl *EventController, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/events", body)
	req.Header.Set("Content-Type", contentType)
	rr := httptest.NewRecorder()
	ctrl.CreateEvent(rr, req)
	return rr
}

func TestCreateEvent_Multipart(t *testing.T) {
	ingestion := &fakeIngestionService{result: &domain.Event{Slug: "react-summit-2025"}}
	ctrl := NewEventController(testLogger, &fakeEventService{}, ingestion)

	body, contentType := buildMultipart(t, eventFormFields(), "react.png", []byte("\x89PNG\r\n\x1a\nimagedata"))
	rr := postMultipart(ctrl, body, contentType)

	require.Equal(t, http.StatusCreated, rr.Code)
	require.NotNil(t, ingestion.lastInput)
	assert.Equal(t, "React Summit 2025!", ingestion.lastInput.Title)
	assert.Equal(t, []string{"react", "javascript"}, ingestion.lastInput.Tags)
	assert.Equal(t, []string{"Keynote", "Workshops"}, ingestion.lastInput.Agenda)
	require.NotNil(t, ingestion.lastImage)
	assert.Equal(t, "react.png", ingestion.lastImage.Filename)
	assert.NotEmpty(t, ingestion.lastImage.Data)
}

func TestCreateEvent_MissingImageStillReachesPipeline(t *testing.T) {
	ingestion := &fakeIngestionService{createErr: fmt.Errorf("%w: image file is required", domain.ErrValidation)}
	ctrl := NewEventController(testLogger, &fakeEventService{}, ingestion)

	body, contentType := buildMultipart(t, eventFormFields(), "", nil)
	rr := postMultipart(ctrl, body, contentType)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, ingestion.lastImage)
	_, apiErr := decodeEnvelope(t, rr.Body)
	require.NotNil(t, apiErr)
	assert.Contains(t, apiErr.Message, "image file is required")
}

func TestCreateEvent_BadTagsJSON(t *testing.T) {
	ingestion := &fakeIngestionService{}
	ctrl := NewEventController(testLogger, &fakeEventService{}, ingestion)

	fields := eventFormFields()
	fields["tags"] = "react,javascript"
	body, contentType := buildMultipart(t, fields, "react.png", []byte("\x89PNG\r\n\x1a\n"))
	rr := postMultipart(ctrl, body, contentType)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Nil(t, ingestion.lastInput, "the pipeline is never invoked")
}

func TestCreateEvent_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", fmt.Errorf("%w: mode must be either online, offline, or hybrid", domain.ErrValidation), http.StatusBadRequest, helpers.ErrCodeBadRequest},
		{"slug conflict", domain.ErrSlugTaken, http.StatusConflict, helpers.ErrCodeConflict},
		{"upload failure", fmt.Errorf("%w: cloudinary said no", domain.ErrUpload), http.StatusBadGateway, helpers.ErrCodeUploadFailed},
		{"internal", fmt.Errorf("connection reset"), http.StatusInternalServerError, helpers.ErrCodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ingestion := &fakeIngestionService{createErr: tt.err}
			ctrl := NewEventController(testLogger, &fakeEventService{}, ingestion)

			body, contentType := buildMultipart(t, eventFormFields(), "react.png", []byte("\x89PNG\r\n\x1a\n"))
			rr := postMultipart(ctrl, body, contentType)

			require.Equal(t, tt.wantStatus, rr.Code)
			_, apiErr := decodeEnvelope(t, rr.Body)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}
}
