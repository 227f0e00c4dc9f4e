package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hernahi/fundraising-mvp-sub000/internal/outreach/domain"
)

type mockMessageRepo struct {
	mock.Mock
}

func (m *mockMessageRepo) CreateTx(ctx context.Context, tx pgx.Tx, msg *domain.Message) error {
	args := m.Called(ctx, tx, msg)
	return args.Error(0)
}

func (m *mockMessageRepo) GetByTrackingID(ctx context.Context, trackingID string) (*domain.Message, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) ListByAthlete(ctx context.Context, athleteID uuid.UUID) ([]*domain.Contact, error) {
	args := m.Called(ctx, athleteID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *mockContactRepo) GetByIDs(ctx context.Context, athleteID uuid.UUID, ids []uuid.UUID) ([]*domain.Contact, error) {
	args := m.Called(ctx, athleteID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Contact), args.Error(1)
}

func (m *mockContactRepo) MarkSentTx(ctx context.Context, tx pgx.Tx, id uuid.UUID, phase domain.PhaseKey, sentAt time.Time) error {
	args := m.Called(ctx, tx, id, phase, sentAt)
	return args.Error(0)
}

func (m *mockContactRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ContactStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockContactRepo) MarkDonatedByEmailKey(ctx context.Context, athleteID uuid.UUID, emailKey string) error {
	args := m.Called(ctx, athleteID, emailKey)
	return args.Error(0)
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Create(ctx context.Context, ev *domain.EmailEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

type eventsTestComponents struct {
	handler     *DeliveryEventsHandler
	messageRepo *mockMessageRepo
	contactRepo *mockContactRepo
	eventRepo   *mockEventRepo
}

func newEventsTestComponents(t *testing.T) *eventsTestComponents {
	t.Helper()
	c := &eventsTestComponents{
		messageRepo: &mockMessageRepo{},
		contactRepo: &mockContactRepo{},
		eventRepo:   &mockEventRepo{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c.handler = NewDeliveryEventsHandler(c.messageRepo, c.contactRepo, c.eventRepo, logger)
	return c
}

func postEvents(c *eventsTestComponents, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/email/events", strings.NewReader(body))
	rec := httptest.NewRecorder()
	c.handler.HandleEvents(rec, req)
	return rec
}

func TestDeliveryEventsBouncedFlipsContact(t *testing.T) {
	c := newEventsTestComponents(t)
	contactID := uuid.New()

	c.eventRepo.On("Create", mock.Anything, mock.MatchedBy(func(ev *domain.EmailEvent) bool {
		return ev.TrackingID == "trk-1" && ev.Type == domain.EventBounced
	})).Return(nil)
	c.messageRepo.On("GetByTrackingID", mock.Anything, "trk-1").
		Return(&domain.Message{ContactID: contactID}, nil)
	c.contactRepo.On("UpdateStatus", mock.Anything, contactID, domain.ContactBounced).Return(nil)

	rec := postEvents(c, `{"tracking_id":"trk-1","event":"bounced"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	c.contactRepo.AssertExpectations(t)
	c.eventRepo.AssertExpectations(t)
}

func TestDeliveryEventsComplainedFlipsContact(t *testing.T) {
	c := newEventsTestComponents(t)
	contactID := uuid.New()

	c.eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	c.messageRepo.On("GetByTrackingID", mock.Anything, "trk-2").
		Return(&domain.Message{ContactID: contactID}, nil)
	c.contactRepo.On("UpdateStatus", mock.Anything, contactID, domain.ContactComplained).Return(nil)

	// Array form, as providers batch events.
	rec := postEvents(c, `[{"tracking_id":"trk-2","event":"complained"}]`)

	assert.Equal(t, http.StatusOK, rec.Code)
	c.contactRepo.AssertExpectations(t)
}

func TestDeliveryEventsDeliveredDoesNotTouchContact(t *testing.T) {
	c := newEventsTestComponents(t)

	c.eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	rec := postEvents(c, `{"tracking_id":"trk-3","event":"delivered"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	c.contactRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	c.messageRepo.AssertNotCalled(t, "GetByTrackingID", mock.Anything, mock.Anything)
}

func TestDeliveryEventsInternalFailureStillAnswers200(t *testing.T) {
	c := newEventsTestComponents(t)

	c.eventRepo.On("Create", mock.Anything, mock.Anything).Return(assert.AnError)
	c.messageRepo.On("GetByTrackingID", mock.Anything, "trk-4").Return(nil, assert.AnError)

	rec := postEvents(c, `{"tracking_id":"trk-4","event":"bounced"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeliveryEventsUnparseablePayloadStillAnswers200(t *testing.T) {
	c := newEventsTestComponents(t)

	rec := postEvents(c, `{not json`)

	assert.Equal(t, http.StatusOK, rec.Code)
	c.eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeliveryEventsUnknownTypeIgnored(t *testing.T) {
	c := newEventsTestComponents(t)

	rec := postEvents(c, `{"tracking_id":"trk-5","event":"opened"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	c.eventRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
