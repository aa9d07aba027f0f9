package event

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
	"github.com/T0nystoyz/ExploreWithMe/internal/category"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
)

type fakeEventStore struct {
	events map[uint]*Event
	nextID uint

	// runs at the start of Update, between the service's read and its write
	beforeUpdate func()
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{events: make(map[uint]*Event), nextID: 1}
}

func (f *fakeEventStore) Create(ctx context.Context, e *Event) error {
	e.ID = f.nextID
	e.CreatedOn = time.Now()
	f.nextID++
	clone := *e
	f.events[e.ID] = &clone
	return nil
}

func (f *fakeEventStore) Update(ctx context.Context, e *Event) error {
	if f.beforeUpdate != nil {
		f.beforeUpdate()
	}
	clone := *e
	// the confirmed counter is only ever written by the participation ledger
	if cur, ok := f.events[e.ID]; ok {
		clone.ConfirmedRequests = cur.ConfirmedRequests
	}
	f.events[e.ID] = &clone
	return nil
}

func (f *fakeEventStore) GetByID(ctx context.Context, id uint) (*Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *ev
	return &clone, nil
}

func (f *fakeEventStore) GetPublishedByID(ctx context.Context, id uint) (*Event, error) {
	ev, err := f.GetByID(ctx, id)
	if err != nil || ev.State != StatePublished {
		return nil, gorm.ErrRecordNotFound
	}
	return ev, nil
}

func (f *fakeEventStore) ListByInitiator(ctx context.Context, initiatorID uint, limit, offset int) ([]Event, error) {
	var out []Event
	for _, ev := range f.events {
		if ev.InitiatorID == initiatorID {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEventStore) AdminSearch(ctx context.Context, filter AdminSearchFilter) ([]Event, error) {
	var out []Event
	for _, ev := range f.events {
		out = append(out, *ev)
	}
	return out, nil
}

func (f *fakeEventStore) PublicSearch(ctx context.Context, filter PublicSearchFilter) ([]Event, error) {
	var out []Event
	for _, ev := range f.events {
		if ev.State == StatePublished {
			out = append(out, *ev)
		}
	}
	return out, nil
}

func (f *fakeEventStore) ListByIDs(ctx context.Context, ids []uint) ([]Event, error) {
	var out []Event
	for _, id := range ids {
		if ev, ok := f.events[id]; ok {
			out = append(out, *ev)
		}
	}
	return out, nil
}

type fakeCatRepo struct{}

func (fakeCatRepo) Create(ctx context.Context, c *category.Category) error { return nil }
func (fakeCatRepo) Update(ctx context.Context, c *category.Category) error { return nil }
func (fakeCatRepo) GetByID(ctx context.Context, id uint) (*category.Category, error) {
	if id != 1 {
		return nil, gorm.ErrRecordNotFound
	}
	return &category.Category{ID: 1, Name: "concerts"}, nil
}
func (fakeCatRepo) List(ctx context.Context, limit, offset int) ([]category.Category, error) {
	return nil, nil
}
func (fakeCatRepo) Delete(ctx context.Context, id uint) error { return nil }
func (fakeCatRepo) CountEvents(ctx context.Context, id uint) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct{}

func (fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if id > 100 {
		return nil, gorm.ErrRecordNotFound
	}
	return &user.User{ID: id, Name: "user"}, nil
}
func (fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (fakeUserRepo) List(ctx context.Context, ids []uint, limit, offset int) ([]user.User, error) {
	return nil, nil
}
func (fakeUserRepo) Delete(ctx context.Context, id uint) error         { return nil }
func (fakeUserRepo) Exists(ctx context.Context, id uint) (bool, error) { return id <= 100, nil }

type fakeStats struct {
	hits int
}

func (f *fakeStats) RecordHit(ctx context.Context, uri, ip string) { f.hits++ }
func (f *fakeStats) EventViews(ctx context.Context, eventIDs []uint) map[uint]uint64 {
	views := make(map[uint]uint64, len(eventIDs))
	for _, id := range eventIDs {
		views[id] = 7
	}
	return views
}

type noopAudit struct{}

func (noopAudit) LogAction(ctx context.Context, userID *uint, eventID *uint, action string, details map[string]interface{}, ip string, status string) error {
	return nil
}
func (noopAudit) GetAuditLogs(ctx context.Context, filter auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return nil, nil
}
func (noopAudit) GetAuditLogByID(ctx context.Context, id uint) (*auditlog.AuditLog, error) {
	return nil, nil
}

func newTestService() (Service, *fakeEventStore, *fakeStats) {
	store := newFakeEventStore()
	stats := &fakeStats{}
	svc := NewService(store, fakeCatRepo{}, fakeUserRepo{}, stats, noopAudit{})
	return svc, store, stats
}

func validNewEventRequest(eventDate time.Time) NewEventRequest {
	return NewEventRequest{
		Annotation:  "A night of live music under the open sky",
		Category:    1,
		Description: "Full description of the concert, lineup and venue details included",
		EventDate:   eventDate.Format(DateTimeLayout),
		Location:    Location{Lat: 55.75, Lon: 37.62},
		Title:       "Open Air Concert",
	}
}

func TestCreateEvent(t *testing.T) {
	svc, store, _ := newTestService()

	dto, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, dto.State)
	assert.True(t, dto.RequestModeration, "moderation defaults to on")
	assert.Equal(t, uint64(7), dto.Views)

	stored, err := store.GetByID(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(10), stored.InitiatorID)
}

func TestCreateEventLeadTimeViolation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(time.Hour)), "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestCreateEventUnknownCategory(t *testing.T) {
	svc, _, _ := newTestService()

	req := validNewEventRequest(time.Now().Add(3 * time.Hour))
	req.Category = 42
	_, err := svc.CreateEvent(context.Background(), 10, req, "127.0.0.1")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestPublishEvent(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)

	published, err := svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatePublished, published.State)
	assert.NotEmpty(t, published.PublishedOn)
}

func TestPublishTwiceFails(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestPublishLeadTimeRechecked(t *testing.T) {
	svc, store, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)

	// Shift the date inside the 2-hour window before the admin publishes
	ev, _ := store.GetByID(context.Background(), created.ID)
	ev.EventDate = time.Now().Add(30 * time.Minute)
	require.NoError(t, store.Update(context.Background(), ev))

	_, err = svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestUpdatePublishedEventFails(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.UpdateEvent(context.Background(), 10, UpdateEventRequest{EventID: created.ID, Title: &title}, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestUpdateByNonOwnerForbidden(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)

	title := "Renamed"
	_, err = svc.UpdateEvent(context.Background(), 11, UpdateEventRequest{EventID: created.ID, Title: &title}, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestUpdateLeadTimeRevalidated(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)

	soon := time.Now().Add(time.Hour).Format(DateTimeLayout)
	_, err = svc.UpdateEvent(context.Background(), 10, UpdateEventRequest{EventID: created.ID, EventDate: &soon}, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestUpdateCanceledEventResetsToPending(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.CancelEvent(context.Background(), 10, created.ID, "127.0.0.1")
	require.NoError(t, err)

	title := "Back again"
	updated, err := svc.UpdateEvent(context.Background(), 10, UpdateEventRequest{EventID: created.ID, Title: &title}, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatePending, updated.State)
}

func TestCancelPublishedEvent(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	require.NoError(t, err)

	canceled, err := svc.CancelEvent(context.Background(), 10, created.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StateCanceled, canceled.State)
}

func TestCancelCanceledEventFails(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.CancelEvent(context.Background(), 10, created.ID, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.CancelEvent(context.Background(), 10, created.ID, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestRejectNonPendingFails(t *testing.T) {
	svc, _, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.RejectEvent(context.Background(), created.ID, nil, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestCancelEventKeepsConcurrentAdmissions(t *testing.T) {
	svc, store, _ := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)
	_, err = svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	require.NoError(t, err)

	// An admission commits after the cancel path has read the event but
	// before it writes; the stale in-memory count must not win.
	store.beforeUpdate = func() {
		store.events[created.ID].ConfirmedRequests++
	}

	canceled, err := svc.CancelEvent(context.Background(), 10, created.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StateCanceled, canceled.State)

	stored, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.ConfirmedRequests)
}

func TestGetPublicEventRecordsHit(t *testing.T) {
	svc, _, stats := newTestService()

	created, err := svc.CreateEvent(context.Background(), 10, validNewEventRequest(time.Now().Add(3*time.Hour)), "127.0.0.1")
	require.NoError(t, err)

	// Unpublished events are invisible publicly
	_, err = svc.GetPublicEvent(context.Background(), created.ID, "/events/1", "127.0.0.1")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Equal(t, 0, stats.hits)

	_, err = svc.PublishEvent(context.Background(), created.ID, nil, "127.0.0.1")
	require.NoError(t, err)

	dto, err := svc.GetPublicEvent(context.Background(), created.ID, "/events/1", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, uint64(7), dto.Views)
	assert.Equal(t, 1, stats.hits)
}
