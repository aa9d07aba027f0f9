package participation

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/auditlog"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
	"github.com/T0nystoyz/ExploreWithMe/internal/user"
)

// fakeLedger reproduces the repository's atomicity contract with a mutex:
// decide/apply closures run with the event state frozen, the counter moves in
// the same critical section.
type fakeLedger struct {
	mu       sync.Mutex
	events   map[uint]*event.Event
	requests map[uint]*ParticipationRequest
	nextID   uint
}

func newFakeLedger(events ...*event.Event) *fakeLedger {
	l := &fakeLedger{
		events:   make(map[uint]*event.Event),
		requests: make(map[uint]*ParticipationRequest),
		nextID:   1,
	}
	for _, ev := range events {
		l.events[ev.ID] = ev
	}
	return l
}

func (l *fakeLedger) AdmitNew(ctx context.Context, eventID, requesterID uint, decide func(ev *event.Event) (string, error)) (*ParticipationRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ev, ok := l.events[eventID]
	if !ok {
		return nil, apperror.NotFound("event with id=%d was not found", eventID)
	}
	for _, pr := range l.requests {
		if pr.EventID == eventID && pr.RequesterID == requesterID &&
			(pr.Status == StatusPending || pr.Status == StatusConfirmed) {
			return nil, apperror.BadRequest("user id=%d already has a live request for event id=%d", requesterID, eventID)
		}
	}

	status, err := decide(ev)
	if err != nil {
		return nil, err
	}

	pr := &ParticipationRequest{ID: l.nextID, EventID: eventID, RequesterID: requesterID, Status: status}
	l.nextID++
	l.requests[pr.ID] = pr
	if status == StatusConfirmed {
		ev.ConfirmedRequests++
	}

	clone := *pr
	return &clone, nil
}

func (l *fakeLedger) Resolve(ctx context.Context, requestID uint, apply func(ev *event.Event, pr *ParticipationRequest) (string, error)) (*ParticipationRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pr, ok := l.requests[requestID]
	if !ok {
		return nil, apperror.NotFound("request with id=%d was not found", requestID)
	}
	ev, ok := l.events[pr.EventID]
	if !ok {
		return nil, apperror.NotFound("event with id=%d was not found", pr.EventID)
	}

	newStatus, err := apply(ev, pr)
	if err != nil {
		return nil, err
	}

	ev.ConfirmedRequests += CounterDelta(pr.Status, newStatus)
	pr.Status = newStatus

	clone := *pr
	return &clone, nil
}

func (l *fakeLedger) GetByID(ctx context.Context, id uint) (*ParticipationRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	pr, ok := l.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *pr
	return &clone, nil
}

func (l *fakeLedger) ListByEvent(ctx context.Context, eventID uint) ([]ParticipationRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var reqs []ParticipationRequest
	for _, pr := range l.requests {
		if pr.EventID == eventID {
			reqs = append(reqs, *pr)
		}
	}
	return reqs, nil
}

func (l *fakeLedger) ListByRequester(ctx context.Context, requesterID uint) ([]ParticipationRequest, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var reqs []ParticipationRequest
	for _, pr := range l.requests {
		if pr.RequesterID == requesterID {
			reqs = append(reqs, *pr)
		}
	}
	return reqs, nil
}

func (l *fakeLedger) confirmed(eventID uint) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.events[eventID].ConfirmedRequests
}

type fakeUserRepo struct {
	ids map[uint]bool
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) GetByID(ctx context.Context, id uint) (*user.User, error) {
	if !f.ids[id] {
		return nil, gorm.ErrRecordNotFound
	}
	return &user.User{ID: id}, nil
}
func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) List(ctx context.Context, ids []uint, limit, offset int) ([]user.User, error) {
	return nil, nil
}
func (f *fakeUserRepo) Delete(ctx context.Context, id uint) error        { return nil }
func (f *fakeUserRepo) Exists(ctx context.Context, id uint) (bool, error) { return f.ids[id], nil }

type fakeEventRepo struct {
	ledger *fakeLedger
}

func (f *fakeEventRepo) Create(ctx context.Context, e *event.Event) error { return nil }
func (f *fakeEventRepo) Update(ctx context.Context, e *event.Event) error { return nil }
func (f *fakeEventRepo) GetByID(ctx context.Context, id uint) (*event.Event, error) {
	f.ledger.mu.Lock()
	defer f.ledger.mu.Unlock()
	ev, ok := f.ledger.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *ev
	return &clone, nil
}
func (f *fakeEventRepo) GetPublishedByID(ctx context.Context, id uint) (*event.Event, error) {
	ev, err := f.GetByID(ctx, id)
	if err != nil || ev.State != event.StatePublished {
		return nil, gorm.ErrRecordNotFound
	}
	return ev, nil
}
func (f *fakeEventRepo) ListByInitiator(ctx context.Context, initiatorID uint, limit, offset int) ([]event.Event, error) {
	return nil, nil
}
func (f *fakeEventRepo) AdminSearch(ctx context.Context, filter event.AdminSearchFilter) ([]event.Event, error) {
	return nil, nil
}
func (f *fakeEventRepo) PublicSearch(ctx context.Context, filter event.PublicSearchFilter) ([]event.Event, error) {
	return nil, nil
}
func (f *fakeEventRepo) ListByIDs(ctx context.Context, ids []uint) ([]event.Event, error) {
	return nil, nil
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

func newTestService(ledger *fakeLedger, userIDs ...uint) Service {
	users := &fakeUserRepo{ids: make(map[uint]bool)}
	for _, id := range userIDs {
		users.ids[id] = true
	}
	return NewService(ledger, &fakeEventRepo{ledger: ledger}, users, noopAudit{})
}

func publishedEvent(id, initiatorID uint, limit int, moderation bool) *event.Event {
	return &event.Event{
		ID:                id,
		InitiatorID:       initiatorID,
		State:             event.StatePublished,
		ParticipantLimit:  limit,
		RequestModeration: moderation,
	}
}

func TestCreateRequestAutoConfirm(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10, 20)

	dto, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, dto.Status)
	assert.Equal(t, 1, ledger.confirmed(1))
}

func TestCreateRequestModerationPending(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, true))
	svc := newTestService(ledger, 10, 20)

	dto, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, dto.Status)
	assert.Equal(t, 0, ledger.confirmed(1))
}

func TestCreateRequestSelfForbidden(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10)

	_, err := svc.CreateRequest(context.Background(), 10, 1, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestCreateRequestUnknownUser(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10)

	_, err := svc.CreateRequest(context.Background(), 99, 1, "127.0.0.1")
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestCreateRequestUnpublishedEvent(t *testing.T) {
	ev := publishedEvent(1, 10, 5, false)
	ev.State = event.StatePending
	ledger := newFakeLedger(ev)
	svc := newTestService(ledger, 10, 20)

	_, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestCreateRequestSingleLiveRequest(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, true))
	svc := newTestService(ledger, 10, 20)

	_, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestCreateRequestAgainAfterCancel(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10, 20)

	first, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.CancelRequest(context.Background(), 20, first.ID, "127.0.0.1")
	require.NoError(t, err)

	second, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, second.Status)
	assert.Equal(t, 1, ledger.confirmed(1))
}

func TestConcurrentRequestsRespectCapacity(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 2, false))
	svc := newTestService(ledger, 10, 20, 21, 22)

	var wg sync.WaitGroup
	results := make([]error, 3)
	for i, requester := range []uint{20, 21, 22} {
		wg.Add(1)
		go func(i int, requester uint) {
			defer wg.Done()
			_, results[i] = svc.CreateRequest(context.Background(), requester, 1, "127.0.0.1")
		}(i, requester)
	}
	wg.Wait()

	confirmed, rejected := 0, 0
	for _, err := range results {
		if err == nil {
			confirmed++
		} else {
			assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
			rejected++
		}
	}
	assert.Equal(t, 2, confirmed)
	assert.Equal(t, 1, rejected)
	assert.Equal(t, 2, ledger.confirmed(1))
}

func TestApproveConfirmsWithinCapacity(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 1, true))
	svc := newTestService(ledger, 10, 20)

	req, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)

	approved, err := svc.ApproveRequest(context.Background(), 10, 1, req.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, approved.Status)
	assert.Equal(t, 1, ledger.confirmed(1))
}

func TestApproveOverCapacityRejects(t *testing.T) {
	// moderation on, limit 1: A approved fills the event, approving B must
	// end REJECTED and leave the counter untouched
	ledger := newFakeLedger(publishedEvent(1, 10, 1, true))
	svc := newTestService(ledger, 10, 20, 21)

	reqA, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)
	reqB, err := svc.CreateRequest(context.Background(), 21, 1, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusPending, reqB.Status)

	approvedA, err := svc.ApproveRequest(context.Background(), 10, 1, reqA.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, approvedA.Status)
	assert.Equal(t, 1, ledger.confirmed(1))

	resolvedB, err := svc.ApproveRequest(context.Background(), 10, 1, reqB.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, resolvedB.Status)
	assert.Equal(t, 1, ledger.confirmed(1))
}

func TestApproveByNonOwnerForbidden(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, true))
	svc := newTestService(ledger, 10, 20, 21)

	req, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.ApproveRequest(context.Background(), 21, 1, req.ID, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestApproveNonPendingBadRequest(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10, 20)

	req, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, req.Status)

	_, err = svc.ApproveRequest(context.Background(), 10, 1, req.ID, "127.0.0.1")
	assert.Equal(t, apperror.KindBadRequest, apperror.KindOf(err))
}

func TestRejectConfirmedFreesSlot(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10, 20)

	req, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.confirmed(1))

	rejected, err := svc.RejectRequest(context.Background(), 10, 1, req.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, rejected.Status)
	assert.Equal(t, 0, ledger.confirmed(1))
}

func TestCancelConfirmedDecrements(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10, 20)

	req, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 1, ledger.confirmed(1))

	canceled, err := svc.CancelRequest(context.Background(), 20, req.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, canceled.Status)
	assert.Equal(t, 0, ledger.confirmed(1))
}

func TestCancelIsIdempotent(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10, 20)

	req, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.CancelRequest(context.Background(), 20, req.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 0, ledger.confirmed(1))

	// Second cancel must not decrement again
	canceled, err := svc.CancelRequest(context.Background(), 20, req.ID, "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, StatusCanceled, canceled.Status)
	assert.Equal(t, 0, ledger.confirmed(1))
}

func TestCancelForeignRequestForbidden(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, false))
	svc := newTestService(ledger, 10, 20, 21)

	req, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)

	_, err = svc.CancelRequest(context.Background(), 21, req.ID, "127.0.0.1")
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}

func TestListForEventRequiresOwnership(t *testing.T) {
	ledger := newFakeLedger(publishedEvent(1, 10, 5, true))
	svc := newTestService(ledger, 10, 20)

	_, err := svc.CreateRequest(context.Background(), 20, 1, "127.0.0.1")
	require.NoError(t, err)

	reqs, err := svc.ListForEvent(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Len(t, reqs, 1)

	_, err = svc.ListForEvent(context.Background(), 20, 1)
	assert.Equal(t, apperror.KindForbidden, apperror.KindOf(err))
}
