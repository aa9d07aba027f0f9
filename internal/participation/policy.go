package participation

import (
	"github.com/T0nystoyz/ExploreWithMe/internal/apperror"
	"github.com/T0nystoyz/ExploreWithMe/internal/event"
)

// Admission policy. Pure decision functions over an event's capacity state
// and moderation flag; all persistence happens in the caller's transaction.

// DecideNewRequest picks the initial status for a fresh request against ev.
// A positive participant limit that is already filled rejects the request
// outright, no record is created. With moderation off the request is
// confirmed immediately and the caller must bump the confirmed counter in
// the same transaction.
func DecideNewRequest(ev *event.Event) (string, error) {
	if ev.State != event.StatePublished {
		return "", apperror.BadRequest("cannot request participation in an unpublished event")
	}
	if ev.ParticipantLimit > 0 && ev.ConfirmedRequests >= ev.ParticipantLimit {
		return "", apperror.Forbidden("the participant limit has been reached")
	}
	if ev.RequestModeration {
		return StatusPending, nil
	}
	return StatusConfirmed, nil
}

// DecideApproval resolves an owner's approve action. Only PENDING requests
// can be approved. When the approval would push the confirmed count past the
// limit, the request ends REJECTED instead: the capacity invariant wins over
// the owner's intent.
func DecideApproval(ev *event.Event, pr *ParticipationRequest) (string, error) {
	if pr.Status != StatusPending {
		return "", apperror.BadRequest("only pending requests can be confirmed, current status: %s", pr.Status)
	}
	if ev.ParticipantLimit > 0 && ev.ConfirmedRequests >= ev.ParticipantLimit {
		return StatusRejected, nil
	}
	return StatusConfirmed, nil
}

// DecideRejection resolves an owner's reject action. Terminal requests stay
// as they are.
func DecideRejection(pr *ParticipationRequest) (string, error) {
	if pr.Status == StatusCanceled || pr.Status == StatusRejected {
		return "", apperror.BadRequest("request is already finalized with status %s", pr.Status)
	}
	return StatusRejected, nil
}

// DecideCancellation resolves the requester's own cancel: the request always
// ends CANCELED. Repeated cancels are no-ops, the ledger skips the write on
// an unchanged status and CounterDelta yields zero for it.
func DecideCancellation() string {
	return StatusCanceled
}

// CounterDelta is the confirmed-count adjustment implied by a status change
func CounterDelta(oldStatus, newStatus string) int {
	if oldStatus == newStatus {
		return 0
	}
	if oldStatus == StatusConfirmed {
		return -1
	}
	if newStatus == StatusConfirmed {
		return 1
	}
	return 0
}
