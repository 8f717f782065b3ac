package workflow

import (
	"fmt"
	"strings"
)

// State is the stage of the booking sequence. Exactly one is active and it
// alone decides which surface is visible.
type State int

const (
	Browsing State = iota
	DetailsCapture
	Pending
	Confirmed
)

func (s State) String() string {
	switch s {
	case Browsing:
		return "browsing"
	case DetailsCapture:
		return "details-capture"
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Trigger is an input that may move the machine between states.
type Trigger int

const (
	TriggerRequestDetails Trigger = iota
	TriggerCancel
	TriggerSubmitInvalid
	TriggerSubmitValid
	TriggerSubmitAwait
	TriggerSubmissionAccepted
	TriggerSubmissionRejected
	TriggerAcknowledge
	TriggerReset
)

func (t Trigger) String() string {
	switch t {
	case TriggerRequestDetails:
		return "request-details"
	case TriggerCancel:
		return "cancel"
	case TriggerSubmitInvalid:
		return "submit-invalid"
	case TriggerSubmitValid:
		return "submit-valid"
	case TriggerSubmitAwait:
		return "submit-await"
	case TriggerSubmissionAccepted:
		return "submission-accepted"
	case TriggerSubmissionRejected:
		return "submission-rejected"
	case TriggerAcknowledge:
		return "acknowledge"
	case TriggerReset:
		return "reset"
	default:
		return fmt.Sprintf("trigger(%d)", int(t))
	}
}

type edge struct {
	from    State
	trigger Trigger
}

// transitions is the complete table. Reset is accepted from every state and
// handled in fire.
var transitions = map[edge]State{
	{Browsing, TriggerRequestDetails}:      DetailsCapture,
	{DetailsCapture, TriggerCancel}:        Browsing,
	{DetailsCapture, TriggerSubmitInvalid}: DetailsCapture,
	{DetailsCapture, TriggerSubmitValid}:   Confirmed,
	{DetailsCapture, TriggerSubmitAwait}:   Pending,
	{Pending, TriggerSubmissionAccepted}:   Confirmed,
	{Pending, TriggerSubmissionRejected}:   DetailsCapture,
	{Confirmed, TriggerAcknowledge}:        Browsing,
}

// Next returns the state reached from s on t, if the table allows it.
func Next(s State, t Trigger) (State, bool) {
	if t == TriggerReset {
		return Browsing, true
	}
	to, ok := transitions[edge{s, t}]
	return to, ok
}

// ResetPolicy decides what Acknowledge clears after a confirmed booking.
type ResetPolicy int

const (
	ResetNone ResetPolicy = iota
	ResetSelection
	ResetRecord
	ResetAll
)

func (p ResetPolicy) String() string {
	switch p {
	case ResetSelection:
		return "selection"
	case ResetRecord:
		return "record"
	case ResetAll:
		return "all"
	default:
		return "none"
	}
}

func (p ResetPolicy) clearsSelection() bool {
	return p == ResetSelection || p == ResetAll
}

func (p ResetPolicy) clearsRecord() bool {
	return p == ResetRecord || p == ResetAll
}

func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return ResetNone, nil
	case "selection", "date":
		return ResetSelection, nil
	case "record", "form":
		return ResetRecord, nil
	case "all":
		return ResetAll, nil
	default:
		return ResetNone, fmt.Errorf("invalid reset policy: %s", s)
	}
}
