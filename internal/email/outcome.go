package email

import (
	"errors"
	"io"
	"net"
	"net/textproto"
	"syscall"
)

// Stage is the step of an SMTP exchange an attempt failed in.
type Stage string

const (
	StageConnect      Stage = "connect"
	StageAuthenticate Stage = "authenticate"
	StageSend         Stage = "send"
)

type outcomeKind int

const (
	outcomeSent outcomeKind = iota
	// outcomeDegraded means the message was rendered as plain text instead of sent.
	outcomeDegraded
	outcomeTransient
	outcomeFatal
)

func (k outcomeKind) String() string {
	switch k {
	case outcomeSent:
		return "sent"
	case outcomeDegraded:
		return "degraded"
	case outcomeTransient:
		return "transient"
	case outcomeFatal:
		return "fatal"
	}
	return "unknown"
}

// outcome is the result of a single delivery attempt. The retry loop matches
// on kind; err and stage are zero for outcomeSent.
type outcome struct {
	kind  outcomeKind
	stage Stage
	err   error
}

func sent() outcome {
	return outcome{kind: outcomeSent}
}

// classify maps an error raised during stage to the attempt outcome. Network
// timeouts are transient even though they match context.DeadlineExceeded; the
// caller's own cancellation is checked in Deliverer.attempt before this runs.
func classify(stage Stage, err error) outcome {
	out := outcome{stage: stage, err: err}

	var dnsErr *net.DNSError
	var protoErr *textproto.Error
	var netErr net.Error

	switch {
	case errors.As(err, &dnsErr):
		// Resolution will not start working again within this process.
		out.kind = outcomeDegraded
	case errors.As(err, &protoErr):
		if stage == StageAuthenticate && isAuthFailure(protoErr.Code) {
			out.kind = outcomeFatal
		} else {
			out.kind = outcomeTransient
		}
	case errors.As(err, &netErr),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, syscall.ECONNRESET),
		errors.Is(err, syscall.ECONNREFUSED),
		errors.Is(err, syscall.EPIPE):
		out.kind = outcomeTransient
	default:
		out.kind = outcomeFatal
	}

	return out
}

// isAuthFailure reports SMTP replies that mean the credentials were rejected.
func isAuthFailure(code int) bool {
	switch code {
	case 530, 534, 535:
		return true
	}
	return false
}
