package authcore

import (
	"io"

	"github.com/rs/zerolog"

	internalaudit "github.com/MrEthical07/authcore/internal/audit"
)

type (
	// AuditEvent is one recorded authentication decision.
	AuditEvent = internalaudit.Event
	// AuditSink consumes audit events delivered by the engine's dispatcher.
	AuditSink      = internalaudit.Sink
	NoOpSink       = internalaudit.NoOpSink
	ChannelSink    = internalaudit.ChannelSink
	JSONWriterSink = internalaudit.JSONWriterSink
	LogSink        = internalaudit.LogSink
)

const (
	AuditEventRegister   = internalaudit.EventRegister
	AuditEventLogin      = internalaudit.EventLogin
	AuditEventVerify     = internalaudit.EventVerify
	AuditEventGateReject = internalaudit.EventGateReject
)

func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

func NewLogSink(logger zerolog.Logger) *LogSink {
	return internalaudit.NewLogSink(logger)
}
