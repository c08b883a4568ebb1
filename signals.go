package skein

import (
	"context"
	"time"

	"github.com/zoobzio/capitan"
)

// Signals for codec events.
var (
	SignalProcessorCreated = capitan.NewSignal("skein.processor.created", "Processor instantiated")
	SignalTypeRegistered   = capitan.NewSignal("skein.schema.registered", "Entity type added to a schema")
	SignalEncodeStart      = capitan.NewSignal("skein.encode.start", "Encode operation beginning")
	SignalEncodeComplete   = capitan.NewSignal("skein.encode.complete", "Encode operation finished")
	SignalDecodeStart      = capitan.NewSignal("skein.decode.start", "Decode operation beginning")
	SignalDecodeComplete   = capitan.NewSignal("skein.decode.complete", "Decode operation finished")
)

// Keys for typed event data.
var (
	KeyContentType  = capitan.NewStringKey("content_type")
	KeyTypeName     = capitan.NewStringKey("type_name")
	KeyClass        = capitan.NewStringKey("class")
	KeySession      = capitan.NewStringKey("session")
	KeySize         = capitan.NewIntKey("size")
	KeyDuration     = capitan.NewDurationKey("duration")
	KeyFullCount    = capitan.NewIntKey("full_count")
	KeyBackrefCount = capitan.NewIntKey("backref_count")
	KeyError        = capitan.NewErrorKey("error")
)

func emitProcessorCreated(ctx context.Context, contentType string) {
	capitan.Emit(ctx, SignalProcessorCreated,
		KeyContentType.Field(contentType),
	)
}

func emitTypeRegistered(ctx context.Context, typeName, class string) {
	capitan.Emit(ctx, SignalTypeRegistered,
		KeyTypeName.Field(typeName),
		KeyClass.Field(class),
	)
}

// emitEncodeStart emits an event when an encode call begins.
func emitEncodeStart(ctx context.Context, contentType, session string) {
	capitan.Emit(ctx, SignalEncodeStart,
		KeyContentType.Field(contentType),
		KeySession.Field(session),
	)
}

// emitEncodeComplete emits an event when an encode call finishes.
func emitEncodeComplete(ctx context.Context, contentType, session string, size int, duration time.Duration, st sessionStats, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySession.Field(session),
		KeySize.Field(size),
		KeyDuration.Field(duration),
		KeyFullCount.Field(st.full),
		KeyBackrefCount.Field(st.backrefs),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalEncodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalEncodeComplete, fields...)
	}
}

// emitDecodeStart emits an event when a decode call begins.
func emitDecodeStart(ctx context.Context, contentType, session string, size int) {
	capitan.Emit(ctx, SignalDecodeStart,
		KeyContentType.Field(contentType),
		KeySession.Field(session),
		KeySize.Field(size),
	)
}

// emitDecodeComplete emits an event when a decode call finishes.
func emitDecodeComplete(ctx context.Context, contentType, session string, duration time.Duration, st sessionStats, err error) {
	fields := []capitan.Field{
		KeyContentType.Field(contentType),
		KeySession.Field(session),
		KeyDuration.Field(duration),
		KeyFullCount.Field(st.full),
		KeyBackrefCount.Field(st.backrefs),
	}
	if err != nil {
		fields = append(fields, KeyError.Field(err))
		capitan.Error(ctx, SignalDecodeComplete, fields...)
	} else {
		capitan.Emit(ctx, SignalDecodeComplete, fields...)
	}
}
