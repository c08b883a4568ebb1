package skein

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestEmitProcessorCreated(_ *testing.T) {
	// Should not panic
	emitProcessorCreated(context.Background(), "application/json")
}

func TestEmitTypeRegistered(_ *testing.T) {
	emitTypeRegistered(context.Background(), "User", ClassStrong.String())
}

func TestEmitEncode(_ *testing.T) {
	ctx := context.Background()
	emitEncodeStart(ctx, "application/json", "session-1")
	emitEncodeComplete(ctx, "application/json", "session-1", 256, 3*time.Millisecond, sessionStats{full: 3, backrefs: 4}, nil)
	emitEncodeComplete(ctx, "application/json", "session-1", 0, time.Millisecond, sessionStats{}, errors.New("test error"))
}

func TestEmitDecode(_ *testing.T) {
	ctx := context.Background()
	emitDecodeStart(ctx, "application/yaml", "session-2", 512)
	emitDecodeComplete(ctx, "application/yaml", "session-2", 2*time.Millisecond, sessionStats{full: 2, backrefs: 1}, nil)
	emitDecodeComplete(ctx, "application/yaml", "session-2", time.Millisecond, sessionStats{}, errors.New("test error"))
}

func TestSignalVariables(t *testing.T) {
	signals := []struct {
		name   string
		signal interface{}
	}{
		{"SignalProcessorCreated", SignalProcessorCreated},
		{"SignalTypeRegistered", SignalTypeRegistered},
		{"SignalEncodeStart", SignalEncodeStart},
		{"SignalEncodeComplete", SignalEncodeComplete},
		{"SignalDecodeStart", SignalDecodeStart},
		{"SignalDecodeComplete", SignalDecodeComplete},
	}

	for _, s := range signals {
		if s.signal == nil {
			t.Errorf("%s is nil", s.name)
		}
	}
}

func TestKeyVariables(t *testing.T) {
	keys := []struct {
		name string
		key  interface{}
	}{
		{"KeyContentType", KeyContentType},
		{"KeyTypeName", KeyTypeName},
		{"KeyClass", KeyClass},
		{"KeySession", KeySession},
		{"KeySize", KeySize},
		{"KeyDuration", KeyDuration},
		{"KeyFullCount", KeyFullCount},
		{"KeyBackrefCount", KeyBackrefCount},
		{"KeyError", KeyError},
	}

	for _, k := range keys {
		if k.key == nil {
			t.Errorf("%s is nil", k.name)
		}
	}
}
