package skein

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// DefaultTimeLayout is the layout used for date-time fields.
const DefaultTimeLayout = "2006-01-02 15:04:05"

// DurationFormat selects the text form of duration fields.
type DurationFormat int

const (
	// DurationGo uses time.Duration.String and time.ParseDuration, e.g. "1h30m0s".
	DurationGo DurationFormat = iota
	// DurationClock uses [-][d.]hh:mm:ss[.fffffffff], e.g. "1.02:30:00".
	DurationClock
)

// Option configures a Processor.
type Option func(*Processor)

// WithTimeLayout sets the layout for date-time fields.
func WithTimeLayout(layout string) Option {
	return func(p *Processor) { p.layout = layout }
}

// WithLocation sets the location date-time fields are written in and
// parsed in. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(p *Processor) { p.loc = loc }
}

// WithDurationFormat sets the text form of duration fields.
func WithDurationFormat(f DurationFormat) Option {
	return func(p *Processor) { p.durations = f }
}

// WithResolver replaces the schema as the discriminator resolver used
// while decoding.
func WithResolver(r TypeResolver) Option {
	return func(p *Processor) { p.resolver = r }
}

// Processor encodes and decodes entity graphs for one schema and codec.
//
// Every call runs its own session, so a Processor is safe for concurrent
// use. Keys are drawn from a counter owned by the Processor and keep
// increasing across calls.
type Processor struct {
	schema    *Schema
	codec     Codec
	resolver  TypeResolver
	layout    string
	loc       *time.Location
	durations DurationFormat

	keys atomic.Int64
}

// NewProcessor creates a Processor bound to a schema and a codec.
func NewProcessor(schema *Schema, codec Codec, opts ...Option) (*Processor, error) {
	if schema == nil {
		return nil, errors.New("skein: nil schema")
	}
	if codec == nil {
		return nil, errors.New("skein: nil codec")
	}
	p := &Processor{
		schema:   schema,
		codec:    codec,
		resolver: schema,
		layout:   DefaultTimeLayout,
		loc:      time.UTC,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.layout == "" {
		return nil, errors.New("skein: empty time layout")
	}
	if p.loc == nil {
		return nil, errors.New("skein: nil location")
	}
	if p.resolver == nil {
		return nil, errors.New("skein: nil type resolver")
	}
	if p.durations != DurationGo && p.durations != DurationClock {
		return nil, fmt.Errorf("skein: unknown duration format %d", p.durations)
	}

	emitProcessorCreated(context.Background(), codec.ContentType())
	return p, nil
}

// Schema returns the schema the processor was built with.
func (p *Processor) Schema() *Schema { return p.schema }

// Codec returns the codec the processor was built with.
func (p *Processor) Codec() Codec { return p.codec }

// nextKey hands out the next session key.
func (p *Processor) nextKey() int64 {
	return p.keys.Add(1) - 1
}

// sessionStats counts the nodes one call wrote or read.
type sessionStats struct {
	full     int
	backrefs int
}

// Encode renders root as text. Root is a record, a slice or array of
// records, or a map with string keys whose values are records or slices
// of records. A nil root encodes as null.
func (p *Processor) Encode(ctx context.Context, root any) ([]byte, error) {
	start := time.Now()
	session := uuid.NewString()
	emitEncodeStart(ctx, p.codec.ContentType(), session)

	enc := p.newEncoder()
	tree, err := enc.root(root)
	var data []byte
	if err == nil {
		data, err = p.codec.Marshal(tree)
		if err != nil {
			err = asCodecError(ErrMarshal, err)
		}
	}

	emitEncodeComplete(ctx, p.codec.ContentType(), session, len(data), time.Since(start), enc.stats, err)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// EncodeValue builds the document tree for root without rendering it.
func (p *Processor) EncodeValue(root any) (Value, error) {
	return p.newEncoder().root(root)
}

// Decode parses data into out, which must be a non-nil pointer to a
// record, a slice of records, or a map with string keys whose values are
// records or slices of records. out is only written when decoding succeeds.
func (p *Processor) Decode(ctx context.Context, data []byte, out any) error {
	start := time.Now()
	session := uuid.NewString()
	emitDecodeStart(ctx, p.codec.ContentType(), session, len(data))

	dec := p.newDecoder(false)
	tree, err := p.codec.Unmarshal(data)
	if err != nil {
		err = asCodecError(ErrUnmarshal, err)
	} else {
		err = dec.into(tree, out)
	}

	emitDecodeComplete(ctx, p.codec.ContentType(), session, time.Since(start), dec.stats, err)
	return err
}

// DecodeValue decodes an already parsed document tree into out.
func (p *Processor) DecodeValue(v Value, out any) error {
	return p.newDecoder(false).into(v, out)
}

// DecodeGraph parses data and returns its records as an index-addressed
// graph. The top-level shape is taken from the document: an array is a
// list of roots, an object with a Key member is a single root, any other
// object maps labels to roots or lists of roots.
func (p *Processor) DecodeGraph(ctx context.Context, data []byte) (*Graph, error) {
	start := time.Now()
	session := uuid.NewString()
	emitDecodeStart(ctx, p.codec.ContentType(), session, len(data))

	dec := p.newDecoder(true)
	var g *Graph
	tree, err := p.codec.Unmarshal(data)
	if err != nil {
		err = asCodecError(ErrUnmarshal, err)
	} else {
		g, err = dec.graph(tree)
	}

	emitDecodeComplete(ctx, p.codec.ContentType(), session, time.Since(start), dec.stats, err)
	if err != nil {
		return nil, err
	}
	return g, nil
}

func asCodecError(sentinel, err error) error {
	var ce *CodecError
	if errors.As(err, &ce) {
		return err
	}
	return newCodecError(sentinel, err)
}
