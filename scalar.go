package skein

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// formatScalar renders a scalar field. The second result is false when the
// field is null and must be omitted.
func (p *Processor) formatScalar(f *Field, v reflect.Value) (Value, bool, error) {
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false, nil
		}
		v = v.Elem()
	}

	switch f.Type {
	case TypeString:
		return v.String(), true, nil
	case TypeInteger, TypeLong, TypeEnum:
		if v.CanInt() {
			return IntNumber(v.Int()), true, nil
		}
		return UintNumber(v.Uint()), true, nil
	case TypeFloat:
		n, err := FloatNumber(v.Float(), 32)
		return n, err == nil, err
	case TypeDouble:
		n, err := FloatNumber(v.Float(), 64)
		return n, err == nil, err
	case TypeDecimal:
		d := v.Interface().(decimal.Decimal)
		return FloatLiteral(d.String()), true, nil
	case TypeBoolean:
		return v.Bool(), true, nil
	case TypeDateTime:
		t := v.Interface().(time.Time)
		return t.In(p.loc).Format(p.layout), true, nil
	case TypeDuration:
		return p.formatDuration(time.Duration(v.Int())), true, nil
	}
	return nil, false, newSchemaError(f.Owner.String(), f.Name, "not a scalar field")
}

// coerceScalar converts a raw token to the declared type of f and stores it
// in dst. Null resets dst to its zero value.
func (p *Processor) coerceScalar(f *Field, raw Value, dst reflect.Value, path string) error {
	if raw == nil {
		dst.SetZero()
		return nil
	}

	target := dst
	if dst.Kind() == reflect.Pointer {
		target = reflect.New(dst.Type().Elem()).Elem()
	}

	fail := func(cause error) error {
		return &CoercionError{Path: path, Field: f.Name, Type: f.Type, Token: tokenName(raw), Cause: cause}
	}

	switch f.Type {
	case TypeString:
		s, ok := raw.(string)
		if !ok {
			return fail(nil)
		}
		target.SetString(s)

	case TypeDateTime:
		s, ok := raw.(string)
		if !ok {
			return fail(nil)
		}
		t, err := time.ParseInLocation(p.layout, s, p.loc)
		if err != nil {
			return fail(err)
		}
		target.Set(reflect.ValueOf(t))

	case TypeDuration:
		s, ok := raw.(string)
		if !ok {
			return fail(nil)
		}
		d, err := p.parseDuration(s)
		if err != nil {
			return fail(err)
		}
		target.SetInt(int64(d))

	case TypeInteger, TypeLong, TypeEnum:
		n, ok := raw.(Number)
		if !ok || !n.IsInteger() {
			return fail(nil)
		}
		if target.CanInt() {
			i, err := n.Int64()
			if err != nil {
				return fail(err)
			}
			if target.OverflowInt(i) {
				return fail(fmt.Errorf("%s overflows %s", n, target.Type()))
			}
			target.SetInt(i)
		} else {
			u, err := n.Uint64()
			if err != nil {
				return fail(err)
			}
			if target.OverflowUint(u) {
				return fail(fmt.Errorf("%s overflows %s", n, target.Type()))
			}
			target.SetUint(u)
		}

	case TypeFloat, TypeDouble:
		n, ok := raw.(Number)
		if !ok || n.IsInteger() {
			return fail(nil)
		}
		x, err := n.Float64()
		if err != nil {
			return fail(err)
		}
		if target.OverflowFloat(x) {
			return fail(fmt.Errorf("%s overflows %s", n, target.Type()))
		}
		target.SetFloat(x)

	case TypeDecimal:
		n, ok := raw.(Number)
		if !ok || n.IsInteger() {
			return fail(nil)
		}
		d, err := decimal.NewFromString(string(n))
		if err != nil {
			return fail(err)
		}
		target.Set(reflect.ValueOf(d))

	case TypeBoolean:
		b, ok := raw.(bool)
		if !ok {
			return fail(nil)
		}
		target.SetBool(b)

	default:
		return newSchemaError(f.Owner.String(), f.Name, "not a scalar field")
	}

	if dst.Kind() == reflect.Pointer {
		dst.Set(target.Addr())
	}
	return nil
}

func (p *Processor) formatDuration(d time.Duration) string {
	if p.durations == DurationClock {
		return FormatClock(d)
	}
	return d.String()
}

func (p *Processor) parseDuration(s string) (time.Duration, error) {
	if p.durations == DurationClock {
		return ParseClock(s)
	}
	return time.ParseDuration(s)
}

var errClockSyntax = errors.New("invalid clock duration")

// FormatClock renders d as [-][d.]hh:mm:ss[.fffffffff]. Trailing zeros of
// the fraction are dropped.
func FormatClock(d time.Duration) string {
	var b strings.Builder
	// Work in uint64 so the minimum duration negates cleanly.
	u := uint64(d)
	if d < 0 {
		b.WriteByte('-')
		u = -u
	}

	const day = uint64(24 * time.Hour)
	days := u / day
	u %= day
	hours := u / uint64(time.Hour)
	u %= uint64(time.Hour)
	minutes := u / uint64(time.Minute)
	u %= uint64(time.Minute)
	seconds := u / uint64(time.Second)
	nanos := u % uint64(time.Second)

	if days > 0 {
		b.WriteString(strconv.FormatUint(days, 10))
		b.WriteByte('.')
	}
	fmt.Fprintf(&b, "%02d:%02d:%02d", hours, minutes, seconds)
	if nanos > 0 {
		frac := fmt.Sprintf("%09d", nanos)
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(frac, "0"))
	}
	return b.String()
}

// ParseClock parses the output of FormatClock.
func ParseClock(s string) (time.Duration, error) {
	orig := s
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var days uint64
	if i := strings.IndexByte(s, '.'); i >= 0 && i < strings.IndexByte(s, ':') {
		n, err := strconv.ParseUint(s[:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q", errClockSyntax, orig)
		}
		days = n
		s = s[i+1:]
	}

	var nanos uint64
	if i := strings.IndexByte(s, '.'); i >= 0 {
		frac := s[i+1:]
		if frac == "" || len(frac) > 9 {
			return 0, fmt.Errorf("%w %q", errClockSyntax, orig)
		}
		n, err := strconv.ParseUint(frac+strings.Repeat("0", 9-len(frac)), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w %q", errClockSyntax, orig)
		}
		nanos = n
		s = s[:i]
	}

	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("%w %q", errClockSyntax, orig)
	}
	limits := [3]uint64{24, 60, 60}
	var hms [3]uint64
	for i, part := range parts {
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil || len(part) != 2 || n >= limits[i] {
			return 0, fmt.Errorf("%w %q", errClockSyntax, orig)
		}
		hms[i] = n
	}

	total := days*uint64(24*time.Hour) +
		hms[0]*uint64(time.Hour) +
		hms[1]*uint64(time.Minute) +
		hms[2]*uint64(time.Second) +
		nanos
	if days > uint64(1<<63)/uint64(24*time.Hour) || total > 1<<63 || (!neg && total == 1<<63) {
		return 0, fmt.Errorf("%w %q: out of range", errClockSyntax, orig)
	}
	if neg {
		return time.Duration(-total), nil
	}
	return time.Duration(total), nil
}
