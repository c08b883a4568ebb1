package skein

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Digest returns the hex-encoded BLAKE2b-256 hash of the shape of a
// document. Documents with the same node shape hash equally regardless of
// the session keys they were written with or the codec they came from.
func Digest(v Value) (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("failed to create hasher: %w", err)
	}
	if err := writeCanonical(h, Shape(v)); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// writeCanonical feeds a tag-length-value rendering of v to h.
func writeCanonical(h hash.Hash, v Value) error {
	var n [8]byte
	writeLen := func(tag byte, l int) {
		binary.BigEndian.PutUint64(n[:], uint64(l))
		h.Write([]byte{tag})
		h.Write(n[:])
	}

	switch t := v.(type) {
	case nil:
		h.Write([]byte{'n'})
	case bool:
		if t {
			h.Write([]byte{'t'})
		} else {
			h.Write([]byte{'f'})
		}
	case string:
		writeLen('s', len(t))
		h.Write([]byte(t))
	case Number:
		writeLen('d', len(t))
		h.Write([]byte(t))
	case Array:
		writeLen('a', len(t))
		for _, e := range t {
			if err := writeCanonical(h, e); err != nil {
				return err
			}
		}
	case *Object:
		writeLen('o', t.Len())
		for _, m := range t.Members() {
			writeLen('k', len(m.Name))
			h.Write([]byte(m.Name))
			if err := writeCanonical(h, m.Value); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unsupported document value %T", v)
	}
	return nil
}
