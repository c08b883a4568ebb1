package skein

// Codec converts between document trees and their text representation.
//
// A Codec only deals with syntax: objects, arrays and scalars. Entity
// semantics (keys, back-references, inheritance) live in the Processor.
type Codec interface {
	// ContentType returns the MIME type for this codec (e.g., "application/json").
	ContentType() string

	// Marshal renders a document tree.
	Marshal(v Value) ([]byte, error)

	// Unmarshal parses data into a document tree. Numeric tokens must be
	// returned as Number with their literal text preserved.
	Unmarshal(data []byte) (Value, error)
}
