// Package skein serializes object graphs of entities to text and back,
// preserving shared references, cycles and inheritance.
//
// Each entity is written in full the first time it is reached and as a
// back-reference to its session key afterwards:
//
//	{"Type":"User","Key":0,"Properties":{"Name":"Ryan","BestFriend":{"Key":0}}}
//
// A sub entity writes its own fields and nests the fields of its parent
// type in a continuation node named after the parent:
//
//	{"Type":"Student","Key":0,"Properties":{
//	    "RegistrationNumber":"E1066934",
//	    "User":{"Type":"User","Key":1,"Properties":{"ID":1,"Name":"Lojzi"}}}}
//
// # Entities
//
// Entity types are structs embedding Entity, directly or through another
// entity type. Embedding expresses inheritance: the first type below
// Entity is strong, types below a strong type are sub types. Types marked
// with AsMarker are skipped on the wire.
//
//	type User struct {
//	    skein.Entity
//	    Name       string
//	    BestFriend *User
//	    Friends    []*User
//	}
//
//	type Student struct {
//	    User
//	    RegistrationNumber *string
//	}
//
// # Schema
//
// A Schema maps Go types to wire names and lists the fields of each level.
// Register reads exported fields in declaration order:
//
//	s := skein.NewSchema()
//	skein.MustRegister[User](s)
//	skein.MustRegister[Student](s)
//
// Fields can also be registered one at a time with RegisterField.
//
// # Processing
//
// A Processor pairs a Schema with a Codec and is safe for concurrent use:
//
//	p, _ := skein.NewProcessor(s, json.New())
//	data, _ := p.Encode(ctx, students)
//
//	var out []*Student
//	err := p.Decode(ctx, data, &out)
//
// Decoding is all or nothing: on error out is left untouched. Failures
// match ErrSchema, ErrFormat, ErrTypeResolution, ErrCoercion, ErrMarshal
// or ErrUnmarshal with errors.Is.
//
// # Codecs
//
//   - json - JSON documents (application/json)
//   - yaml - YAML documents (application/yaml)
//
// # Document tools
//
// Shape, Digest and Inspect work on document trees without a schema.
// Schema.Equal compares two graphs structurally, and DecodeGraph returns
// decoded records as an index-addressed Graph.
//
// # Observability
//
// Processors emit capitan signals for every encode and decode session, and
// Schemas emit one when a type is registered.
package skein
