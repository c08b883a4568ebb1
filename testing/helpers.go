// Package testing provides entity fixtures and graph builders for skein tests.
package testing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/zoobzio/skein"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T { return &v }

// ID returns an Entity carrying id.
func ID(id int) skein.Entity {
	return skein.Entity{ID: &id}
}

// UserType is an enum field type.
type UserType int

const (
	UserAdmin UserType = iota + 1
	UserEditor
)

// Sample holds one field of every scalar type.
type Sample struct {
	skein.Entity
	String   *string
	Int      *int
	Long     *int64
	Float    *float32
	Double   *float64
	Decimal  *decimal.Decimal
	Enum     *UserType
	Bool     *bool
	DateTime *time.Time
	TimeSpan *time.Duration
	Count    uint16
	Secret   string `skein:",hidden"`
	Scratch  string `skein:"-"`
}

// Member is implemented by User and every type embedding it.
type Member interface {
	skein.Record
	Account() *User
}

// Address is a strong entity listing the users living there.
type Address struct {
	skein.Entity
	Street string
	Users  []Member
}

// Vehicle is a non-persisted marker level above Car.
type Vehicle struct {
	skein.Entity
}

// Car is a strong entity below the Vehicle marker.
type Car struct {
	Vehicle
	Brand string
	Owner Member
}

// User is a strong entity with single and list references.
type User struct {
	skein.Entity
	Name         string
	Address      *Address
	Car          *Car
	BestFriend   Member
	BestFriendTo []Member
}

// Account returns the User level of a member.
func (u *User) Account() *User { return u }

// Student is a sub entity one level below User.
type Student struct {
	User
	RegistrationNumber *string
}

// Teacher is a sub entity with no fields of its own.
type Teacher struct {
	User
}

// Graduate is a sub entity two levels below User.
type Graduate struct {
	Student
	Thesis *string `skein:"ThesisTitle"`
}

// NewSchema returns a schema with every fixture type registered.
func NewSchema() *skein.Schema {
	s := skein.NewSchema()
	skein.MustRegister[Vehicle](s, skein.AsMarker())
	skein.MustRegister[Address](s)
	skein.MustRegister[User](s)
	skein.MustRegister[Car](s)
	skein.MustRegister[Student](s)
	skein.MustRegister[Teacher](s)
	skein.MustRegister[Graduate](s)
	skein.MustRegister[Sample](s)
	return s
}

// Samples returns records covering every scalar type, with values, nulls
// and negative numbers.
func Samples() []*Sample {
	return []*Sample{
		{
			Entity:   ID(123),
			String:   Ptr("This is some text"),
			Int:      Ptr(45678),
			Long:     Ptr(int64(9007199254740993)),
			Float:    Ptr(float32(90.12)),
			Double:   Ptr(345.6789),
			Decimal:  Ptr(decimal.RequireFromString("10.234")),
			Enum:     Ptr(UserAdmin),
			Bool:     Ptr(true),
			DateTime: Ptr(time.Date(2017, 5, 27, 0, 12, 0, 0, time.UTC)),
			TimeSpan: Ptr(13 * time.Minute),
			Count:    7,
			Secret:   "hunter2",
		},
		{
			Enum:     Ptr(UserEditor),
			Bool:     Ptr(false),
			DateTime: Ptr(time.Date(2017, 5, 27, 0, 0, 0, 0, time.UTC)),
		},
		{
			Entity:  ID(-123),
			String:  Ptr("This is some text again"),
			Int:     Ptr(-45678),
			Float:   Ptr(float32(-90.12)),
			Double:  Ptr(-345.6789),
			Decimal: Ptr(decimal.RequireFromString("-10.234")),
		},
	}
}

// Friends returns three users with addresses, cars, and best friend links
// forming cycles.
func Friends() []*User {
	rapture := &Address{Entity: ID(1), Street: "Rapture"}
	gotham := &Address{Entity: ID(2), Street: "Gotham"}
	citadel := &Address{Entity: ID(3), Street: "Citadel"}

	ryan := &User{Entity: ID(1), Name: "Ryan", Address: rapture, BestFriendTo: []Member{}}
	bruce := &User{Entity: ID(2), Name: "Bruce", Address: gotham, BestFriend: ryan, BestFriendTo: []Member{}}
	john := &User{Entity: ID(3), Name: "John", Address: citadel, BestFriend: ryan, BestFriendTo: []Member{ryan}}
	ryan.BestFriend = john
	ryan.BestFriendTo = append(ryan.BestFriendTo, bruce, john)

	rapture.Users = []Member{ryan}
	gotham.Users = []Member{bruce}
	citadel.Users = []Member{john}

	ryan.Car = &Car{Vehicle: Vehicle{Entity: ID(1)}, Brand: "Ford", Owner: ryan}
	bruce.Car = &Car{Vehicle: Vehicle{Entity: ID(2)}, Brand: "Tank", Owner: bruce}
	john.Car = &Car{Vehicle: Vehicle{Entity: ID(3)}, Brand: "Normandy", Owner: john}

	return []*User{ryan, bruce, john}
}

// FriendCycle returns three users linked A→B→C→A through BestFriend, with
// BestFriendTo holding the back edges. It has no other records.
func FriendCycle() []*User {
	a := &User{Entity: ID(1), Name: "A"}
	b := &User{Entity: ID(2), Name: "B"}
	c := &User{Entity: ID(3), Name: "C"}
	a.BestFriend, b.BestFriend, c.BestFriend = b, c, a
	a.BestFriendTo = []Member{c}
	b.BestFriendTo = []Member{a}
	c.BestFriendTo = []Member{b}
	return []*User{a, b, c}
}

// Classroom returns two students and a teacher, each living at an address
// that lists them back.
func Classroom() []Member {
	ljubljana := &Address{Entity: ID(1), Street: "Ljubljana"}
	maribor := &Address{Entity: ID(2), Street: "Maribor"}
	celje := &Address{Entity: ID(3), Street: "Celje"}

	lojzi := &Student{
		User:               User{Entity: ID(1), Name: "Lojzi", Address: ljubljana},
		RegistrationNumber: Ptr("E1066934"),
	}
	tadej := &Student{
		User:               User{Entity: ID(2), Name: "Tadej", Address: maribor},
		RegistrationNumber: Ptr("E1068321"),
	}
	grega := &Teacher{
		User: User{Entity: ID(3), Name: "Grega", Address: celje},
	}

	ljubljana.Users = []Member{lojzi}
	maribor.Users = []Member{tadej}
	celje.Users = []Member{grega}
	return []Member{lojzi, tadej, grega}
}

// Graduates returns a graduate whose best friend is itself, exercising a
// self cycle across two inheritance steps.
func Graduates() []Member {
	g := &Graduate{
		Student: Student{
			User:               User{Entity: ID(9), Name: "Ana"},
			RegistrationNumber: Ptr("E2000001"),
		},
		Thesis: Ptr("Graph codecs"),
	}
	g.BestFriend = g
	return []Member{g}
}
