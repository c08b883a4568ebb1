package skein

import (
	"errors"
	"reflect"
	"testing"
)

type taggedUser struct {
	Entity
	Name     string
	Password string  `skein:",hidden"`
	Nick     *string `skein:"Nickname"`
	Alias    string  `skein:"Handle,hidden"`
	Cache    []byte  `skein:"-"`
	internal string
}

type taggedStudent struct {
	taggedUser
	Year int
}

type badField struct {
	Entity
	Pipe chan int
}

func TestParseTag(t *testing.T) {
	tests := []struct {
		tag    string
		name   string
		hidden bool
		skip   bool
	}{
		{"", "Field", false, false},
		{"-", "", false, true},
		{"Renamed", "Renamed", false, false},
		{",hidden", "Field", true, false},
		{"Renamed,hidden", "Renamed", true, false},
		{"Renamed, hidden", "Renamed", true, false},
		{",other", "Field", false, false},
	}
	for _, tt := range tests {
		name, hidden, skip := parseTag("Field", tt.tag)
		if name != tt.name || hidden != tt.hidden || skip != tt.skip {
			t.Errorf("parseTag(%q) = %q, %v, %v, want %q, %v, %v",
				tt.tag, name, hidden, skip, tt.name, tt.hidden, tt.skip)
		}
	}
}

func TestRegister(t *testing.T) {
	s := NewSchema()
	if err := Register[taggedStudent](s); err != nil {
		t.Fatalf("Register() error: %v", err)
	}

	// Ancestors come in without fields until registered themselves.
	fields, _ := s.Fields(reflect.TypeFor[taggedStudent](), true, true)
	if got := fieldNames(fields); got != "Year,ID" {
		t.Errorf("Fields() = %s, want Year,ID", got)
	}

	MustRegister[taggedUser](s)
	visible, _ := s.Fields(reflect.TypeFor[taggedUser](), false, false)
	if got := fieldNames(visible); got != "ID,Name,Nickname" {
		t.Errorf("visible fields = %s, want ID,Name,Nickname", got)
	}
	all, _ := s.Fields(reflect.TypeFor[taggedUser](), false, true)
	if got := fieldNames(all); got != "ID,Name,Password,Nickname,Handle" {
		t.Errorf("all fields = %s, want ID,Name,Password,Nickname,Handle", got)
	}
	for _, f := range all {
		if f.Name == "Nickname" && f.GoName != "Nick" {
			t.Errorf("Nickname GoName = %s, want Nick", f.GoName)
		}
		if f.Name == "Handle" && !f.Hidden {
			t.Error("Handle should be hidden")
		}
	}

	if err := Register[taggedUser](s); err != nil {
		t.Errorf("Register() again error: %v", err)
	}
}

func TestRegister_FieldLayout(t *testing.T) {
	s := NewSchema()
	MustRegister[taggedUser](s)

	fields, _ := s.Fields(reflect.TypeFor[taggedUser](), false, true)
	want := map[string]struct {
		index  []int
		goType reflect.Type
	}{
		"Name":     {[]int{1}, reflect.TypeFor[string]()},
		"Nickname": {[]int{3}, reflect.TypeFor[*string]()},
		"Handle":   {[]int{4}, reflect.TypeFor[string]()},
	}
	for _, f := range fields {
		w, ok := want[f.Name]
		if !ok {
			continue
		}
		if !reflect.DeepEqual(f.index, w.index) || f.GoType != w.goType {
			t.Errorf("%s = index %v type %v, want index %v type %v", f.Name, f.index, f.GoType, w.index, w.goType)
		}
	}
}

func TestRegister_SameNameTypes(t *testing.T) {
	func() {
		type dup struct {
			Entity
			A string
		}
		if err := Register[dup](NewSchema()); err != nil {
			t.Fatalf("Register(first dup) error: %v", err)
		}
	}()
	func() {
		type dup struct {
			Entity
			B int
		}
		if err := Register[dup](NewSchema()); !errors.Is(err, ErrSchema) {
			t.Errorf("Register(second dup) error = %v, want ErrSchema", err)
		}
	}()
}

func TestRegister_Marker(t *testing.T) {
	s := NewSchema()
	if err := Register[regMarker](s, AsMarker()); err != nil {
		t.Fatalf("Register(marker) error: %v", err)
	}
	d, err := s.Descriptor(reflect.TypeFor[regMarker]())
	if err != nil || !d.Marker() {
		t.Errorf("Descriptor(marker) = %v, %v, want a marker", d, err)
	}
}

func TestRegister_Errors(t *testing.T) {
	s := NewSchema()

	tests := []struct {
		name string
		fn   func() error
	}{
		{"not a struct", func() error { return Register[int](s) }},
		{"pointer", func() error { return Register[*taggedUser](s) }},
		{"not an entity", func() error { return Register[regPlain](s) }},
		{"unsupported field", func() error { return Register[badField](s) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.fn(); !errors.Is(err, ErrSchema) {
				t.Errorf("Register() error = %v, want ErrSchema", err)
			}
		})
	}

	defer func() {
		if recover() == nil {
			t.Error("MustRegister() should panic")
		}
	}()
	MustRegister[regPlain](s)
}
