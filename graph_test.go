package skein_test

import (
	"context"
	"errors"
	"testing"

	"github.com/zoobzio/skein"
	skeintest "github.com/zoobzio/skein/testing"
)

func TestDecodeGraph_Cycle(t *testing.T) {
	ctx := context.Background()
	p := newProcessor(t)

	data, err := p.Encode(ctx, skeintest.FriendCycle())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	g, err := p.DecodeGraph(ctx, data)
	if err != nil {
		t.Fatalf("DecodeGraph() error: %v", err)
	}

	if len(g.Nodes) != 3 {
		t.Fatalf("Nodes = %d, want 3", len(g.Nodes))
	}
	if len(g.Roots) != 3 || g.Roots[0] != 0 || g.Roots[1] != 1 || g.Roots[2] != 2 {
		t.Errorf("Roots = %v, want [0 1 2]", g.Roots)
	}
	if len(g.Links) != 6 {
		t.Errorf("Links = %d, want 6", len(g.Links))
	}
	for i, want := range []string{"A", "B", "C"} {
		u := g.Nodes[i].(*skeintest.User)
		if u.Name != want {
			t.Errorf("Nodes[%d].Name = %s, want %s", i, u.Name, want)
		}
		if g.Type(i) != "User" {
			t.Errorf("Type(%d) = %s, want User", i, g.Type(i))
		}
		if idx, ok := g.Index(u); !ok || idx != i {
			t.Errorf("Index(Nodes[%d]) = %d, %v", i, idx, ok)
		}
	}

	out := g.Outgoing(0)
	want := []skein.Link{
		{From: 0, To: 1, Field: "BestFriend", Position: -1},
		{From: 0, To: 2, Field: "BestFriendTo", Position: 0},
	}
	if len(out) != len(want) {
		t.Fatalf("Outgoing(0) = %v, want %v", out, want)
	}
	for i := range want {
		if out[i] != want[i] {
			t.Errorf("Outgoing(0)[%d] = %+v, want %+v", i, out[i], want[i])
		}
	}

	in := g.Incoming(0)
	if len(in) != 2 {
		t.Errorf("Incoming(0) = %v, want 2 links", in)
	}
	for _, l := range in {
		if l.To != 0 {
			t.Errorf("Incoming(0) holds %+v", l)
		}
	}

	a := g.Nodes[0].(*skeintest.User)
	if a.BestFriend.Account().BestFriend.Account().BestFriend != skein.Record(a) {
		t.Error("decoded cycle does not return to its start")
	}

	if _, ok := g.Index(&skeintest.User{}); ok {
		t.Error("Index() of a foreign record should fail")
	}
}

func TestDecodeGraph_Shapes(t *testing.T) {
	ctx := context.Background()
	p := newProcessor(t)

	tests := []struct {
		name   string
		data   string
		nodes  int
		roots  []int
		labels []string
		types  []string
	}{
		{
			name:   "single root",
			data:   `{"Type":"Address","Key":0,"Properties":{"Street":"Main"}}`,
			nodes:  1,
			roots:  []int{0},
			labels: []string{""},
			types:  []string{"Address"},
		},
		{
			name:  "null",
			data:  `null`,
			nodes: 0,
		},
		{
			name:   "list with nulls",
			data:   `[null,{"Type":"User","Key":0,"Properties":{}},{"Key":0}]`,
			nodes:  1,
			roots:  []int{0, 0},
			labels: []string{"", ""},
			types:  []string{"User"},
		},
		{
			name: "labelled map",
			data: `{"owner":{"Type":"Student","Key":0,"Properties":{"User":{"Type":"User","Key":1,"Properties":{"Name":"x"}}}},` +
				`"cars":[{"Type":"Car","Key":2,"Properties":{"Owner":{"Key":0}}}],"empty":null}`,
			nodes:  2,
			roots:  []int{0, 1},
			labels: []string{"owner", "cars"},
			types:  []string{"Student", "Car"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := p.DecodeGraph(ctx, []byte(tt.data))
			if err != nil {
				t.Fatalf("DecodeGraph() error: %v", err)
			}
			if len(g.Nodes) != tt.nodes {
				t.Errorf("Nodes = %d, want %d", len(g.Nodes), tt.nodes)
			}
			if len(g.Roots) != len(tt.roots) {
				t.Fatalf("Roots = %v, want %v", g.Roots, tt.roots)
			}
			for i := range tt.roots {
				if g.Roots[i] != tt.roots[i] || g.Labels[i] != tt.labels[i] {
					t.Errorf("root %d = %d %q, want %d %q", i, g.Roots[i], g.Labels[i], tt.roots[i], tt.labels[i])
				}
			}
			for i, typ := range tt.types {
				if g.Type(i) != typ {
					t.Errorf("Type(%d) = %s, want %s", i, g.Type(i), typ)
				}
			}
		})
	}
}

func TestDecodeGraph_ContinuationsShareNode(t *testing.T) {
	ctx := context.Background()
	p := newProcessor(t)

	data, err := p.Encode(ctx, skeintest.Graduates())
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	g, err := p.DecodeGraph(ctx, data)
	if err != nil {
		t.Fatalf("DecodeGraph() error: %v", err)
	}
	if len(g.Nodes) != 1 || g.Type(0) != "Graduate" {
		t.Fatalf("Nodes = %d (%v), want one Graduate", len(g.Nodes), g.Nodes)
	}
	links := g.Outgoing(0)
	if len(links) != 1 || links[0].To != 0 || links[0].Field != "BestFriend" {
		t.Errorf("Outgoing(0) = %+v, want a self BestFriend link", links)
	}
}

func TestDecodeGraph_Errors(t *testing.T) {
	ctx := context.Background()
	p := newProcessor(t)

	tests := []struct {
		name   string
		data   string
		target error
	}{
		{"codec", `{`, skein.ErrUnmarshal},
		{"scalar root", `5`, skein.ErrFormat},
		{"bad node in list", `[{"Type":"User"}]`, skein.ErrFormat},
		{"bad node in map", `{"x":[5]}`, skein.ErrFormat},
		{"unknown type", `{"x":{"Type":"Nope","Key":0,"Properties":{}}}`, skein.ErrTypeResolution},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := p.DecodeGraph(ctx, []byte(tt.data))
			if !errors.Is(err, tt.target) {
				t.Errorf("DecodeGraph() error = %v, want %v", err, tt.target)
			}
			if g != nil {
				t.Error("DecodeGraph() returned a graph alongside an error")
			}
		})
	}
}
