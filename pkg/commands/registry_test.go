package commands

import (
	"context"
	"testing"
)

func noop(ctx context.Context, req CommandRequest) (CommandResponse, error) {
	return CommandResponse{}, nil
}

func TestRegistry_ParseUsesPrefix(t *testing.T) {
	r := NewRegistry("?")
	name, args := r.Parse("  ?Search  lofi beats ")
	if name != "search" || args != "lofi beats" {
		t.Fatalf("unexpected parse: %q %q", name, args)
	}
	if name, _ := r.Parse("!search x"); name != "" {
		t.Fatalf("foreign prefix must not parse, got %q", name)
	}
	if NewRegistry("").Prefix() != DefaultPrefix {
		t.Fatal("empty prefix must fall back to the default")
	}
}

func TestRegistry_Aliases(t *testing.T) {
	r := NewRegistry("!")
	if err := r.Register(&Command{Name: "NowPlaying", Aliases: []string{"NP"}, Handler: noop}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	cmd, ok := r.Get("np")
	if !ok || cmd.Name != "nowplaying" {
		t.Fatalf("alias lookup failed: %+v", cmd)
	}
	if !r.IsCommand("!NP") {
		t.Fatal("IsCommand must resolve aliases")
	}
	if r.IsCommand("!unknown") || r.IsCommand("np") {
		t.Fatal("unexpected command match")
	}
}

func TestRegistry_RejectsCollisions(t *testing.T) {
	r := NewRegistry("!")
	if err := r.Register(&Command{Name: "queue", Aliases: []string{"q"}, Handler: noop}); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	cases := []*Command{
		nil,
		{Name: "", Handler: noop},
		{Name: "nohandler"},
		{Name: "queue", Handler: noop},
		{Name: "q", Handler: noop},
		{Name: "quit", Aliases: []string{"q"}, Handler: noop},
		{Name: "quiet", Aliases: []string{"quiet"}, Handler: noop},
	}
	for i, cmd := range cases {
		if err := r.Register(cmd); err == nil {
			t.Fatalf("case %d: expected registration error", i)
		}
	}
	if len(r.List()) != 1 {
		t.Fatalf("failed registrations must not leak, got %d commands", len(r.List()))
	}
}

func TestRegistry_ListSortedByCategory(t *testing.T) {
	r := NewRegistry("!")
	_ = r.Register(&Command{Name: "shuffle", Category: CategoryMusic, Handler: noop})
	_ = r.Register(&Command{Name: "ping", Category: CategoryInfo, Handler: noop})
	_ = r.Register(&Command{Name: "help", Category: CategoryInfo, Handler: noop})

	got := r.List()
	want := []string{"help", "ping", "shuffle"}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, got[i].Name)
		}
	}
}
