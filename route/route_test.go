package route_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/xraph/herald/issue"
	"github.com/xraph/herald/route"
	"github.com/xraph/herald/watcher"
)

type mapRegistry map[string]*watcher.Watcher

func (m mapRegistry) Lookup(_ context.Context, login string) (*watcher.Watcher, error) {
	if login == "broken" {
		return nil, errors.New("registry down")
	}
	return m[login], nil
}

var registry = mapRegistry{
	"ada":   {Login: "ada", WebhookURL: "https://chat.example.com/hooks/ada", Mention: "<@1>", Enabled: true},
	"bob":   {Login: "bob", WebhookURL: "https://chat.example.com/hooks/bob", Mention: "<@2>", Enabled: true},
	"shy":   {Login: "shy", WebhookURL: "https://chat.example.com/hooks/shy", Mention: "<@3>", Enabled: false},
	"share": {Login: "share", WebhookURL: "https://chat.example.com/general", Mention: "<@4>", Enabled: true},
}

func tags(pairs ...string) []issue.Tag {
	out := make([]issue.Tag, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, issue.Tag{Name: pairs[i], Owner: issue.User{Login: pairs[i+1]}})
	}
	return out
}

func TestResolveWebhookMode(t *testing.T) {
	r := route.New(route.Options{
		Base:     []string{"https://chat.example.com/primary", "https://chat.example.com/general"},
		Registry: registry,
	})

	snap := &issue.Snapshot{Tags: tags(
		"Star", "bob",
		"Star", "nobody",
		"Later", "ada",
		"Star", "shy",
		"Star", "share",
		"Star", "ada",
		"Star", "broken",
	)}

	plan := r.Resolve(context.Background(), snap)

	want := []string{
		"https://chat.example.com/primary",
		"https://chat.example.com/general",
		"https://chat.example.com/hooks/bob",
		"https://chat.example.com/hooks/ada",
	}
	if !reflect.DeepEqual(plan.Destinations, want) {
		t.Fatalf("Destinations = %v, want %v", plan.Destinations, want)
	}
	if len(plan.Mentions) != 0 {
		t.Errorf("unexpected mentions in webhook mode: %v", plan.Mentions)
	}
	if _, ok := plan.WatchersField(); ok {
		t.Error("expected no watchers field")
	}
}

func TestResolveDeduplicatesRepeatedWatcher(t *testing.T) {
	r := route.New(route.Options{Registry: registry})

	snap := &issue.Snapshot{Tags: tags("Star", "ada", "Star", "ada")}
	plan := r.Resolve(context.Background(), snap)

	if len(plan.Destinations) != 1 {
		t.Fatalf("expected 1 destination, got %v", plan.Destinations)
	}
}

func TestResolveMentionMode(t *testing.T) {
	r := route.New(route.Options{
		Base:     []string{"https://chat.example.com/primary"},
		Mode:     route.ModeMention,
		Registry: registry,
	})

	snap := &issue.Snapshot{Tags: tags("Star", "ada", "Star", "nobody", "Star", "bob")}
	plan := r.Resolve(context.Background(), snap)

	if !reflect.DeepEqual(plan.Destinations, []string{"https://chat.example.com/primary"}) {
		t.Fatalf("Destinations = %v", plan.Destinations)
	}

	field, ok := plan.WatchersField()
	if !ok {
		t.Fatal("expected watchers field")
	}
	if field.Name != "Watchers" || field.Value != "<@1>\n<@2>" {
		t.Errorf("field = %+v", field)
	}
}

func TestResolveMentionModeNoWatchers(t *testing.T) {
	r := route.New(route.Options{Mode: route.ModeMention, Registry: registry})
	plan := r.Resolve(context.Background(), &issue.Snapshot{Tags: tags("Star", "nobody")})

	if _, ok := plan.WatchersField(); ok {
		t.Fatal("expected no watchers field")
	}
	if len(plan.Destinations) != 0 {
		t.Fatalf("expected no destinations, got %v", plan.Destinations)
	}
}

func TestResolveCustomTag(t *testing.T) {
	r := route.New(route.Options{WatchTag: "Watching", Registry: registry})
	plan := r.Resolve(context.Background(), &issue.Snapshot{Tags: tags("Star", "ada", "Watching", "bob")})

	if !reflect.DeepEqual(plan.Destinations, []string{"https://chat.example.com/hooks/bob"}) {
		t.Fatalf("Destinations = %v", plan.Destinations)
	}
}

func TestResolveWithoutRegistry(t *testing.T) {
	r := route.New(route.Options{Base: []string{"https://a", "https://a", ""}})
	plan := r.Resolve(context.Background(), &issue.Snapshot{Tags: tags("Star", "ada")})

	if !reflect.DeepEqual(plan.Destinations, []string{"https://a"}) {
		t.Fatalf("Destinations = %v", plan.Destinations)
	}
}

func TestModeValid(t *testing.T) {
	if !route.ModeWebhook.Valid() || !route.ModeMention.Valid() {
		t.Fatal("built-in modes must be valid")
	}
	if route.Mode("both").Valid() {
		t.Fatal("unknown mode must be invalid")
	}
}
