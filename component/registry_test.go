package component

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/transcriber/logger"
)

type fakeComponent struct {
	name     string
	startErr error
	stopErr  error
	events   *[]string
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	*f.events = append(*f.events, "start:"+f.name)
	return f.startErr
}

func (f *fakeComponent) Stop(context.Context) error {
	*f.events = append(*f.events, "stop:"+f.name)
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) Health {
	return Health{Name: f.name, Status: StatusHealthy}
}

func TestRegistry_StartStopOrder(t *testing.T) {
	var events []string
	reg := NewRegistry(logger.Nop())
	for _, name := range []string{"storage", "recognition", "http"} {
		if err := reg.Register(&fakeComponent{name: name, events: &events}); err != nil {
			t.Fatalf("register %s: %v", name, err)
		}
	}

	if err := reg.StartAll(context.Background()); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := reg.StopAll(context.Background()); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := "start:storage,start:recognition,start:http,stop:http,stop:recognition,stop:storage"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRegistry_DuplicateName(t *testing.T) {
	var events []string
	reg := NewRegistry(logger.Nop())
	_ = reg.Register(&fakeComponent{name: "storage", events: &events})
	if err := reg.Register(&fakeComponent{name: "storage", events: &events}); err == nil {
		t.Error("expected duplicate registration to fail")
	}
}

func TestRegistry_StartFailureStopsOnlyStarted(t *testing.T) {
	var events []string
	reg := NewRegistry(logger.Nop())
	_ = reg.Register(&fakeComponent{name: "storage", events: &events})
	_ = reg.Register(&fakeComponent{name: "recognition", startErr: errors.New("no credentials"), events: &events})
	_ = reg.Register(&fakeComponent{name: "http", events: &events})

	if err := reg.StartAll(context.Background()); err == nil {
		t.Fatal("expected start failure")
	}
	_ = reg.StopAll(context.Background())

	want := "start:storage,start:recognition,stop:storage"
	if got := strings.Join(events, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRegistry_HealthAllAndGet(t *testing.T) {
	var events []string
	reg := NewRegistry(logger.Nop())
	_ = reg.Register(&fakeComponent{name: "storage", events: &events})

	health := reg.HealthAll(context.Background())
	if len(health) != 1 || health[0].Status != StatusHealthy {
		t.Errorf("unexpected health %+v", health)
	}
	if reg.Get("storage") == nil || reg.Get("missing") != nil {
		t.Error("unexpected Get result")
	}
}
