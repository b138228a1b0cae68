package notify

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestEscapeAppleScript(t *testing.T) {
	got := escapeAppleScript(`say "hi" \ bye`)
	want := `say \"hi\" \\ bye`
	if got != want {
		t.Fatalf("escapeAppleScript = %q, want %q", got, want)
	}
}

func TestBellWritesBEL(t *testing.T) {
	var buf bytes.Buffer
	Bell{W: &buf}.Play()
	if buf.String() != "\a" {
		t.Fatalf("expected bell byte, got %q", buf.String())
	}
	Bell{}.Play()
}

type recordingNotifier struct {
	mu   sync.Mutex
	got  []Notification
	err  error
	done chan struct{}
}

func (r *recordingNotifier) Send(n Notification) error {
	r.mu.Lock()
	r.got = append(r.got, n)
	r.mu.Unlock()
	close(r.done)
	return r.err
}

func TestAsyncDelivers(t *testing.T) {
	inner := &recordingNotifier{err: errors.New("boom"), done: make(chan struct{})}
	if err := (Async{Inner: inner}).Send(Notification{Title: "Deep Work", Body: "done"}); err != nil {
		t.Fatalf("async send: %v", err)
	}
	select {
	case <-inner.done:
	case <-time.After(time.Second):
		t.Fatalf("notification not delivered")
	}
	inner.mu.Lock()
	defer inner.mu.Unlock()
	if len(inner.got) != 1 || inner.got[0].Body != "done" {
		t.Fatalf("unexpected notifications: %+v", inner.got)
	}
}

func TestAsyncWithoutInnerIsNoop(t *testing.T) {
	if err := (Async{}).Send(Notification{}); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
