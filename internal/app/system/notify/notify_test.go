package notify_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/morteam/server/internal/app/system/notify"

	"go.uber.org/zap"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent [][]string
	err  error
}

func (m *recordingMailer) Send(_ context.Context, to []string, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, to)
	return m.err
}

func (m *recordingMailer) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	frames [][]byte
}

func (b *recordingBroadcaster) SendToUsers(_ []string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.frames = append(b.frames, payload)
}

func (b *recordingBroadcaster) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.frames)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestDispatcherDeliversEmail(t *testing.T) {
	m := &recordingMailer{}
	d := notify.NewDispatcher(m, nil, nil, zap.NewNop())
	d.Start()
	defer d.Stop()

	d.Enqueue(notify.NewEmail([]string{"a@test.com"}, "New Announcement", "<p>hi</p>"))
	waitFor(t, func() bool { return m.count() == 1 })
}

func TestDispatcherDeliversSocketFrames(t *testing.T) {
	b := &recordingBroadcaster{}
	d := notify.NewDispatcher(nil, nil, b, zap.NewNop())
	d.Start()
	defer d.Stop()

	d.Enqueue(notify.NewSocket([]string{"u1", "u2"}, []byte(`{"type":"message"}`)))
	waitFor(t, func() bool { return b.count() == 1 })
}

func TestDispatcherSwallowsDeliveryErrors(t *testing.T) {
	m := &recordingMailer{err: errors.New("smtp down")}
	d := notify.NewDispatcher(m, nil, nil, zap.NewNop())
	d.Start()
	defer d.Stop()

	// Both sends are attempted even though the first fails.
	d.Enqueue(notify.NewEmail([]string{"a@test.com"}, "s", "b"))
	d.Enqueue(notify.NewEmail([]string{"b@test.com"}, "s", "b"))
	waitFor(t, func() bool { return m.count() == 2 })
}

func TestEnqueueSkipsEmptyRecipients(t *testing.T) {
	m := &recordingMailer{}
	d := notify.NewDispatcher(m, nil, nil, zap.NewNop())
	d.Start()
	defer d.Stop()

	d.Enqueue(notify.NewEmail(nil, "s", "b"))
	d.Enqueue(notify.NewEmail([]string{"a@test.com"}, "s", "b"))
	waitFor(t, func() bool { return m.count() == 1 })
}
