// internal/app/system/notify/notify.go
//
// Notify-after-commit: mutations enqueue notification descriptors once
// their primary write is durably committed, and the dispatcher delivers
// them in the background. Delivery is best-effort; a collaborator
// failure is logged and never surfaces as the mutation's error.
package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Kind selects the delivery collaborator.
type Kind string

const (
	KindEmail  Kind = "email"
	KindPush   Kind = "push"
	KindSocket Kind = "socket"
)

// Notification is one pending delivery.
type Notification struct {
	ID         uuid.UUID
	Kind       Kind
	Recipients []string // email addresses, or user ids for push/socket
	Subject    string   // email subject / push title
	Body       string   // html body / push body
	Payload    []byte   // socket frame
}

// NewEmail describes an email to the given addresses.
func NewEmail(to []string, subject, htmlBody string) Notification {
	return Notification{ID: uuid.New(), Kind: KindEmail, Recipients: to, Subject: subject, Body: htmlBody}
}

// NewPush describes a push notification to the given user ids.
func NewPush(userIDs []string, title, body string) Notification {
	return Notification{ID: uuid.New(), Kind: KindPush, Recipients: userIDs, Subject: title, Body: body}
}

// NewSocket describes a realtime frame for the given user ids.
func NewSocket(userIDs []string, payload []byte) Notification {
	return Notification{ID: uuid.New(), Kind: KindSocket, Recipients: userIDs, Payload: payload}
}

// Mailer sends email. Implemented by system/mailer.
type Mailer interface {
	Send(ctx context.Context, to []string, subject, htmlBody string) error
}

// Pusher sends mobile push notifications. Implemented by system/push.
type Pusher interface {
	Push(ctx context.Context, userIDs []string, title, body string) error
}

// Broadcaster fans a frame out to connected sockets. Implemented by
// system/socket; purely in-process, so no error and no context.
type Broadcaster interface {
	SendToUsers(userIDs []string, payload []byte)
}

const (
	queueSize       = 256
	deliveryTimeout = 30 * time.Second
)

// Dispatcher consumes notifications on a background goroutine.
type Dispatcher struct {
	mailer      Mailer
	pusher      Pusher
	broadcaster Broadcaster
	log         *zap.Logger

	ch     chan Notification
	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewDispatcher wires the collaborators. Any of them may be nil, in
// which case that kind is dropped with a warning.
func NewDispatcher(mailer Mailer, pusher Pusher, broadcaster Broadcaster, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		mailer:      mailer,
		pusher:      pusher,
		broadcaster: broadcaster,
		log:         logger,
		ch:          make(chan Notification, queueSize),
		stopCh:      make(chan struct{}),
	}
}

// Start begins the delivery loop.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.run()
	d.log.Info("notification dispatcher started")
}

// Stop drains nothing and stops accepting work; in-flight delivery
// finishes first.
func (d *Dispatcher) Stop() {
	close(d.stopCh)
	d.wg.Wait()
	d.log.Info("notification dispatcher stopped")
}

// Enqueue hands a notification to the dispatcher. It never blocks the
// caller: when the queue is full the notification is dropped and
// logged, which is acceptable for fire-and-forget delivery.
func (d *Dispatcher) Enqueue(n Notification) {
	if len(n.Recipients) == 0 {
		return
	}
	select {
	case d.ch <- n:
	default:
		d.log.Warn("notification queue full, dropping",
			zap.String("id", n.ID.String()),
			zap.String("kind", string(n.Kind)))
	}
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stopCh:
			return
		case n := <-d.ch:
			d.deliver(n)
		}
	}
}

func (d *Dispatcher) deliver(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	var err error
	switch n.Kind {
	case KindEmail:
		if d.mailer == nil {
			d.log.Warn("no mailer configured, dropping email", zap.String("id", n.ID.String()))
			return
		}
		err = d.mailer.Send(ctx, n.Recipients, n.Subject, n.Body)
	case KindPush:
		if d.pusher == nil {
			d.log.Warn("no pusher configured, dropping push", zap.String("id", n.ID.String()))
			return
		}
		err = d.pusher.Push(ctx, n.Recipients, n.Subject, n.Body)
	case KindSocket:
		if d.broadcaster == nil {
			return
		}
		d.broadcaster.SendToUsers(n.Recipients, n.Payload)
	default:
		d.log.Warn("unknown notification kind", zap.String("kind", string(n.Kind)))
		return
	}

	if err != nil {
		// Logged, never escalated: the mutation already committed.
		d.log.Error("notification delivery failed",
			zap.String("id", n.ID.String()),
			zap.String("kind", string(n.Kind)),
			zap.Int("recipients", len(n.Recipients)),
			zap.Error(err))
	}
}
