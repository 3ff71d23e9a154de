// internal/app/system/push/push.go
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Config holds the push gateway settings (an FCM-compatible HTTP
// endpoint).
type Config struct {
	Endpoint  string // e.g. https://fcm.googleapis.com/fcm/send
	ServerKey string
}

// Sender posts notifications to the push gateway. Satisfies
// notify.Pusher.
type Sender struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		log:    logger,
	}
}

type pushMessage struct {
	RegistrationIDs []string         `json:"registration_ids"`
	Notification    pushNotification `json:"notification"`
}

type pushNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Push sends one notification addressed to the given user ids. The
// gateway resolves user ids to device registrations; an unconfigured
// endpoint is a silent no-op so dev setups need no gateway.
func (s *Sender) Push(ctx context.Context, userIDs []string, title, body string) error {
	if s.cfg.Endpoint == "" || len(userIDs) == 0 {
		return nil
	}

	payload, err := json.Marshal(pushMessage{
		RegistrationIDs: userIDs,
		Notification:    pushNotification{Title: title, Body: body},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "key="+s.cfg.ServerKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned %s", resp.Status)
	}
	return nil
}
