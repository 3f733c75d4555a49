package notify

import (
	"context"
	"log"
)

// Service fans alerts out to the configured operator devices. A nil
// *Service is a no-op, so callers never need to guard their alert calls.
type Service struct {
	messenger    Messenger
	deviceTokens []string
}

// NewService creates an alert service. Returns nil when no messenger or
// no device tokens are configured.
func NewService(messenger Messenger, deviceTokens []string) *Service {
	if messenger == nil || len(deviceTokens) == 0 {
		return nil
	}
	return &Service{messenger: messenger, deviceTokens: deviceTokens}
}

// SyncFailed alerts that a scheduled sync errored out.
func (s *Service) SyncFailed(ctx context.Context, target string, err error) {
	s.send(ctx, "Sync failed", target+": "+err.Error(), map[string]string{"target": target})
}

// UpstreamUnauthorized alerts that the bank API rejected a bearer token.
// The token file needs rotating; nothing recovers automatically.
func (s *Service) UpstreamUnauthorized(ctx context.Context, detail string) {
	s.send(ctx, "Bank token rejected", detail, map[string]string{"reason": "unauthorized"})
}

func (s *Service) send(ctx context.Context, title, body string, data map[string]string) {
	if s == nil {
		return
	}
	for _, token := range s.deviceTokens {
		if err := s.messenger.Send(ctx, token, title, body, data); err != nil {
			log.Printf("Failed to send alert to device: %v", err)
		}
	}
}
