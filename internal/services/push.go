package services

import (
	"context"
	"fmt"

	"samaj-backend/internal/config"

	"github.com/rs/zerolog/log"
	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/payload"
	"github.com/sideshow/apns2/token"
)

// Pusher delivers a device push notification
type Pusher interface {
	Push(ctx context.Context, deviceToken, title, body string) error
}

// APNsPusher sends pushes through Apple's token-based provider API
type APNsPusher struct {
	client *apns2.Client
	topic  string
}

// NewPusher returns an APNs pusher, or a no-op pusher when no key is configured
func NewPusher(cfg config.APNsConfig) (Pusher, error) {
	if cfg.KeyPath == "" {
		log.Warn().Msg("APNs key not configured, push notifications disabled")
		return NopPusher{}, nil
	}

	authKey, err := token.AuthKeyFromFile(cfg.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load APNs auth key: %w", err)
	}

	client := apns2.NewTokenClient(&token.Token{
		AuthKey: authKey,
		KeyID:   cfg.KeyID,
		TeamID:  cfg.TeamID,
	})
	if cfg.Production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &APNsPusher{client: client, topic: cfg.Topic}, nil
}

// Push sends an alert to one device
func (p *APNsPusher) Push(ctx context.Context, deviceToken, title, body string) error {
	notification := &apns2.Notification{
		DeviceToken: deviceToken,
		Topic:       p.topic,
		Payload:     payload.NewPayload().AlertTitle(title).AlertBody(body).Sound("default"),
	}

	res, err := p.client.PushWithContext(ctx, notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %d %s", res.StatusCode, res.Reason)
	}
	return nil
}

// NopPusher drops every push
type NopPusher struct{}

// Push does nothing
func (NopPusher) Push(context.Context, string, string, string) error { return nil }
