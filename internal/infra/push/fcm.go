package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

var ErrNoRecipient = errors.New("push message has no recipient")

type FCMConfig struct {
	ProjectID       string
	CredentialsFile string
}

type FCMSender struct {
	client *messaging.Client
}

func NewFCMSender(ctx context.Context, cfg FCMConfig) (*FCMSender, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	var appConfig *firebase.Config
	if cfg.ProjectID != "" {
		appConfig = &firebase.Config{ProjectID: cfg.ProjectID}
	}

	app, err := firebase.NewApp(ctx, appConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create firebase messaging client: %w", err)
	}

	return &FCMSender{client: client}, nil
}

func (s *FCMSender) Send(ctx context.Context, msg Message) (string, error) {
	if msg.Recipient == "" {
		return "", ErrNoRecipient
	}

	response, err := s.client.Send(ctx, &messaging.Message{
		Topic: Topic(msg.Recipient),
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
		Data: msg.Data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "reminders",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to send FCM message: %w", err)
	}

	slog.DebugContext(ctx, "push sent via FCM",
		slog.String("topic", Topic(msg.Recipient)),
		slog.String("message_id", response),
	)

	return response, nil
}
