package push

import "context"

//go:generate mockgen -source=sender.go -destination=sender_mock.go -package=push

// Message is a notification addressed to a patient. Recipient is the NHI;
// devices subscribe to the patient's topic.
type Message struct {
	Recipient string
	Title     string
	Body      string
	Data      map[string]string
}

type Sender interface {
	Send(ctx context.Context, msg Message) (string, error)
}

// Topic returns the FCM topic a patient's devices subscribe to.
func Topic(recipient string) string {
	return "patient-" + recipient
}
