package webhook

import "github.com/rakshit1504/insurance-final-bot/pkg/types"

// ParseInbound extracts the first text message from a webhook payload.
// It returns nil when the payload carries no usable message (status
// updates, empty deliveries), which the dispatcher treats as a single
// checked case instead of chasing nested optional fields.
func ParseInbound(payload *types.WebhookPayload) *types.InboundMessage {
	if payload == nil || len(payload.Entry) == 0 {
		return nil
	}

	changes := payload.Entry[0].Changes
	if len(changes) == 0 {
		return nil
	}

	messages := changes[0].Value.Messages
	if len(messages) == 0 {
		return nil
	}

	msg := messages[0]
	if msg.From == "" || msg.Text == nil || msg.Text.Body == "" {
		return nil
	}

	return &types.InboundMessage{
		From: msg.From,
		Text: msg.Text.Body,
	}
}
