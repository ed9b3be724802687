package webhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakshit1504/insurance-final-bot/pkg/types"
)

func TestParseInbound(t *testing.T) {
	payload := &types.WebhookPayload{
		Object: "whatsapp_business_account",
		Entry: []types.Entry{{
			Changes: []types.Change{{
				Value: types.ChangeValue{
					Messages: []types.WebhookMessage{{
						From: "9190000000",
						Type: "text",
						Text: &types.TextContent{Body: "insurance"},
					}},
				},
			}},
		}},
	}

	msg := ParseInbound(payload)
	require.NotNil(t, msg)
	assert.Equal(t, "9190000000", msg.From)
	assert.Equal(t, "insurance", msg.Text)
}

func TestParseInbound_Absent(t *testing.T) {
	tests := []struct {
		name    string
		payload *types.WebhookPayload
	}{
		{"nil payload", nil},
		{"no entries", &types.WebhookPayload{}},
		{"no changes", &types.WebhookPayload{Entry: []types.Entry{{}}}},
		{"no messages", &types.WebhookPayload{Entry: []types.Entry{{
			Changes: []types.Change{{Value: types.ChangeValue{}}},
		}}}},
		{"no text body", &types.WebhookPayload{Entry: []types.Entry{{
			Changes: []types.Change{{Value: types.ChangeValue{
				Messages: []types.WebhookMessage{{From: "9190000000", Type: "image"}},
			}}},
		}}}},
		{"empty text body", &types.WebhookPayload{Entry: []types.Entry{{
			Changes: []types.Change{{Value: types.ChangeValue{
				Messages: []types.WebhookMessage{{From: "9190000000", Type: "text", Text: &types.TextContent{}}},
			}}},
		}}}},
		{"no sender", &types.WebhookPayload{Entry: []types.Entry{{
			Changes: []types.Change{{Value: types.ChangeValue{
				Messages: []types.WebhookMessage{{Text: &types.TextContent{Body: "hi"}}},
			}}},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, ParseInbound(tt.payload))
		})
	}
}
