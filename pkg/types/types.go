package types

import "time"

// Plan represents one insurance product from the seeded catalog
type Plan struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// TODO: coverage has no backing column in the plans table, so it
	// renders empty in generated documents.
	Coverage string `json:"coverage,omitempty"`
}

// Selection records that a sender chose a plan at a point in time
type Selection struct {
	ID         int       `json:"id"`
	Phone      string    `json:"phone"`
	PlanID     *int      `json:"plan_id"` // nullable in schema, always set by the dispatcher
	SelectedAt time.Time `json:"selected_at"`
}

// Delivery is the outcome of one outbound provider call
type Delivery struct {
	Delivered bool   `json:"delivered"`
	Reason    string `json:"reason,omitempty"`
}

// Sent returns a successful delivery result
func Sent() Delivery {
	return Delivery{Delivered: true}
}

// Failed returns a failed delivery result carrying the cause
func Failed(err error) Delivery {
	return Delivery{Delivered: false, Reason: err.Error()}
}

// WebhookPayload is the top-level webhook delivery from the provider
type WebhookPayload struct {
	Object string  `json:"object"`
	Entry  []Entry `json:"entry"`
}

// Entry represents one business account entry
type Entry struct {
	ID      string   `json:"id"`
	Changes []Change `json:"changes"`
}

// Change wraps a single change notification
type Change struct {
	Field string      `json:"field"`
	Value ChangeValue `json:"value"`
}

// ChangeValue holds the message data for a change
type ChangeValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         Metadata         `json:"metadata"`
	Contacts         []WebhookContact `json:"contacts,omitempty"`
	Messages         []WebhookMessage `json:"messages,omitempty"`
}

// Metadata describes the receiving phone number
type Metadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// WebhookContact is the sender's contact record
type WebhookContact struct {
	Profile ContactProfile `json:"profile"`
	WaID    string         `json:"wa_id"`
}

// ContactProfile holds the sender's display name
type ContactProfile struct {
	Name string `json:"name"`
}

// WebhookMessage is one incoming message
type WebhookMessage struct {
	From      string       `json:"from"`
	ID        string       `json:"id"`
	Timestamp string       `json:"timestamp"`
	Type      string       `json:"type"`
	Text      *TextContent `json:"text,omitempty"`
}

// TextContent holds a text message body
type TextContent struct {
	Body string `json:"body"`
}

// InboundMessage is the parsed form of one inbound text message
type InboundMessage struct {
	From string
	Text string
}

// TextMessageRequest is the payload for sending a plain text message
type TextMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Text             TextContent `json:"text"`
}

// TemplateMessageRequest is the payload for sending a template message
type TemplateMessageRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Template         Template `json:"template"`
}

// Template identifies a pre-registered message template and its parameters
type Template struct {
	Name       string              `json:"name"`
	Language   TemplateLanguage    `json:"language"`
	Components []TemplateComponent `json:"components"`
}

// TemplateLanguage selects the template language
type TemplateLanguage struct {
	Code string `json:"code"`
}

// TemplateComponent fills one slot of a template (body or header)
type TemplateComponent struct {
	Type       string              `json:"type"`
	Parameters []TemplateParameter `json:"parameters"`
}

// TemplateParameter is one value for a template component
type TemplateParameter struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	Document *DocumentLink `json:"document,omitempty"`
}

// DocumentLink references a remote-hosted document attachment
type DocumentLink struct {
	Link     string `json:"link"`
	Filename string `json:"filename"`
}

// DocumentMessageRequest is the payload for sending an uploaded document
type DocumentMessageRequest struct {
	MessagingProduct string      `json:"messaging_product"`
	To               string      `json:"to"`
	Type             string      `json:"type"`
	Document         DocumentRef `json:"document"`
}

// DocumentRef references previously uploaded media by handle
type DocumentRef struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
}

// MediaUploadResponse is the provider's response to a media upload
type MediaUploadResponse struct {
	ID string `json:"id"`
}

// HealthResponse represents a health check response
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Plans     int       `json:"plans"`
}
