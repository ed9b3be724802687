// Package messenger performs outbound calls to the WhatsApp Cloud API.
// Every operation is a single-shot best-effort send returning a
// Delivery result; nothing here retries or propagates an error to the
// webhook response.
package messenger

import (
	"context"
	"fmt"

	"github.com/go-resty/resty/v2"
	"github.com/sirupsen/logrus"

	"github.com/rakshit1504/insurance-final-bot/internal/config"
	"github.com/rakshit1504/insurance-final-bot/pkg/types"
)

const (
	messagingProduct = "whatsapp"

	// Pre-registered template sent in reply to the "insurance" keyword.
	templateName     = "insurance"
	templateLanguage = "en"
	templatePDFLink  = "https://cdn.glitch.global/9011f1b7-59c9-4dd0-8086-13e26b4efe93/insurance.pdf?v=1748845134453"
	templatePDFName  = "insurance.pdf"
)

// templateBodyParams are the fixed text slots of the insurance template.
var templateBodyParams = []string{"Rakshit", "RakInsurance Premium", "May 28, 2025"}

// Client sends messages through the provider's Graph API
type Client struct {
	http          *resty.Client
	phoneNumberID string
}

// New creates a messenger client from the process configuration
func New(cfg *config.Config) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.GraphAPIBaseURL).
		SetAuthToken(cfg.GraphAPIToken)

	return &Client{
		http:          httpClient,
		phoneNumberID: cfg.PhoneNumberID,
	}
}

// SendText posts a plain text message to the recipient
func (c *Client) SendText(ctx context.Context, text, to string) types.Delivery {
	body := types.TextMessageRequest{
		MessagingProduct: messagingProduct,
		To:               to,
		Type:             "text",
		Text:             types.TextContent{Body: text},
	}

	if err := c.postMessage(ctx, body); err != nil {
		logrus.WithError(err).WithField("to", to).Warn("Failed to send text message")
		return types.Failed(err)
	}

	logrus.WithFields(logrus.Fields{"to": to, "text": text}).Info("Sent text message")
	return types.Sent()
}

// SendTemplate posts the pre-registered insurance template with its
// remote document header attachment
func (c *Client) SendTemplate(ctx context.Context, to string) types.Delivery {
	bodyParams := make([]types.TemplateParameter, 0, len(templateBodyParams))
	for _, text := range templateBodyParams {
		bodyParams = append(bodyParams, types.TemplateParameter{Type: "text", Text: text})
	}

	body := types.TemplateMessageRequest{
		MessagingProduct: messagingProduct,
		To:               to,
		Type:             "template",
		Template: types.Template{
			Name:     templateName,
			Language: types.TemplateLanguage{Code: templateLanguage},
			Components: []types.TemplateComponent{
				{
					Type:       "body",
					Parameters: bodyParams,
				},
				{
					Type: "header",
					Parameters: []types.TemplateParameter{
						{
							Type: "document",
							Document: &types.DocumentLink{
								Link:     templatePDFLink,
								Filename: templatePDFName,
							},
						},
					},
				},
			},
		},
	}

	if err := c.postMessage(ctx, body); err != nil {
		logrus.WithError(err).WithField("to", to).Warn("Failed to send insurance template")
		return types.Failed(err)
	}

	logrus.WithField("to", to).Info("Sent insurance template")
	return types.Sent()
}

// SendDocument uploads the file at path to the provider's media
// endpoint, then posts a document message referencing the returned
// media handle. A failed upload skips the send.
func (c *Client) SendDocument(ctx context.Context, path, filename, to string) types.Delivery {
	var uploaded types.MediaUploadResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetFile("file", path).
		SetFormData(map[string]string{
			"messaging_product": messagingProduct,
			"type":              "document",
		}).
		SetResult(&uploaded).
		Post(fmt.Sprintf("/%s/media", c.phoneNumberID))

	if err == nil && resp.IsError() {
		err = fmt.Errorf("provider returned %s: %s", resp.Status(), resp.String())
	}
	if err == nil && uploaded.ID == "" {
		err = fmt.Errorf("provider returned no media id")
	}
	if err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"to": to, "file": filename}).Warn("Failed to upload document")
		return types.Failed(err)
	}

	body := types.DocumentMessageRequest{
		MessagingProduct: messagingProduct,
		To:               to,
		Type:             "document",
		Document: types.DocumentRef{
			ID:       uploaded.ID,
			Filename: filename,
		},
	}

	if err := c.postMessage(ctx, body); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{"to": to, "file": filename}).Warn("Failed to send document")
		return types.Failed(err)
	}

	logrus.WithFields(logrus.Fields{"to": to, "file": filename}).Info("Sent document")
	return types.Sent()
}

// postMessage posts one message payload to the messages endpoint
func (c *Client) postMessage(ctx context.Context, body interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(fmt.Sprintf("/%s/messages", c.phoneNumberID))

	if err != nil {
		return fmt.Errorf("failed to reach provider: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("provider returned %s: %s", resp.Status(), resp.String())
	}

	return nil
}
