package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Twilio sandbox WhatsApp sender.
const defaultWhatsAppFrom = "whatsapp:+14155238886"

// twilioMessageResponse is the subset of Twilio's message-create response
// this system reads.
type twilioMessageResponse struct {
	Sid          string `json:"sid"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
}

// MessagingClient sends WhatsApp notifications through the Twilio REST API.
type MessagingClient struct {
	httpClient *resty.Client
	accountSID string
	from       string
}

// NewMessagingClient creates a Twilio WhatsApp client.
func NewMessagingClient(baseURL, accountSID, authToken, from string) *MessagingClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(15 * time.Second).
		SetBasicAuth(accountSID, authToken)
	if from == "" {
		from = defaultWhatsAppFrom
	}

	return &MessagingClient{
		httpClient: client,
		accountSID: accountSID,
		from:       from,
	}
}

// SendWhatsApp sends one WhatsApp message and returns the provider's
// message SID.
func (c *MessagingClient) SendWhatsApp(ctx context.Context, toPhoneNumber, body string) (string, error) {
	var result twilioMessageResponse
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": c.from,
			"To":   "whatsapp:" + toPhoneNumber,
			"Body": body,
		}).
		SetResult(&result).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", c.accountSID))
	if err != nil {
		return "", fmt.Errorf("twilio request failed: %w", err)
	}
	if resp.IsError() {
		if result.ErrorMessage != "" {
			return "", fmt.Errorf("twilio returned %s: %s", resp.Status(), result.ErrorMessage)
		}
		return "", fmt.Errorf("twilio returned %s", resp.Status())
	}
	return result.Sid, nil
}
