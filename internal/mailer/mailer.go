package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const sendgridSendURL = "https://api.sendgrid.com/v3/mail/send"

// Mailer delivers HTML mail. The SendGrid client is the production
// implementation; tests substitute a fake.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type SendgridMailer struct {
	APIKey string
	Sender string
	Client *http.Client

	url string
}

func NewSendgridMailer(apiKey, sender string) *SendgridMailer {
	return &SendgridMailer{
		APIKey: apiKey,
		Sender: sender,
		Client: &http.Client{Timeout: 10 * time.Second},
		url:    sendgridSendURL,
	}
}

type sendgridAddress struct {
	Email string `json:"email"`
}

type sendgridPersonalization struct {
	To []sendgridAddress `json:"to"`
}

type sendgridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendgridRequest struct {
	Personalizations []sendgridPersonalization `json:"personalizations"`
	From             sendgridAddress           `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendgridContent         `json:"content"`
}

func (m *SendgridMailer) Send(ctx context.Context, to, subject, html string) error {
	payload := sendgridRequest{
		Personalizations: []sendgridPersonalization{{To: []sendgridAddress{{Email: to}}}},
		From:             sendgridAddress{Email: m.Sender},
		Subject:          subject,
		Content:          []sendgridContent{{Type: "text/html", Value: html}},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	url := m.url
	if url == "" {
		url = sendgridSendURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("sendgrid API error (status %d)", resp.StatusCode)
	}

	return nil
}

// RenderActivation fills the email template placeholders with the activation
// link and the recipient's name.
func RenderActivation(template, activationURI, userName string) string {
	replacer := strings.NewReplacer(
		"{% uri %}", activationURI,
		"{% verify-object %}", "account",
		"{% user-name %}", userName,
	)
	return replacer.Replace(template)
}
