package notification

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/cirruslabs-it/asset-inventory/internal"
)

const graphBaseURL = "https://graph.microsoft.com/v1.0"

// GraphMailer delivers mail through the Microsoft Graph sendMail API
// using an application (client credential) grant. Token acquisition and
// refresh are handled by the oauth2 client.
type GraphMailer struct {
	senderEmail string
	baseURL     string
	client      *http.Client
}

func NewGraphMailer(cfg internal.GraphConfig) *GraphMailer {
	creds := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", cfg.TenantID),
		Scopes:       []string{"https://graph.microsoft.com/.default"},
	}

	client := creds.Client(context.Background())
	client.Timeout = 30 * time.Second

	return &GraphMailer{
		senderEmail: cfg.SenderEmail,
		baseURL:     graphBaseURL,
		client:      client,
	}
}

func (m *GraphMailer) Name() string {
	return "graph"
}

type graphSendMailRequest struct {
	Message graphMessage `json:"message"`
}

type graphMessage struct {
	Subject      string            `json:"subject"`
	Body         graphBody         `json:"body"`
	ToRecipients []graphRecipient  `json:"toRecipients"`
	Attachments  []graphAttachment `json:"attachments,omitempty"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphRecipient struct {
	EmailAddress graphEmailAddress `json:"emailAddress"`
}

type graphEmailAddress struct {
	Address string `json:"address"`
}

type graphAttachment struct {
	ODataType    string `json:"@odata.type"`
	Name         string `json:"name"`
	ContentType  string `json:"contentType"`
	ContentBytes string `json:"contentBytes"`
}

func (m *GraphMailer) Send(ctx context.Context, msg Message) error {
	payload := graphSendMailRequest{
		Message: graphMessage{
			Subject: msg.Subject,
			Body: graphBody{
				ContentType: "HTML",
				Content:     msg.HTMLBody,
			},
			ToRecipients: []graphRecipient{
				{EmailAddress: graphEmailAddress{Address: msg.To}},
			},
		},
	}

	if msg.AttachmentPath != "" {
		content, err := os.ReadFile(msg.AttachmentPath)
		if err != nil {
			return fmt.Errorf("graph attachment: %w", err)
		}
		payload.Message.Attachments = []graphAttachment{{
			ODataType:    "#microsoft.graph.fileAttachment",
			Name:         filepath.Base(msg.AttachmentPath),
			ContentType:  "application/pdf",
			ContentBytes: base64.StdEncoding.EncodeToString(content),
		}}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("graph payload: %w", err)
	}

	url := fmt.Sprintf("%s/users/%s/sendMail", m.baseURL, m.senderEmail)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graph request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("graph send: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("graph send: status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
