package whatsapp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dojocycle/dojocycle/internal/config"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/httpclient"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/sentry"
)

// Sender delivers template messages.
type Sender interface {
	SendTemplate(ctx context.Context, req *TemplateRequest) (*SendResult, error)
	Enabled() bool
}

type TemplateRequest struct {
	// To is normalised with NormalizePhoneAR before sending.
	To       string
	Template string
	Language string
	Params   []string
}

type SendResult struct {
	To        string `json:"to"`
	MessageID string `json:"message_id,omitempty"`
}

type messageBody struct {
	MessagingProduct string       `json:"messaging_product"`
	To               string       `json:"to"`
	Type             string       `json:"type"`
	Template         templateBody `json:"template"`
}

type templateBody struct {
	Name       string      `json:"name"`
	Language   language    `json:"language"`
	Components []component `json:"components,omitempty"`
}

type language struct {
	Code string `json:"code"`
}

type component struct {
	Type       string      `json:"type"`
	Parameters []parameter `json:"parameters"`
}

type parameter struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// Client talks to the WhatsApp Cloud API.
type Client struct {
	http   httpclient.Client
	cfg    config.WhatsAppConfig
	logger *logger.Logger
	sentry *sentry.Service
}

func NewClient(cfg *config.Configuration, http httpclient.Client, logger *logger.Logger, sentry *sentry.Service) Sender {
	return &Client{
		http:   http,
		cfg:    cfg.WhatsApp,
		logger: logger,
		sentry: sentry,
	}
}

func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.Token != "" && c.cfg.PhoneNumberID != ""
}

func (c *Client) messagesURL() string {
	return fmt.Sprintf("%s/%s/messages", strings.TrimRight(c.cfg.BaseURL, "/"), c.cfg.PhoneNumberID)
}

func (c *Client) SendTemplate(ctx context.Context, req *TemplateRequest) (*SendResult, error) {
	if !c.Enabled() {
		return nil, ierr.NewError("whatsapp sender is disabled").
			WithHint("WhatsApp notifications are not configured").
			Mark(ierr.ErrInvalidOperation)
	}

	to := NormalizePhoneAR(req.To)
	if to == "" {
		return nil, ierr.NewError("invalid destination phone").
			WithHint("The member has no valid phone number").
			WithReportableDetails(map[string]any{
				"phone": req.To,
			}).
			Mark(ierr.ErrValidation)
	}

	name := req.Template
	if name == "" {
		name = c.cfg.DefaultTemplate
	}
	lang := req.Language
	if lang == "" {
		lang = c.cfg.DefaultLanguage
	}

	msg := messageBody{
		MessagingProduct: "whatsapp",
		To:               to,
		Type:             "template",
		Template: templateBody{
			Name:     name,
			Language: language{Code: lang},
		},
	}
	if len(req.Params) > 0 {
		params := make([]parameter, 0, len(req.Params))
		for _, p := range req.Params {
			params = append(params, parameter{Type: "text", Text: p})
		}
		msg.Template.Components = []component{{Type: "body", Parameters: params}}
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Could not encode the WhatsApp message").
			Mark(ierr.ErrSystem)
	}

	span, ctx := c.sentry.StartHTTPClientSpan(ctx, "whatsapp.send_template", map[string]interface{}{
		"template": name,
	})
	if span != nil {
		defer span.Finish()
	}

	resp, err := c.http.Send(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    c.messagesURL(),
		Headers: map[string]string{
			"Authorization": "Bearer " + c.cfg.Token,
		},
		Body: body,
	})
	if err != nil {
		return nil, c.apiError(err, to, name)
	}

	var out apiResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Unexpected response from WhatsApp").
			Mark(ierr.ErrHTTPClient)
	}

	result := &SendResult{To: to}
	if len(out.Messages) > 0 {
		result.MessageID = out.Messages[0].ID
	}

	c.logger.Infow("whatsapp template sent",
		"to", to,
		"template", name,
		"message_id", result.MessageID,
	)
	return result, nil
}

// apiError surfaces the provider's error message when the response carries one.
func (c *Client) apiError(err error, to, template string) error {
	message := "Error sending WhatsApp message"
	if httpErr, ok := httpclient.IsHTTPError(err); ok {
		var out apiResponse
		if json.Unmarshal(httpErr.Response, &out) == nil && out.Error != nil && out.Error.Message != "" {
			message = out.Error.Message
		}
	}

	c.logger.Warnw("whatsapp send failed",
		"to", to,
		"template", template,
		"error", err,
	)

	return ierr.WithError(err).
		WithMessage(message).
		WithHint(message).
		WithReportableDetails(map[string]any{
			"to":       to,
			"template": template,
		}).
		Mark(ierr.ErrHTTPClient)
}
