package testutil

import (
	"context"
	"fmt"
	"sync"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/whatsapp"
)

var _ whatsapp.Sender = (*MockSender)(nil)

// MockSender records template messages instead of calling the WhatsApp API.
type MockSender struct {
	mu       sync.Mutex
	enabled  bool
	sent     []*whatsapp.TemplateRequest
	failures map[string]error
}

func NewMockSender(enabled bool) *MockSender {
	return &MockSender{
		enabled:  enabled,
		failures: make(map[string]error),
	}
}

func (m *MockSender) Enabled() bool {
	return m.enabled
}

// FailFor makes sends to the normalised phone fail with err.
func (m *MockSender) FailFor(phone string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[whatsapp.NormalizePhoneAR(phone)] = err
}

func (m *MockSender) SendTemplate(ctx context.Context, req *whatsapp.TemplateRequest) (*whatsapp.SendResult, error) {
	to := whatsapp.NormalizePhoneAR(req.To)
	if to == "" {
		return nil, ierr.NewError("invalid destination phone").
			Mark(ierr.ErrValidation)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failures[to]; ok {
		return nil, err
	}

	c := *req
	c.To = to
	m.sent = append(m.sent, &c)
	return &whatsapp.SendResult{
		To:        to,
		MessageID: fmt.Sprintf("wamid.%d", len(m.sent)),
	}, nil
}

// Sent returns the delivered requests in order.
func (m *MockSender) Sent() []*whatsapp.TemplateRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*whatsapp.TemplateRequest, len(m.sent))
	copy(out, m.sent)
	return out
}
