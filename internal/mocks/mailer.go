package mocks

import (
	"context"
	"sync"
)

// SentCode is a verification message captured by MockMailer.
type SentCode struct {
	Email string
	Code  string
}

// MockMailer implements mail.Mailer and records every message.
type MockMailer struct {
	Err error

	mu   sync.Mutex
	sent []SentCode
}

// SendVerificationCode implements mail.Mailer.
func (m *MockMailer) SendVerificationCode(ctx context.Context, email, code string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentCode{Email: email, Code: code})
	return nil
}

// Sent returns the captured messages.
func (m *MockMailer) Sent() []SentCode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SentCode(nil), m.sent...)
}
