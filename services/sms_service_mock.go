package services

import (
	"sync"
)

// MockSMSService is a mock implementation of SMSService for testing
type MockSMSService struct {
	sentMessages map[string][]string // phone number -> codes sent
	failNext     bool
	failMessage  string
	mu           sync.RWMutex
}

// NewMockSMSService creates a new mock SMS service
func NewMockSMSService() *MockSMSService {
	return &MockSMSService{
		sentMessages: make(map[string][]string),
	}
}

// SetAsMockForTesting sets this mock as the global SMS service instance for testing
func (m *MockSMSService) SetAsMockForTesting() {
	SetSMSService(m)
}

// SendOTP records the code instead of calling the gateway
func (m *MockSMSService) SendOTP(phoneNumber, otpCode string) (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failNext {
		m.failNext = false
		return false, m.failMessage
	}

	m.sentMessages[phoneNumber] = append(m.sentMessages[phoneNumber], otpCode)
	return true, "OTP sent successfully"
}

// FailNextSend makes the next SendOTP call fail with the given message
func (m *MockSMSService) FailNextSend(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failNext = true
	m.failMessage = message
}

// SentCodes returns the codes sent to a phone number (for testing assertions)
func (m *MockSMSService) SentCodes(phoneNumber string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	codes := make([]string, len(m.sentMessages[phoneNumber]))
	copy(codes, m.sentMessages[phoneNumber])
	return codes
}

// SendCount returns how many messages went to a phone number
func (m *MockSMSService) SendCount(phoneNumber string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sentMessages[phoneNumber])
}

// Clear removes all recorded messages
func (m *MockSMSService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sentMessages = make(map[string][]string)
	m.failNext = false
}
