package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/om-engineers/om-engineers-api/config"
)

// SMSInterface defines the interface for sending OTP messages
type SMSInterface interface {
	SendOTP(phoneNumber, otpCode string) (bool, string)
}

// SMSService sends OTP messages through the Fast2SMS quick-SMS route
type SMSService struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// fast2smsResponse is the JSON reply from the gateway
type fast2smsResponse struct {
	Return  bool     `json:"return"`
	Message []string `json:"message"`
}

var smsServiceInstance SMSInterface

// InitSMSService initializes the SMS service from configuration
func InitSMSService() SMSInterface {
	cfg := config.GetConfig()

	smsServiceInstance = &SMSService{
		apiKey:  cfg.SMSAPIKey,
		baseURL: cfg.SMSBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	return smsServiceInstance
}

// GetSMSService returns the initialized SMS service instance
func GetSMSService() SMSInterface {
	return smsServiceInstance
}

// SetSMSService sets the SMS service instance (primarily for testing)
func SetSMSService(service SMSInterface) {
	smsServiceInstance = service
}

// SendOTP delivers an OTP code to the given 10-digit phone number.
// The call is synchronous and never retried; failures are reported to the
// caller, who may invoke resend.
func (s *SMSService) SendOTP(phoneNumber, otpCode string) (bool, string) {
	if s.apiKey == "" {
		return false, "SMS API key not configured"
	}

	// If the base URL already includes a protocol (for testing), use it as-is
	var endpoint string
	if strings.HasPrefix(s.baseURL, "http://") || strings.HasPrefix(s.baseURL, "https://") {
		endpoint = fmt.Sprintf("%s/dev/bulkV2", s.baseURL)
	} else {
		endpoint = fmt.Sprintf("https://%s/dev/bulkV2", s.baseURL)
	}

	message := fmt.Sprintf("Your Om Engineers OTP is: %s. Valid for %d minutes. Do not share with anyone.",
		otpCode, config.GetConfig().OTPExpiryMinutes)

	params := url.Values{}
	params.Set("authorization", s.apiKey)
	params.Set("route", "q")
	params.Set("message", message)
	params.Set("numbers", phoneNumber)
	params.Set("flash", "0")

	req, err := http.NewRequest("GET", endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return false, fmt.Sprintf("failed to create request: %v", err)
	}
	req.Header.Set("cache-control", "no-cache")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, fmt.Sprintf("Network error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return false, fmt.Sprintf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result fast2smsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, fmt.Sprintf("failed to decode gateway response: %v", err)
	}

	if !result.Return {
		if len(result.Message) > 0 {
			return false, result.Message[0]
		}
		return false, "Unknown gateway error"
	}

	return true, "OTP sent successfully"
}
