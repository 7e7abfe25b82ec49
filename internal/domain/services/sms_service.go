package services

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Cocorine/backend-sirene-ecole/internal/infrastructure/config"
	"github.com/Cocorine/backend-sirene-ecole/pkg/logger"
)

// InterfaceSmsService defines the SMS delivery interface
type InterfaceSmsService interface {
	Send(telephone, message string) error
}

// SmsService delivers SMS through the configured provider. With no provider
// configured the message is only logged, which is what local environments
// run with.
type SmsService struct {
	Config *config.Config
	Client *http.Client
}

// NewSmsService creates a new SMS service
func NewSmsService(cfg *config.Config) InterfaceSmsService {
	return &SmsService{
		Config: cfg,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// 1. Send dispatches one message to one number
func (s *SmsService) Send(telephone, message string) error {
	switch s.Config.SmsProvider {
	case "twilio":
		return s.sendTwilio(telephone, message)
	case "africas_talking":
		return s.sendAfricasTalking(telephone, message)
	default:
		logger.Info("sms (log only) to %s: %s", telephone, message)
		return nil
	}
}

func (s *SmsService) sendTwilio(telephone, message string) error {
	endpoint := fmt.Sprintf("https://api.twilio.com/2010-04-01/Accounts/%s/Messages.json", s.Config.SmsAPIKey)
	form := url.Values{}
	form.Set("To", telephone)
	form.Set("From", s.Config.SmsFromNumber)
	form.Set("Body", message)

	req, err := http.NewRequest(http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(s.Config.SmsAPIKey, s.Config.SmsAPISecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("twilio responded %d", resp.StatusCode)
	}
	return nil
}

func (s *SmsService) sendAfricasTalking(telephone, message string) error {
	form := url.Values{}
	form.Set("username", s.Config.SmsUsername)
	form.Set("to", telephone)
	form.Set("message", message)
	if s.Config.SmsFromNumber != "" {
		form.Set("from", s.Config.SmsFromNumber)
	}

	req, err := http.NewRequest(http.MethodPost, "https://api.africastalking.com/version1/messaging",
		strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("apiKey", s.Config.SmsAPIKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("africastalking responded %d", resp.StatusCode)
	}
	return nil
}
