package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clinic-booking-service/internal/domain/repository"
	"clinic-booking-service/pkg/logger"
)

// SMSSender delivers SMS channel messages through an HTTP gateway
type SMSSender struct {
	logger      logger.Logger
	baseURL     string
	bearerToken string
	client      *http.Client
}

// NewSMSSender creates a new SMS gateway sender
func NewSMSSender(baseURL, bearerToken string, logger logger.Logger) *SMSSender {
	return &SMSSender{
		logger:      logger,
		baseURL:     baseURL,
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type smsRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Message     string `json:"message"`
}

// Send posts the message to the gateway and returns its assigned message id
func (s *SMSSender) Send(ctx context.Context, msg *repository.OutboundMessage) (string, error) {
	body := smsRequest{
		PhoneNumber: msg.Contact,
		// SMS has no subject line; prepend it to the body.
		Message: fmt.Sprintf("%s\n%s", msg.Subject, msg.Body),
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sms payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/sms/send", s.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return "", fmt.Errorf("sms gateway returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Success bool `json:"success"`
		Data    struct {
			MessageID string `json:"messageId"`
			Status    string `json:"status"`
		} `json:"data"`
		Error struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if !response.Success {
		return "", fmt.Errorf("sms gateway rejected message: %s (code: %s)", response.Error.Message, response.Error.Code)
	}

	s.logger.Info("SMS sent", "phone", msg.Contact, "messageId", response.Data.MessageID)
	return response.Data.MessageID, nil
}
