package sms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"election-portal/logger"
)

// Client delivers one-time codes through the SMS gateway. The request has a
// bounded timeout; a timeout or gateway error is surfaced to the caller as a
// delivery failure and is never retried here.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type sendResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewClient() *Client {
	return &Client{
		baseURL:    strings.TrimRight(os.Getenv("SMS_GATEWAY_URL"), "/"),
		apiKey:     os.Getenv("SMS_GATEWAY_API_KEY"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// SendCode delivers a one-time code to the given phone number. Without a
// configured gateway the code is logged locally instead, so development
// environments stay usable.
func (c *Client) SendCode(phone, code string) error {
	if c.baseURL == "" {
		logger.Warning(fmt.Sprintf("SMS gateway not configured, code for %s: %s", phone, code))
		return nil
	}

	reqBody, err := json.Marshal(sendRequest{
		Phone:   phone,
		Message: fmt.Sprintf("Your election login code is %s. It expires in 10 minutes.", code),
	})
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("gateway error: status=%d body=%s", resp.StatusCode, string(body))
	}

	var sResp sendResponse
	if err := json.Unmarshal(body, &sResp); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	if strings.ToLower(sResp.Status) != "success" {
		return fmt.Errorf("sms delivery failed: %s", sResp.Message)
	}

	return nil
}
