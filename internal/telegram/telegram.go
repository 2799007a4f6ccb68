// Package telegram sends operational reports and alerts to the admin
// chat. Posting to the public page happens on Facebook; Telegram is
// only the back office.
package telegram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

var apiBase = "https://api.telegram.org"

// SetAPIBase overrides the Bot API host. Tests point it at a local
// server.
func SetAPIBase(base string) {
	apiBase = base
}

// SendMessage sends an HTML-formatted message with retry logic.
func SendMessage(token, chatID, text string) error {
	maxRetries := 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := sendMessageOnce(token, chatID, text)
		if err == nil {
			return nil
		}

		log.Printf("Error sending to Telegram (try %d/%d): %v", attempt, maxRetries, err)

		if attempt < maxRetries {
			// Exponential backoff: 2^attempt seconds
			waitTime := time.Duration(1<<attempt) * time.Second
			time.Sleep(waitTime)
		}
	}

	return fmt.Errorf("can't send message after %d tries", maxRetries)
}

// sendMessageOnce does one try to send the message
func sendMessageOnce(token, chatID, text string) error {
	url := fmt.Sprintf("%s/bot%s/sendMessage", apiBase, token)

	payload := map[string]interface{}{
		"chat_id":                  chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("error make JSON: %v", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Post(url, "application/json", bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("error HTTP request: %v", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			log.Printf("Warning: failed to close response body: %v", err)
		}
	}(resp.Body)

	if resp.StatusCode != 200 {
		return fmt.Errorf("telegram API error: status %d", resp.StatusCode)
	}

	return nil
}
