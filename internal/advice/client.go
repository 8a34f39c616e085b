// Package advice asks Gemini for short free-text guidance about the current
// weather. Every code path returns a display string: callers render whatever
// comes back and never see an error.
package advice

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"weathercheck/internal/models"
)

const (
	requestsPerMinute = 60
	window            = 60 * time.Second
	retryAttempts     = 3
	emptyRetryDelay   = 1 * time.Second
	errorRetryDelay   = 2 * time.Second
)

// User-facing messages. The advice feature degrades to these strings instead
// of failing; the dashboard renders them verbatim.
const (
	msgNotConfigured   = "Weather assistant is not configured. Set GEMINI_API_KEY to enable it."
	msgRemoteRateLimit = "Rate limit reached. Please try again in 60 seconds."
	msgNoResponse      = "Unable to generate a response. Please try again."
	msgInvalidKey      = "Invalid API key configuration."
	msgNetworkError    = "Network error. Please check your connection."
)

// generator is the single call made per advice attempt. Satisfied by the
// Gemini-backed implementation in gemini.go and by test fakes.
type generator interface {
	generate(ctx context.Context, prompt string) (string, error)
}

// Client generates weather advice with a coarse sliding-window request
// budget: the window resets wholesale once 60 seconds have elapsed since the
// last tracked request rather than evicting individual old requests.
type Client struct {
	gen generator

	mu          sync.Mutex
	lastRequest *time.Time
	remaining   int

	now   func() time.Time
	sleep func(time.Duration)
}

func newClient(gen generator) *Client {
	return &Client{
		gen:       gen,
		remaining: requestsPerMinute,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

// NewUnconfigured returns a client whose Advice always reports that the
// assistant is not set up. Used when no Gemini API key is present, so the
// rest of the dashboard keeps working.
func NewUnconfigured() *Client {
	return newClient(nil)
}

// Advice sends the snapshot and question to the model and returns the
// generated text, or a descriptive message when the call cannot be made.
func (c *Client) Advice(ctx context.Context, snap *models.WeatherSnapshot, question string) string {
	if c.gen == nil {
		return msgNotConfigured
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if refused, msg := c.checkWindow(); refused {
		return msg
	}

	prompt := buildPrompt(snap, question)

	for attempt := 0; attempt < retryAttempts; attempt++ {
		c.consume()
		text, err := c.gen.generate(ctx, prompt)
		if err != nil {
			errText := strings.ToLower(err.Error())
			if isRateLimitError(errText) {
				// Fast-fail every call for the rest of the window.
				c.remaining = 0
				return msgRemoteRateLimit
			}
			if attempt < retryAttempts-1 {
				c.sleep(errorRetryDelay)
				continue
			}
			return classifyFinalError(errText, err)
		}

		if trimmed := strings.TrimSpace(text); trimmed != "" {
			return trimmed
		}
		if attempt < retryAttempts-1 {
			c.sleep(emptyRetryDelay)
		}
	}

	return msgNoResponse
}

// checkWindow applies the reset-on-check policy. Caller holds c.mu.
func (c *Client) checkWindow() (refused bool, msg string) {
	if c.lastRequest == nil {
		return false, ""
	}
	elapsed := c.now().Sub(*c.lastRequest)
	if elapsed >= window {
		c.remaining = requestsPerMinute
		return false, ""
	}
	if c.remaining <= 0 {
		wait := int((window - elapsed).Seconds())
		return true, fmt.Sprintf("Rate limit reached. Please wait %d seconds.", wait)
	}
	return false, ""
}

// consume records one network attempt against the window. Caller holds c.mu.
func (c *Client) consume() {
	now := c.now()
	c.lastRequest = &now
	if c.remaining > 0 {
		c.remaining--
	}
}

func buildPrompt(snap *models.WeatherSnapshot, question string) string {
	return fmt.Sprintf(
		"Current conditions in %s: %.1f°C, %s.\nQuestion: %s\nKeep the answer short.",
		snap.City, snap.Temperature, snap.Description, question)
}

func isRateLimitError(errText string) bool {
	for _, marker := range []string{"429", "quota", "rate limit"} {
		if strings.Contains(errText, marker) {
			return true
		}
	}
	return false
}

func classifyFinalError(errText string, err error) string {
	if strings.Contains(errText, "api_key") || strings.Contains(errText, "api key") {
		return msgInvalidKey
	}
	if strings.Contains(errText, "network") {
		return msgNetworkError
	}
	return fmt.Sprintf("Error: %v", err)
}
