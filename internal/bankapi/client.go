package bankapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/congo-pay/homebank/internal/logging"
)

// Client talks to the banking backend. It holds no per-account state; every
// call fetches what it needs.
type Client struct {
	baseURL string
	logger  *slog.Logger
}

// New builds a client for the backend rooted at baseURL (e.g. http://localhost:8080/api).
func New(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// BaseURL returns the backend root the client was configured with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do sends one request and decodes a 2xx JSON body into out (when out is non-nil).
// Every transport failure comes back as *APIError.
func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	req, err := NewRequest(method, token, body)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return rejectWithoutResponse(err)
	}

	agent := fiber.AcquireAgent()
	agent.Request().Header.SetMethod(req.Method)
	agent.Request().SetRequestURI(c.baseURL + path)
	for key, value := range req.Headers {
		agent.Set(key, value)
	}
	if req.Body != nil {
		agent.Body(req.Body)
	}
	if deadline, ok := ctx.Deadline(); ok {
		agent.Timeout(time.Until(deadline))
	}

	if err := agent.Parse(); err != nil {
		fiber.ReleaseAgent(agent)
		return rejectWithoutResponse(fmt.Errorf("parse request: %w", err))
	}

	// Bytes releases the agent.
	code, payload, errs := agent.Bytes()
	if len(errs) > 0 {
		cause := errors.Join(errs...)
		c.logger.WarnContext(ctx, "bankapi request failed",
			slog.String("method", req.Method),
			slog.String("path", path),
			slog.Any("error", cause),
		)
		return rejectWithoutResponse(cause)
	}

	c.logger.DebugContext(ctx, "bankapi request",
		slog.String("method", req.Method),
		slog.String("path", path),
		slog.Int("status", code),
	)

	if code < fiber.StatusOK || code >= fiber.StatusMultipleChoices {
		return rejectResponse(code)
	}

	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return rejectWithoutResponse(fmt.Errorf("decode response: %w", err))
	}
	return nil
}
