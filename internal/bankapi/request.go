package bankapi

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Request is the outbound request descriptor built for every backend call.
type Request struct {
	Method  string
	Headers map[string]string
	Body    []byte
}

// NewRequest builds a request descriptor. The method defaults to GET. The
// Authorization header is always present and is empty when no token is given.
func NewRequest(method, token string, body any) (Request, error) {
	if method == "" {
		method = fiber.MethodGet
	}

	authorization := ""
	if token != "" {
		authorization = "Bearer " + token
	}

	req := Request{
		Method: method,
		Headers: map[string]string{
			fiber.HeaderContentType:   fiber.MIMEApplicationJSON,
			fiber.HeaderAuthorization: authorization,
		},
	}

	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return Request{}, fmt.Errorf("encode request body: %w", err)
		}
		req.Body = payload
	}

	return req, nil
}
