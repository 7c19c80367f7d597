package middleware

import (
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/congo-pay/homebank/internal/logging"
)

func newRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		cache.Close()
		mr.Close()
	})
	return cache
}

func setupIdempotentApp(t *testing.T) (*fiber.App, *int32) {
	t.Helper()
	cache := newRedis(t)
	var hits int32
	app := fiber.New()
	app.Use(Idempotency(cache, time.Minute, logging.Discard()))
	app.Post("/transactions/transfer", func(c *fiber.Ctx) error {
		n := atomic.AddInt32(&hits, 1)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"hit": n})
	})
	return app, &hits
}

func post(t *testing.T, app *fiber.App, key, token string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/transactions/transfer", strings.NewReader("{}"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(idempotencyKeyHeader, key)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestIdempotencyWithoutKeyPassesThrough(t *testing.T) {
	app, hits := setupIdempotentApp(t)

	for i := 0; i < 2; i++ {
		if status, _ := post(t, app, "", "tok"); status != fiber.StatusCreated {
			t.Fatalf("expected %d got %d", fiber.StatusCreated, status)
		}
	}
	if atomic.LoadInt32(hits) != 2 {
		t.Fatalf("expected both requests to reach the handler, got %d", *hits)
	}
}

func TestIdempotencyReturnsCachedResponse(t *testing.T) {
	app, hits := setupIdempotentApp(t)

	status, first := post(t, app, "abc123", "tok")
	if status != fiber.StatusCreated {
		t.Fatalf("expected status %d got %d", fiber.StatusCreated, status)
	}

	status, second := post(t, app, "abc123", "tok")
	if status != fiber.StatusCreated {
		t.Fatalf("expected cached status %d got %d", fiber.StatusCreated, status)
	}
	if first != second {
		t.Fatalf("expected cached payload %s got %s", first, second)
	}
	if atomic.LoadInt32(hits) != 1 {
		t.Fatalf("expected one handler invocation, got %d", *hits)
	}
}

func TestIdempotencyKeysAreScopedToCaller(t *testing.T) {
	app, hits := setupIdempotentApp(t)

	post(t, app, "same", "tok-a")
	post(t, app, "same", "tok-b")
	if atomic.LoadInt32(hits) != 2 {
		t.Fatalf("expected separate callers to run separately, got %d", *hits)
	}
}
