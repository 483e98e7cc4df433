package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-backend/config"
	"procurement-backend/controllers"
	"procurement-backend/inbound"
	"procurement-backend/middlewares"
	"procurement-backend/models"
	"procurement-backend/services"
)

// unmatchedInbox answers every inbound email with "no matching SentRfp"; the
// other Procurement methods are never reached in these tests.
type unmatchedInbox struct {
	controllers.Procurement
	calls int
}

func (u *unmatchedInbox) ProcessInboundReply(_ context.Context, email inbound.Email) (*models.Reply, error) {
	u.calls++
	return nil, fmt.Errorf("%w for email ID: %s", services.ErrNoMatchingSentRfp, email.Identifier())
}

func newApp(t *testing.T, cfg *config.Config) (*fiber.App, *unmatchedInbox) {
	t.Helper()
	auth, err := middlewares.NewAuth("test-secret", true)
	require.NoError(t, err)

	svc := &unmatchedInbox{}
	ctl := controllers.New(controllers.Deps{Service: svc, Auth: auth})
	return NewApp(cfg, ctl, auth, nil), svc
}

func testConfig() *config.Config {
	return &config.Config{
		BodyLimitBytes:  1024,
		AllowedOrigins:  "*",
		RateLimitMax:    60,
		RateLimitWindow: time.Minute,
	}
}

func postInbound(t *testing.T, app *fiber.App, form url.Values) *http.Response {
	t.Helper()
	req := httptest.NewRequest("POST", InboundPath, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestInboundWebhookIsNotRateLimited(t *testing.T) {
	app, svc := newApp(t, testConfig())

	form := url.Values{"from": {"sales@tech.example"}, "In-Reply-To": {"<abc@mg.example.com>"}}
	statuses := map[int]int{}
	for i := 0; i < 70; i++ {
		statuses[postInbound(t, app, form).StatusCode]++
	}
	assert.Equal(t, map[int]int{200: 70}, statuses)
	assert.Equal(t, 70, svc.calls)
}

func TestAPIRoutesAreRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitMax = 2
	app, _ := newApp(t, cfg)

	statuses := []int{}
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest("GET", "/vendors", nil))
		require.NoError(t, err)
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{401, 401, 429}, statuses)
}

func TestInboundWebhookAcceptsLargeMessages(t *testing.T) {
	app, svc := newApp(t, testConfig())

	// well over the API limit, far under the inbound one
	big := strings.Repeat("Angebot Zeile. ", 4096)
	resp := postInbound(t, app, url.Values{"from": {"sales@tech.example"}, "body-plain": {big}})
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 1, svc.calls)

	req := httptest.NewRequest("POST", "/send-rfp", strings.NewReader(`{"rfpId":1,"email":"`+big+`"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, 413, resp.StatusCode)
}

func TestUnknownRouteIsNotFound(t *testing.T) {
	app, _ := newApp(t, testConfig())

	resp, err := app.Test(httptest.NewRequest("GET", "/does-not-exist", nil))
	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/vendors", nil))
	require.NoError(t, err)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestPublicRoutes(t *testing.T) {
	app, _ := newApp(t, testConfig())

	for _, path := range []string{"/healthz", "/metrics"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode, path)
	}
}
