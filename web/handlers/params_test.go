package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runParam runs fn against a request for target and returns status and body
func runParam(t *testing.T, target string, fn func(c *fiber.Ctx) (any, error)) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		v, err := fn(c)
		if err != nil {
			return err
		}
		return c.JSON(v)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestIdentityParam(t *testing.T) {
	read := func(c *fiber.Ctx) (any, error) { return identityParam(c) }

	status, body := runParam(t, "/?username=ae1&user_id=7", read)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"UserID":7,"Username":"ae1"}`, body)

	status, body = runParam(t, "/?username=%20", read)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Missing required parameter: username", body)

	status, _ = runParam(t, "/?user_id=-3", read)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestQuartersParam(t *testing.T) {
	read := func(c *fiber.Ctx) (any, error) { return quartersParam(c) }

	status, body := runParam(t, "/?quarters=1,%203,,4", read)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[1,3,4]`, body)

	status, _ = runParam(t, "/?quarters=0", read)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestLimitParam(t *testing.T) {
	read := func(c *fiber.Ctx) (any, error) { return limitParam(c, 100) }

	_, body := runParam(t, "/", read)
	assert.Equal(t, "100", body)

	_, body = runParam(t, "/?limit=5000", read)
	assert.Equal(t, "1000", body)

	status, _ := runParam(t, "/?limit=-1", read)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestDateParam(t *testing.T) {
	read := func(c *fiber.Ctx) (any, error) { return dateParam(c, "start_date") }

	_, body := runParam(t, "/?start_date=2024-03-01", read)
	assert.Equal(t, `"2024-03-01T00:00:00Z"`, body)

	_, body = runParam(t, "/", read)
	assert.Equal(t, "null", body)

	status, _ := runParam(t, "/?start_date=2024-13-01", read)
	assert.Equal(t, http.StatusBadRequest, status)
}
