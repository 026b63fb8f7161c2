package utils

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"smart-delivery/types"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhoneHelpers(t *testing.T) {
	assert.Equal(t, "9876543210", SanitizePhone("+(98) 7654-3210"))
	assert.True(t, IsValidPhone("9876543210"))
	assert.False(t, IsValidPhone("987654321"))
	assert.False(t, IsValidPhone("98765432101"))
	assert.Equal(t, "******3210", MaskPhone("9876543210"))
	assert.Equal(t, "321", MaskPhone("321"))
}

func TestDates(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	late := time.Date(2024, 1, 31, 23, 30, 0, 0, ist)

	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), Day(late))
	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), AddDays(late, 1))
	assert.Equal(t, "2024-01-31", FormatDate(late))

	d, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("2023-02-29")
	assert.Error(t, err)
	_, err = ParseDate("")
	assert.Error(t, err)

	d, err = ParseDateOr("", late)
	require.NoError(t, err)
	assert.Equal(t, Day(late), d)
}

func TestRespondErrorMapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		kind    string
		message string
	}{
		{types.Validation("bad date"), fiber.StatusBadRequest, "validation", "bad date"},
		{types.ErrDuplicateAssignment, fiber.StatusConflict, "conflict", "duplicate assignment"},
		{types.ErrOwedPending, fiber.StatusUnprocessableEntity, "invalid_state", "owed deliveries pending"},
		{types.NotFound("customer not found"), fiber.StatusNotFound, "not_found", "customer not found"},
		{types.ErrInvalidCredentials, fiber.StatusUnauthorized, "unauthorized", "invalid credentials"},
		{types.Forbidden("nope"), fiber.StatusForbidden, "forbidden", "nope"},
		{types.Dependency("failed to access customers", errors.New("dial tcp: refused")), fiber.StatusServiceUnavailable, "dependency", "failed to access customers"},
		{errors.New("raw driver failure"), fiber.StatusServiceUnavailable, "dependency", "Internal server error"},
	}

	for _, tc := range cases {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error { return RespondError(c, tc.err) })

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)

		var body types.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, tc.status, resp.StatusCode)
		assert.Equal(t, tc.status, body.Status)
		assert.Equal(t, tc.kind, body.Kind)
		assert.Equal(t, tc.message, body.Message)
	}
}

func TestParamUint(t *testing.T) {
	app := fiber.New()
	app.Get("/:id", func(c *fiber.Ctx) error {
		id, err := ParamUint(c, "id")
		if err != nil {
			return RespondError(c, err)
		}
		return Respond(c, fiber.StatusOK, "ok", id)
	})

	for path, status := range map[string]int{"/7": 200, "/0": 400, "/abc": 400, "/-1": 400} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		assert.Equal(t, status, resp.StatusCode, path)
	}
}

func TestSanitizeBody(t *testing.T) {
	raw := `{"username":"admin","password":"secret","nested":{"new_password":"x","Token":"abc"},"items":[{"current_password":"y"}]}`
	out := sanitizeBody([]byte(raw))

	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, `"abc"`)
	assert.Contains(t, out, `"username":"admin"`)
	assert.Equal(t, 4, strings.Count(out, "[REDACTED]"))

	assert.Equal(t, "plain text", sanitizeBody([]byte("plain text")))
	assert.Equal(t, "", sanitizeBody(nil))

	long := sanitizeBody([]byte(strings.Repeat("a", maxLoggedBody+10)))
	assert.True(t, strings.HasSuffix(long, "...[TRUNCATED]"))
}
