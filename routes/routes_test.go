package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"smart-delivery/config"
	"smart-delivery/database/seeders"
	"smart-delivery/database/testdb"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Message string          `json:"message"`
	Status  int             `json:"status"`
	Kind    string          `json:"kind"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

type client struct {
	t   *testing.T
	app *fiber.App
}

func newClient(t *testing.T) *client {
	db := testdb.Open(t)
	require.NoError(t, seeders.SeedAdmin(db, "admin", "admin-pass-123"))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret: "0123456789abcdef0123",
			TokenTTL:  time.Hour,
		},
		Ledger: config.LedgerConfig{CarryForwardStrategy: "extend"},
	}
	svc, err := NewServices(db, cfg)
	require.NoError(t, err)

	app := fiber.New()
	SetupRoutes(app, db, svc, nil)
	return &client{t: t, app: app}
}

func (c *client) do(method, path, token string, body interface{}) (int, envelope) {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := c.app.Test(req, -1)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func (c *client) login(username, password string) string {
	c.t.Helper()
	status, env := c.do(http.MethodPost, "/api/login", "", fiber.Map{"username": username, "password": password})
	require.Equal(c.t, http.StatusOK, status, env.Message)
	require.NotEmpty(c.t, env.Token)
	return env.Token
}

func TestLoginFailuresAreUniform(t *testing.T) {
	c := newClient(t)

	status, wrong := c.do(http.MethodPost, "/api/login", "", fiber.Map{"username": "admin", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, unknown := c.do(http.MethodPost, "/api/login", "", fiber.Map{"username": "ghost", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, wrong.Message, unknown.Message)

	status, env := c.do(http.MethodGet, "/api/customers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", env.Kind)
}

func TestDeliveryFlow(t *testing.T) {
	c := newClient(t)
	admin := c.login("admin", "admin-pass-123")

	status, env := c.do(http.MethodPost, "/api/customers", admin, fiber.Map{
		"full_name":          "Asha",
		"phone":              "9876543210",
		"plan":               "Daily",
		"subscription_start": "2024-01-01",
		"subscription_days":  30,
	})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var customer struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &customer))

	status, env = c.do(http.MethodPost, "/api/drivers", admin, fiber.Map{"full_name": "Ravi", "phone": "9123456780"})
	require.Equal(t, http.StatusCreated, status, env.Message)
	var created struct {
		Driver struct {
			ID uint `json:"id"`
		} `json:"driver"`
		Username            string `json:"username"`
		ProvisionalPassword string `json:"provisional_password"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	assign := fiber.Map{"date": "2024-01-05", "customer_id": customer.ID, "driver_id": created.Driver.ID}
	status, env = c.do(http.MethodPost, "/api/assignments", admin, assign)
	require.Equal(t, http.StatusCreated, status, env.Message)
	var assignment struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &assignment))

	status, env = c.do(http.MethodPost, "/api/assignments", admin, assign)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "conflict", env.Kind)

	// a provisional password only opens the account routes
	driver := c.login(created.Username, created.ProvisionalPassword)
	status, _ = c.do(http.MethodGet, "/api/my/assignments?date=2024-01-05", driver, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, env = c.do(http.MethodPost, "/api/auth/change-password", driver, fiber.Map{
		"current_password": created.ProvisionalPassword,
		"new_password":     "driver-pass-456",
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	driver = env.Token

	status, env = c.do(http.MethodGet, "/api/my/assignments?date=2024-01-05", driver, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var rows []struct {
		AssignmentID uint   `json:"assignment_id"`
		Status       string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "not_marked", rows[0].Status)

	status, _ = c.do(http.MethodGet, "/api/customers", driver, nil)
	assert.Equal(t, http.StatusForbidden, status)

	mark := fiber.Map{"assignment_id": assignment.ID, "date": "2024-01-05", "status": "missed"}
	for i := 0; i < 2; i++ {
		status, env = c.do(http.MethodPost, "/api/deliveries/mark", driver, mark)
		require.Equal(t, http.StatusOK, status, env.Message)
	}

	status, env = c.do(http.MethodGet, "/api/customers/carry-forward", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var owed []struct {
		ID              uint   `json:"id"`
		Owed            int    `json:"owed"`
		SubscriptionEnd string `json:"subscription_end"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &owed))
	require.Len(t, owed, 1)
	assert.Equal(t, 1, owed[0].Owed)
	assert.Contains(t, owed[0].SubscriptionEnd, "2024-02-01")

	status, env = c.do(http.MethodGet, "/api/dashboard/kpis?date=2024-01-05", admin, nil)
	require.Equal(t, http.StatusOK, status, env.Message)
	var kpis struct {
		KPIs struct {
			Missed int64 `json:"missed"`
			Total  int64 `json:"total"`
		} `json:"kpis"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &kpis))
	assert.Equal(t, int64(1), kpis.KPIs.Missed)
	assert.Equal(t, int64(1), kpis.KPIs.Total)

	status, env = c.do(http.MethodPost, "/api/customers/"+strconv.Itoa(int(customer.ID))+"/renew", admin, fiber.Map{"days": 30})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "invalid_state", env.Kind)
}
