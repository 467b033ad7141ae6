package web_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harperreed/voss/auth"
	"github.com/harperreed/voss/config"
	"github.com/harperreed/voss/crm"
	"github.com/harperreed/voss/db"
	"github.com/harperreed/voss/drafts"
	"github.com/harperreed/voss/followups"
	"github.com/harperreed/voss/models"
	"github.com/harperreed/voss/testutil"
	"github.com/harperreed/voss/triage"
	"github.com/harperreed/voss/web"
)

type stubGenerator struct{ text string }

func (g stubGenerator) Generate(context.Context, string) (string, error) { return g.text, nil }

type fixture struct {
	database *db.DB
	server   *web.Server
}

func newFixture(t *testing.T, mutate func(*web.Deps)) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	engine, err := triage.NewEngine(triage.DefaultThresholds())
	require.NoError(t, err)

	deps := web.Deps{
		Database:  database,
		CRM:       crm.NewService(database, "US", nil),
		Feed:      triage.NewService(db.NewSnapshotLoader(database), engine, nil),
		FollowUps: followups.NewSQLManager(database.Conn()),
		Now:       func() time.Time { return testutil.AsOf },
	}
	if mutate != nil {
		mutate(&deps)
	}
	return &fixture{database: database, server: web.NewServer(deps)}
}

func (f *fixture) do(t *testing.T, method, path, body string, header ...string) (*httptest.ResponseRecorder, web.APIResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)

	var payload web.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	return rec, payload
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, nil)
	rec, payload := f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", payload.Status)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestActionFeedEndpoint(t *testing.T) {
	f := newFixture(t, nil)
	contact := testutil.InsertContact(t, f.database, testutil.NewContact())
	testutil.InsertFollowUp(t, f.database, testutil.NewFollowUp(contact.ID, "2024-01-10"))

	rec, payload := f.do(t, http.MethodGet, "/api/dashboard/action-feed", "")
	require.Equal(t, http.StatusOK, rec.Code)
	data := payload.Data.(map[string]any)
	assert.Equal(t, "2024-01-15", data["today"])
	required := data["action_required"].(map[string]any)
	assert.Len(t, required["overdue_follow_ups"], 1)
	assert.Equal(t, []any{}, required["due_today"])

	rec, payload = f.do(t, http.MethodGet, "/api/dashboard/action-feed?as_of=2024-01-08T12:00:00Z", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-01-08", payload.Data.(map[string]any)["today"])

	rec, _ = f.do(t, http.MethodGet, "/api/dashboard/action-feed?as_of=yesterday", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestActionFeedUnavailable(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.database.Close())

	rec, payload := f.do(t, http.MethodGet, "/api/dashboard/action-feed", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "error", payload.Status)
	assert.Nil(t, payload.Data)
}

func TestFollowUpLifecycleOverHTTP(t *testing.T) {
	f := newFixture(t, nil)
	contact := testutil.InsertContact(t, f.database, testutil.NewContact())

	rec, payload := f.do(t, http.MethodPost, "/api/follow-ups",
		`{"contact_id":"`+contact.ID.String()+`","title":"Send deck","due_date":"2024-01-20","due_time":"09:30"}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Message)
	id := payload.Data.(map[string]any)["id"].(string)

	rec, payload = f.do(t, http.MethodPatch, "/api/follow-ups/"+id+"/snooze", `{"due_date":"2024-01-10"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, payload.Message, "due_date")

	rec, payload = f.do(t, http.MethodPatch, "/api/follow-ups/"+id+"/snooze", `{"due_date":"2024-01-22"}`)
	require.Equal(t, http.StatusOK, rec.Code, payload.Message)
	assert.Equal(t, "2024-01-22", payload.Data.(map[string]any)["due_date"])

	rec, _ = f.do(t, http.MethodPatch, "/api/follow-ups/"+id+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, payload = f.do(t, http.MethodPatch, "/api/follow-ups/"+id+"/complete", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "error", payload.Status)

	rec, _ = f.do(t, http.MethodPatch, "/api/follow-ups/"+contact.ID.String()+"/complete", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodPatch, "/api/follow-ups/not-a-uuid/complete", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, payload = f.do(t, http.MethodGet, "/api/follow-ups?group=true", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload.Data.(map[string]any)["completed"], 1)

	rec, payload = f.do(t, http.MethodGet, "/api/follow-ups?status=pending", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, payload.Data)
}

func TestCreateFollowUpValidation(t *testing.T) {
	f := newFixture(t, nil)
	contact := testutil.InsertContact(t, f.database, testutil.NewContact())

	rec, _ := f.do(t, http.MethodPost, "/api/follow-ups", `{"contact_id":"`+contact.ID.String()+`","title":"","due_date":"2024-01-20"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/follow-ups", `{"contact_id":"nope","title":"x","due_date":"2024-01-20"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestContactsAndDealsOverHTTP(t *testing.T) {
	f := newFixture(t, nil)

	rec, payload := f.do(t, http.MethodPost, "/api/contacts", `{"first_name":"Ada","email":"ada@example.com","company_name":"Engines"}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Message)
	id := payload.Data.(map[string]any)["id"].(string)

	rec, _ = f.do(t, http.MethodPatch, "/api/contacts/"+id+"/stage", `{"stage":"active"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/interactions", `{"contact_id":"`+id+`","type":"call","direction":"inbound"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, payload = f.do(t, http.MethodGet, "/api/contacts/"+id+"/interactions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload.Data, 1)

	rec, payload = f.do(t, http.MethodPost, "/api/deals", `{"contact_id":"`+id+`","title":"Pilot","value":5000}`)
	require.Equal(t, http.StatusCreated, rec.Code, payload.Message)
	dealID := payload.Data.(map[string]any)["id"].(string)

	rec, _ = f.do(t, http.MethodPatch, "/api/deals/"+dealID+"/stage", `{"stage":"sideways"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = f.do(t, http.MethodPatch, "/api/deals/"+dealID+"/stage", `{"stage":"won"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodPost, "/api/companies", `{"name":"engines"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, payload = f.do(t, http.MethodGet, "/api/contacts?q=ada", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, payload.Data, 1)

	rec, _ = f.do(t, http.MethodDelete, "/api/contacts/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	rec, _ = f.do(t, http.MethodDelete, "/api/contacts/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestJWTRequiredWhenConfigured(t *testing.T) {
	manager := auth.NewJWTManager("s3cret", time.Hour)
	f := newFixture(t, func(d *web.Deps) { d.JWT = manager })

	rec, _ := f.do(t, http.MethodGet, "/api/contacts", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/api/contacts", "", "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := manager.GenerateToken("owner", "me@example.com")
	require.NoError(t, err)
	rec, _ = f.do(t, http.MethodGet, "/api/contacts", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = f.do(t, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDraftEndpoint(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		f := newFixture(t, nil)
		rec, _ := f.do(t, http.MethodPost, "/api/email/draft", `{"contact_id":"`+testutil.NewContact().ID.String()+`","intent":"hi"}`)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("rate limited", func(t *testing.T) {
		var database *db.DB
		f := newFixture(t, func(d *web.Deps) {
			database = d.Database
			d.Drafts = drafts.NewService(d.Database.Conn(), stubGenerator{text: `{"subject":"Hi","body":"Hello"}`}, nil)
			d.RateLimit = config.RateLimitConfig{Requests: 1, Interval: time.Hour}
		})
		contact := testutil.InsertContact(t, database, testutil.NewContact())
		body := `{"contact_id":"` + contact.ID.String() + `","intent":"check in"}`

		rec, payload := f.do(t, http.MethodPost, "/api/email/draft", body)
		require.Equal(t, http.StatusOK, rec.Code, payload.Message)
		assert.Equal(t, "Hi", payload.Data.(map[string]any)["subject"])

		rec, _ = f.do(t, http.MethodPost, "/api/email/draft", body)
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	})
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, web.StatusFor(models.NewValidationError("x", "", "f", "bad")))
	assert.Equal(t, http.StatusNotFound, web.StatusFor(models.NewNotFoundError("x", "1")))
	assert.Equal(t, http.StatusConflict, web.StatusFor(&models.InvalidStateError{Entity: "x"}))
	assert.Equal(t, http.StatusServiceUnavailable, web.StatusFor(&models.DataUnavailableError{Op: "load"}))
	assert.Equal(t, http.StatusGatewayTimeout, web.StatusFor(drafts.ErrTimeout))
	assert.Equal(t, http.StatusInternalServerError, web.StatusFor(context.Canceled))
}
