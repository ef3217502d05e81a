package bot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signedInitData builds initData the way Telegram signs it for a Mini App
func signedInitData(token string, userID int64, authDate time.Time) string {
	values := url.Values{}
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("query_id", "AAH-test")
	values.Set("user", fmt.Sprintf(`{"id":%d,"first_name":"Admin"}`, userID))
	values.Set("hash", signInitData(values, token))
	return values.Encode()
}

func newTestServer(t *testing.T) (*Bot, *http.ServeMux) {
	t.Helper()

	b, _, _ := newTestBot(t, Options{})
	mux := http.NewServeMux()
	NewHTTPServer(b).RegisterRoutes(mux)
	return b, mux
}

func doRequest(mux *http.ServeMux, path, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestValidateTelegramInitData(t *testing.T) {
	b, _, _ := newTestBot(t, Options{})
	hs := NewHTTPServer(b)
	now := time.Now()

	userID, err := hs.validateTelegramInitData(signedInitData(b.token, testAdminID, now))
	require.NoError(t, err)
	assert.Equal(t, testAdminID, userID)

	tests := []struct {
		name     string
		initData string
	}{
		{"empty", ""},
		{"wrong token", signedInitData("999:other", testAdminID, now)},
		{"not admin", signedInitData(b.token, testUserID, now)},
		{"expired", signedInitData(b.token, testAdminID, now.Add(-25*time.Hour))},
		{"no hash", "auth_date=1&user=%7B%22id%22%3A100%7D"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := hs.validateTelegramInitData(tt.initData)
			assert.Error(t, err)
		})
	}
}

func TestValidateTelegramInitData_TamperedField(t *testing.T) {
	b, _, _ := newTestBot(t, Options{})
	hs := NewHTTPServer(b)

	values, err := url.ParseQuery(signedInitData(b.token, testAdminID, time.Now()))
	require.NoError(t, err)
	values.Set("query_id", "AAH-other")

	_, err = hs.validateTelegramInitData(values.Encode())
	assert.Error(t, err)
}

func TestAPI_RequiresAuth(t *testing.T) {
	_, mux := newTestServer(t)

	for _, path := range []string{"/api/stats", "/api/ad"} {
		rec := doRequest(mux, path, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)

		rec = doRequest(mux, path, "Bearer something")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestAPI_Stats(t *testing.T) {
	b, mux := newTestServer(t)
	auth := "tma " + signedInitData(b.token, testAdminID, time.Now())

	rec := doRequest(mux, "/api/stats?days=30", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp statsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, 30, resp.WindowDays)
	assert.False(t, resp.AllTime)
	assert.Zero(t, resp.TotalJoins)

	rec = doRequest(mux, "/api/stats?days=all", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.AllTime)

	// Windows beyond all time are clamped instead of overflowing the start date
	rec = doRequest(mux, "/api/stats?days=4611686018427387904", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = statsResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.AllTime)
	assert.False(t, resp.ClickTracked)

	rec = doRequest(mux, "/api/stats?days=-3", auth)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_Ad(t *testing.T) {
	b, mux := newTestServer(t)
	auth := "tma " + signedInitData(b.token, testAdminID, time.Now())

	rec := doRequest(mux, "/api/ad", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp adResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.False(t, resp.Configured)

	setupAd(t, b, "photo-1", "Our ad", "Visit | https://example.com")

	rec = doRequest(mux, "/api/ad", auth)
	require.Equal(t, http.StatusOK, rec.Code)
	resp = adResponse{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.True(t, resp.Configured)
	assert.True(t, resp.HasPhoto)
	assert.Equal(t, "Our ad", resp.Text)
	require.Len(t, resp.Buttons, 1)
	assert.Equal(t, "https://example.com", resp.Buttons[0].URL)
}

func TestAPI_MethodNotAllowed(t *testing.T) {
	b, mux := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/ad", nil)
	req.Header.Set("Authorization", "tma "+signedInitData(b.token, testAdminID, time.Now()))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
