package bot

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"autoaccept/internal/stats"
)

// initDataMaxAge bounds how old a Mini App login may be
const initDataMaxAge = 24 * time.Hour

// HTTPServer serves the read-only admin API
type HTTPServer struct {
	bot *Bot
	now func() time.Time
}

// NewHTTPServer creates a new HTTP server for the admin API
func NewHTTPServer(bot *Bot) *HTTPServer {
	return &HTTPServer{
		bot: bot,
		now: time.Now,
	}
}

// RegisterRoutes registers admin API routes on the provided mux
func (hs *HTTPServer) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/stats", hs.authMiddleware(hs.handleStats))
	mux.HandleFunc("/api/ad", hs.authMiddleware(hs.handleAd))
}

// validateTelegramInitData validates Telegram WebApp initData and returns the user id
func (hs *HTTPServer) validateTelegramInitData(initData string) (int64, error) {
	if initData == "" {
		return 0, fmt.Errorf("missing initData")
	}

	// Parse the initData
	values, err := url.ParseQuery(initData)
	if err != nil {
		return 0, fmt.Errorf("invalid initData format: %w", err)
	}

	// Extract hash
	hash := values.Get("hash")
	if hash == "" {
		return 0, fmt.Errorf("missing hash in initData")
	}

	// Remove hash from values
	values.Del("hash")

	// Verify hash
	if !hmac.Equal([]byte(signInitData(values, hs.bot.token)), []byte(hash)) {
		return 0, fmt.Errorf("invalid hash")
	}

	// Check auth_date
	authDate, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("missing or invalid auth_date")
	}
	if hs.now().Sub(time.Unix(authDate, 0)) > initDataMaxAge {
		return 0, fmt.Errorf("initData is too old")
	}

	// Extract user ID
	userStr := values.Get("user")
	if userStr == "" {
		return 0, fmt.Errorf("missing user data")
	}

	var userData struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal([]byte(userStr), &userData); err != nil {
		return 0, fmt.Errorf("invalid user data: %w", err)
	}

	if !hs.bot.isAdmin(userData.ID) {
		return 0, fmt.Errorf("user not allowed")
	}

	return userData.ID, nil
}

// signInitData computes the WebApp hash of values (without the hash key)
func signInitData(values url.Values, token string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var dataCheckString strings.Builder
	for i, k := range keys {
		if i > 0 {
			dataCheckString.WriteByte('\n')
		}
		dataCheckString.WriteString(k)
		dataCheckString.WriteByte('=')
		dataCheckString.WriteString(values.Get(k))
	}

	// Create secret key
	secretKey := hmac.New(sha256.New, []byte("WebAppData"))
	secretKey.Write([]byte(token))
	secret := secretKey.Sum(nil)

	h := hmac.New(sha256.New, secret)
	h.Write([]byte(dataCheckString.String()))
	return hex.EncodeToString(h.Sum(nil))
}

// authMiddleware only lets the admin's signed Mini App session through
func (hs *HTTPServer) authMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "tma ") {
			hs.bot.logger.Warn("Missing or invalid authorization header",
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		userID, err := hs.validateTelegramInitData(strings.TrimPrefix(authHeader, "tma "))
		if err != nil {
			hs.bot.logger.Warn("Failed to validate initData",
				zap.Error(err),
				zap.String("remote_addr", r.RemoteAddr),
			)
			writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		hs.bot.logger.Debug("Authenticated request",
			zap.Int64("user_id", userID),
			zap.String("path", r.URL.Path),
		)

		next(w, r)
	}
}

type statsResponse struct {
	WindowDays   int       `json:"window_days"`
	AllTime      bool      `json:"all_time"`
	TotalJoins   int64     `json:"total_joins"`
	RecentJoins  int64     `json:"recent_joins"`
	TotalClicks  int64     `json:"total_clicks"`
	RecentClicks int64     `json:"recent_clicks"`
	UniqueGroups int64     `json:"unique_groups"`
	ClickRate    float64   `json:"click_rate"`
	ClickTracked bool      `json:"click_tracked"`
	GeneratedAt  time.Time `json:"generated_at"`
}

// handleStats returns the statistics report; ?days=N or ?days=all
func (hs *HTTPServer) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	days := defaultStatsWindow
	switch param := r.URL.Query().Get("days"); param {
	case "":
	case "all":
		days = stats.AllTimeDays
	default:
		n, err := strconv.Atoi(param)
		if err != nil || n < 0 {
			writeJSONError(w, http.StatusBadRequest, "Invalid days parameter")
			return
		}
		days = n
	}

	report, err := hs.bot.stats.Get(r.Context(), days)
	if err != nil {
		hs.bot.logger.Error("Failed to get stats", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch stats")
		return
	}

	writeJSON(w, http.StatusOK, statsResponse{
		WindowDays:   report.WindowDays,
		AllTime:      report.IsAllTime(),
		TotalJoins:   report.TotalJoins,
		RecentJoins:  report.RecentJoins,
		TotalClicks:  report.TotalClicks,
		RecentClicks: report.RecentClicks,
		UniqueGroups: report.UniqueGroups,
		ClickRate:    report.ClickRate(),
		ClickTracked: hs.bot.trackClicks,
		GeneratedAt:  report.GeneratedAt,
	})
}

type buttonResponse struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

type adResponse struct {
	Configured bool             `json:"configured"`
	Text       string           `json:"text,omitempty"`
	HasPhoto   bool             `json:"has_photo"`
	Buttons    []buttonResponse `json:"buttons,omitempty"`
	UpdatedAt  *time.Time       `json:"updated_at,omitempty"`
}

// handleAd returns the current ad
func (hs *HTTPServer) handleAd(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	ad, err := hs.bot.ads.Current(r.Context())
	if err != nil {
		hs.bot.logger.Error("Failed to load ad", zap.Error(err))
		writeJSONError(w, http.StatusInternalServerError, "Failed to fetch ad")
		return
	}

	if ad == nil {
		writeJSON(w, http.StatusOK, adResponse{Configured: false})
		return
	}

	resp := adResponse{
		Configured: true,
		Text:       ad.Text,
		HasPhoto:   ad.HasPhoto(),
		UpdatedAt:  &ad.UpdatedAt,
	}
	for _, button := range ad.Buttons {
		resp.Buttons = append(resp.Buttons, buttonResponse{Label: button.Label, URL: button.URL})
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
