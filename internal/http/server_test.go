package http

import (
	"context"
	"encoding/json"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/myloggi/internal/apiclient"
	"github.com/myloggi/internal/cleanup"
	"github.com/myloggi/internal/config"
	"github.com/myloggi/internal/constants"
	"github.com/myloggi/internal/db"
	"github.com/myloggi/internal/service"
)

// fakeAPI is an in-process account API that records what it received
type fakeAPI struct {
	mu       sync.Mutex
	requests map[string][]recordedRequest
	mux      *http.ServeMux
}

type recordedRequest struct {
	Body          map[string]any
	Authorization string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		requests: make(map[string][]recordedRequest),
		mux:      http.NewServeMux(),
	}
}

// handle answers path with status and body, recording each request
func (f *fakeAPI) handle(path string, status int, body string) {
	f.mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
		var decoded map[string]any
		_ = json.NewDecoder(r.Body).Decode(&decoded)

		f.mu.Lock()
		f.requests[path] = append(f.requests[path], recordedRequest{
			Body:          decoded,
			Authorization: r.Header.Get("Authorization"),
		})
		f.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func (f *fakeAPI) calls(path string) []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests[path]...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupTestServer wires a Server against api with a temp database
func setupTestServer(t *testing.T, api *fakeAPI, mutate func(*config.Config)) *Server {
	t.Helper()

	upstream := httptest.NewServer(api.mux)
	t.Cleanup(upstream.Close)

	cfg := &config.Config{
		ServerAddress: ":0",
		Environment:   "test",
		DatabasePath:  filepath.Join(t.TempDir(), "test.db"),
		API:           config.APIConfig{BaseURL: upstream.URL, Timeout: 5 * time.Second},
		Cookie:        config.CookieConfig{TokenName: constants.DefaultTokenCookie},
		Session: config.SessionConfig{
			Secret:        "test-session-secret-0123456789abcdef",
			ProfileSecret: "test-profile-secret",
		},
		RememberMe: config.RememberMeConfig{TTL: time.Hour, CleanupSchedule: "@hourly"},
		RateLimit:  config.RateLimitConfig{RPS: 100, Burst: 100},
		Guard:      config.GuardConfig{Paths: config.DefaultGuardPaths},
	}
	if mutate != nil {
		mutate(cfg)
	}

	database, err := db.Init(cfg.DatabasePath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	logger := testLogger()
	client := apiclient.New(cfg.API.BaseURL, apiclient.WithLogger(logger))
	authService := service.NewAuthService(client, logger)
	rememberService := service.NewRememberService(database, cfg.RememberMe.TTL, logger)

	return NewServer(cfg, authService, rememberService, logger)
}

// browser keeps cookies between requests and does not follow redirects
type browser struct {
	t      *testing.T
	base   *url.URL
	client *http.Client
}

func newBrowser(t *testing.T, srv *Server) *browser {
	t.Helper()
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("failed to create cookie jar: %v", err)
	}
	base, _ := url.Parse(ts.URL)

	return &browser{
		t:    t,
		base: base,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

func (b *browser) do(req *http.Request) (*http.Response, string) {
	b.t.Helper()
	resp, err := b.client.Do(req)
	if err != nil {
		b.t.Fatalf("%s %s failed: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, html.UnescapeString(string(body))
}

func (b *browser) get(path string) (*http.Response, string) {
	b.t.Helper()
	req, _ := http.NewRequest(http.MethodGet, b.base.String()+path, nil)
	return b.do(req)
}

func (b *browser) post(path string, form url.Values) (*http.Response, string) {
	b.t.Helper()
	req, _ := http.NewRequest(http.MethodPost, b.base.String()+path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) cookie(name string) *http.Cookie {
	for _, c := range b.client.Jar.Cookies(b.base) {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func (b *browser) setCookie(name, value string) {
	b.client.Jar.SetCookies(b.base, []*http.Cookie{{Name: name, Value: value, Path: "/"}})
}

func expectRedirect(t *testing.T, resp *http.Response, status int, location string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("expected status %d, got %d", status, resp.StatusCode)
	}
	if got := resp.Header.Get("Location"); got != location {
		t.Fatalf("expected redirect to %s, got %s", location, got)
	}
}

func findSetCookie(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func otpForm(code string) url.Values {
	form := url.Values{}
	for i, d := range code {
		form.Set("otp-"+string(rune('0'+i)), string(d))
	}
	return form
}

const loginOK = `{"token":"tok-123","user":{"id":"u1","name":"Jane Doe","email":"jane@example.com"}}`

func TestSignIn_SuccessSetsCookiesAndRemembers(t *testing.T) {
	api := newFakeAPI()
	api.handle("/login", http.StatusOK, loginOK)
	srv := setupTestServer(t, api, nil)
	b := newBrowser(t, srv)

	resp, _ := b.post("/auth/signin", url.Values{
		"usernameOrEmail": {"jane@example.com"},
		"password":        {"secret"},
		"remember":        {"on"},
		"fcmToken":        {"fcm-abc"},
	})
	expectRedirect(t, resp, http.StatusSeeOther, "/")

	tokenCookie := findSetCookie(resp, constants.DefaultTokenCookie)
	if tokenCookie == nil || tokenCookie.Value != "tok-123" {
		t.Fatalf("expected token cookie, got %+v", tokenCookie)
	}
	if tokenCookie.SameSite != http.SameSiteStrictMode {
		t.Errorf("expected SameSite=Strict on token cookie")
	}
	if findSetCookie(resp, constants.ProfileCookie) == nil {
		t.Error("expected profile cookie")
	}

	calls := api.calls("/login")
	if len(calls) != 1 || calls[0].Body["fcmToken"] != "fcm-abc" {
		t.Fatalf("expected one login call with fcm token, got %+v", calls)
	}

	resp, body := b.get("/profile")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected profile page, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Jane Doe") || !strings.Contains(body, "jane@example.com") {
		t.Errorf("expected profile to show the user, got %s", body)
	}

	// only the identifier is remembered
	device := b.cookie(constants.DeviceCookie)
	if device == nil {
		t.Fatal("expected device cookie")
	}
	var stored map[string]any
	found, err := srv.remember.GetRememberMeData(context.Background(), device.Value, constants.RememberCredentialsKey, &stored)
	if err != nil || !found {
		t.Fatalf("expected remembered credentials, got found=%v err=%v", found, err)
	}
	if _, ok := stored["password"]; ok {
		t.Error("password must never be remembered")
	}

	resp, _ = b.post("/auth/logout", nil)
	expectRedirect(t, resp, http.StatusSeeOther, "/auth/signin")
	if b.cookie(constants.DefaultTokenCookie) != nil {
		t.Error("expected token cookie to be cleared on logout")
	}

	resp, body = b.get("/auth/signin")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected sign-in page, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `value="jane@example.com"`) || !strings.Contains(body, "checked") {
		t.Errorf("expected remembered identifier prefilled, got %s", body)
	}
}

func TestSignIn_UncheckedRememberForgets(t *testing.T) {
	api := newFakeAPI()
	api.handle("/login", http.StatusOK, loginOK)
	srv := setupTestServer(t, api, nil)
	b := newBrowser(t, srv)

	b.post("/auth/signin", url.Values{"usernameOrEmail": {"jane"}, "password": {"x"}, "remember": {"on"}})
	b.post("/auth/logout", nil)
	b.post("/auth/signin", url.Values{"usernameOrEmail": {"jane"}, "password": {"x"}})
	b.post("/auth/logout", nil)

	_, body := b.get("/auth/signin")
	if strings.Contains(body, `value="jane"`) {
		t.Error("expected remembered identifier to be forgotten")
	}
}

func TestSignIn_Errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantText   string
	}{
		{
			name:       "invalid credentials",
			status:     http.StatusUnauthorized,
			body:       `{"error":"Invalid credentials"}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantText:   "Invalid credentials",
		},
		{
			name:       "field errors",
			status:     http.StatusBadRequest,
			body:       `{"errors":[{"path":"password","msg":"Password must be at least 8 characters"}]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantText:   "Password must be at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.handle("/login", tt.status, tt.body)
			b := newBrowser(t, setupTestServer(t, api, nil))

			resp, body := b.post("/auth/signin", url.Values{"usernameOrEmail": {"jane"}, "password": {"secret"}})
			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if !strings.Contains(body, tt.wantText) {
				t.Errorf("expected %q in page", tt.wantText)
			}
			if !strings.Contains(body, `value="jane"`) {
				t.Error("expected identifier to be kept in the form")
			}
			if b.cookie(constants.DefaultTokenCookie) != nil {
				t.Error("expected no token cookie after failure")
			}
		})
	}
}

// setupUnreachableServer builds a server whose account API address has nothing listening
func setupUnreachableServer(t *testing.T) *Server {
	t.Helper()
	srv := setupTestServer(t, newFakeAPI(), nil)
	client := apiclient.New("http://127.0.0.1:1", apiclient.WithLogger(testLogger()))
	srv.authService = service.NewAuthService(client, testLogger())
	return srv
}

func TestSignIn_UpstreamDown(t *testing.T) {
	b := newBrowser(t, setupUnreachableServer(t))

	resp, body := b.post("/auth/signin", url.Values{"usernameOrEmail": {"jane"}, "password": {"secret"}})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, constants.MsgUnexpectedError) {
		t.Errorf("expected unexpected error message in page")
	}
}

func TestSignUp_UpstreamDown(t *testing.T) {
	b := newBrowser(t, setupUnreachableServer(t))

	resp, body := b.post("/auth/signup", url.Values{
		"full_name":       {"Jane Doe"},
		"username":        {"jane"},
		"email":           {"jane@example.com"},
		"password":        {"secret123"},
		"retype_password": {"secret123"},
	})
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, constants.MsgUnexpectedError) {
		t.Error("expected unexpected error message in page")
	}
	if strings.Contains(body, constants.MsgSignupFailed) {
		t.Error("expected no sign-up failure message for an unreachable API")
	}
}

func TestVerifyAccount_UpstreamDown(t *testing.T) {
	b := newBrowser(t, setupUnreachableServer(t))
	b.setCookie(constants.DefaultTokenCookie, "signup-tok")

	resp, body := b.post("/auth/otp", otpForm("123456"))
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, constants.MsgSomethingWrong) {
		t.Error("expected generic OTP error in page")
	}
	if b.cookie(constants.DefaultTokenCookie) == nil {
		t.Error("expected token cookie to survive a failed verification")
	}
}

func TestSignUpAndVerifyAccountFlow(t *testing.T) {
	api := newFakeAPI()
	api.handle("/signup", http.StatusCreated, `{"token":"signup-tok"}`)
	api.handle("/verify-account", http.StatusOK, `{}`)
	b := newBrowser(t, setupTestServer(t, api, nil))

	resp, _ := b.post("/auth/signup", url.Values{
		"full_name":       {"Jane Doe"},
		"username":        {"jane"},
		"email":           {"jane@example.com"},
		"phone":           {"+15550100"},
		"password":        {"secret123"},
		"retype_password": {"secret123"},
	})
	expectRedirect(t, resp, http.StatusSeeOther, "/auth/otp")

	signups := api.calls("/signup")
	if len(signups) != 1 || signups[0].Body["role"] != constants.DefaultSignupRole {
		t.Fatalf("expected signup call with default role, got %+v", signups)
	}

	resp, body := b.get("/auth/otp")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Verify your account") {
		t.Fatalf("expected verification OTP page, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, `name="otp-5"`) {
		t.Error("expected six OTP boxes")
	}

	resp, _ = b.post("/auth/otp", otpForm("123456"))
	expectRedirect(t, resp, http.StatusSeeOther, "/auth/signin")

	verifies := api.calls("/verify-account")
	if len(verifies) != 1 || verifies[0].Authorization != "Bearer signup-tok" || verifies[0].Body["otp"] != "123456" {
		t.Fatalf("expected verify call with bearer token, got %+v", verifies)
	}
	if b.cookie(constants.DefaultTokenCookie) != nil {
		t.Error("expected token cookie to be cleared after verification")
	}

	_, body = b.get("/auth/signin")
	if !strings.Contains(body, constants.MsgAccountVerified) {
		t.Error("expected verification flash on sign-in page")
	}
}

func TestSignUp_PasswordMismatch(t *testing.T) {
	api := newFakeAPI()
	api.handle("/signup", http.StatusCreated, `{}`)
	b := newBrowser(t, setupTestServer(t, api, nil))

	resp, body := b.post("/auth/signup", url.Values{
		"username":        {"jane"},
		"email":           {"jane@example.com"},
		"password":        {"one"},
		"retype_password": {"two"},
	})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, constants.MsgPasswordsMismatch) {
		t.Error("expected mismatch message")
	}
	if len(api.calls("/signup")) != 0 {
		t.Error("expected no signup call")
	}
}

func TestOTP_InvalidFormatDoesNotCallAPI(t *testing.T) {
	api := newFakeAPI()
	api.handle("/signup", http.StatusCreated, `{"token":"signup-tok"}`)
	api.handle("/verify-account", http.StatusOK, `{}`)
	b := newBrowser(t, setupTestServer(t, api, nil))

	b.post("/auth/signup", url.Values{"username": {"jane"}, "password": {"p"}, "retype_password": {"p"}})

	resp, body := b.post("/auth/otp", otpForm("123"))
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, constants.MsgInvalidOTPFormat) {
		t.Error("expected OTP format message")
	}
	if len(api.calls("/verify-account")) != 0 {
		t.Error("expected no verify call")
	}
}

func TestOTP_WithoutFlowRedirectsToSignIn(t *testing.T) {
	b := newBrowser(t, setupTestServer(t, newFakeAPI(), nil))

	resp, _ := b.get("/auth/otp")
	expectRedirect(t, resp, http.StatusFound, "/auth/signin")
}

func TestPasswordResetFlow(t *testing.T) {
	api := newFakeAPI()
	api.handle("/forget-password", http.StatusOK, `{}`)
	api.handle("/check-otp", http.StatusOK, `{}`)
	api.handle("/reset-password", http.StatusOK, `{}`)
	b := newBrowser(t, setupTestServer(t, api, nil))

	resp, _ := b.post("/auth/forget-password", url.Values{"email": {"Jane@Example.com"}})
	expectRedirect(t, resp, http.StatusSeeOther, "/auth/otp")

	resp, body := b.get("/auth/otp")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, "Enter reset code") {
		t.Fatalf("expected reset OTP page, got %d", resp.StatusCode)
	}

	resp, _ = b.post("/auth/otp", otpForm("654321"))
	expectRedirect(t, resp, http.StatusSeeOther, "/auth/new-password")

	checks := api.calls("/check-otp")
	if len(checks) != 1 || checks[0].Body["email"] != "jane@example.com" || checks[0].Body["otp"] != "654321" {
		t.Fatalf("expected check-otp call with pending email, got %+v", checks)
	}

	resp, _ = b.get("/auth/new-password")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected new password page, got %d", resp.StatusCode)
	}

	resp, body = b.post("/auth/new-password", url.Values{"password": {"n3w"}, "confirmPassword": {"other"}})
	if resp.StatusCode != http.StatusUnprocessableEntity || !strings.Contains(body, constants.MsgPasswordsMismatch) {
		t.Fatalf("expected mismatch error, got %d", resp.StatusCode)
	}

	resp, _ = b.post("/auth/new-password", url.Values{"password": {"n3w"}, "confirmPassword": {"n3w"}})
	expectRedirect(t, resp, http.StatusSeeOther, "/auth/signin")

	resets := api.calls("/reset-password")
	if len(resets) != 1 || resets[0].Body["newPassword"] != "n3w" || resets[0].Body["email"] != "jane@example.com" {
		t.Fatalf("expected reset call, got %+v", resets)
	}

	_, body = b.get("/auth/signin")
	if !strings.Contains(body, constants.MsgPasswordChanged) {
		t.Error("expected password changed flash")
	}

	resp, _ = b.get("/auth/new-password")
	expectRedirect(t, resp, http.StatusFound, "/auth/forget-password")
}

func TestNewPassword_WithoutVerifiedOTP(t *testing.T) {
	api := newFakeAPI()
	api.handle("/forget-password", http.StatusOK, `{}`)
	b := newBrowser(t, setupTestServer(t, api, nil))

	resp, _ := b.get("/auth/new-password")
	expectRedirect(t, resp, http.StatusFound, "/auth/forget-password")

	b.post("/auth/forget-password", url.Values{"email": {"jane@example.com"}})

	resp, _ = b.post("/auth/new-password", url.Values{"password": {"a"}, "confirmPassword": {"a"}})
	expectRedirect(t, resp, http.StatusSeeOther, "/auth/forget-password")

	_, body := b.get("/auth/forget-password")
	if !strings.Contains(body, constants.MsgResetEmailMissing) {
		t.Error("expected reset session flash")
	}
}

func TestForgetPassword_FieldErrors(t *testing.T) {
	api := newFakeAPI()
	api.handle("/forget-password", http.StatusNotFound, `{"errors":[{"path":"email","msg":"No account with that email"}]}`)
	b := newBrowser(t, setupTestServer(t, api, nil))

	resp, body := b.post("/auth/forget-password", url.Values{"email": {"jane@example.com"}})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "No account with that email") {
		t.Error("expected field error in page")
	}
}

func TestAuthPosts_AreRateLimited(t *testing.T) {
	api := newFakeAPI()
	api.handle("/login", http.StatusUnauthorized, `{"error":"Invalid credentials"}`)
	srv := setupTestServer(t, api, func(cfg *config.Config) {
		cfg.RateLimit = config.RateLimitConfig{RPS: 0.01, Burst: 1}
	})
	b := newBrowser(t, srv)

	form := url.Values{"usernameOrEmail": {"jane"}, "password": {"x"}}
	if resp, _ := b.post("/auth/signin", form); resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected first attempt to reach the API, got %d", resp.StatusCode)
	}

	resp, _ := b.post("/auth/signin", form)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}

	if resp, _ := b.get("/auth/signin"); resp.StatusCode != http.StatusOK {
		t.Errorf("expected GET to stay available, got %d", resp.StatusCode)
	}
}

func TestMiddleware_Headers(t *testing.T) {
	srv := setupTestServer(t, newFakeAPI(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/signin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w.Header().Get("X-Frame-Options") != "DENY" {
		t.Error("expected X-Frame-Options header")
	}
	if !strings.Contains(w.Header().Get("Cache-Control"), "no-store") {
		t.Error("expected no-store on auth pages")
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected request id header")
	}
}

func TestHealthAndNotFound(t *testing.T) {
	srv := setupTestServer(t, newFakeAPI(), nil)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("expected healthy response, got %d %s", w.Code, w.Body.String())
	}
	if strings.Contains(w.Body.String(), "cleanup") {
		t.Errorf("expected no cleanup status before it is wired, got %s", w.Body.String())
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/assets/app.css", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected stylesheet, got %d", w.Code)
	}
}

func TestHealth_ReportsCleanupRuns(t *testing.T) {
	srv := setupTestServer(t, newFakeAPI(), nil)
	cm := cleanup.NewCleanupManager(srv.remember, "@hourly", testLogger())
	cm.RunOnce(context.Background())
	srv.SetCleanupStatus(cm)

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var body struct {
		Status  string `json:"status"`
		Cleanup struct {
			RunsSucceeded int `json:"runs_succeeded"`
			RunsFailed    int `json:"runs_failed"`
			LastRun       *struct {
				Success bool `json:"success"`
			} `json:"last_run"`
		} `json:"cleanup"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if body.Status != "healthy" || body.Cleanup.RunsSucceeded != 1 || body.Cleanup.RunsFailed != 0 {
		t.Errorf("unexpected health response: %s", w.Body.String())
	}
	if body.Cleanup.LastRun == nil || !body.Cleanup.LastRun.Success {
		t.Errorf("expected a successful last run, got %s", w.Body.String())
	}
}
