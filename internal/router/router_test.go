package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatehouse/internal/auth"
	"gatehouse/internal/users"

	"github.com/gin-gonic/gin"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *auth.InMemoryUserRepository) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret-key-12345")
	gin.SetMode(gin.TestMode)
	auth.RegisterValidators()

	repo := auth.NewInMemoryUserRepository()
	authHandler := auth.NewHandler(auth.NewService(repo))
	usersHandler := users.NewHandler(users.NewService(repo))
	return New(repo, authHandler, usersHandler), repo
}

func doJSON(r *gin.Engine, method, path string, payload any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, r *gin.Engine, email, password string) *http.Cookie {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/auth/signin", map[string]string{
		"email":    email,
		"password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in failed with %d: %s", w.Code, w.Body.String())
	}
	for _, c := range w.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			return c
		}
	}
	t.Fatal("sign-in response carried no session cookie")
	return nil
}

func TestHealthCheck(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestSignUpThenSignInFlow(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(r, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Ann Lee",
		"email":    "ann@x.com",
		"password": "Password!23",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/auth/signin", map[string]string{
		"email":    "ann@x.com",
		"password": "Password!23",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		User auth.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.Role != auth.RoleMember {
		t.Fatalf("expected role Member, got %q", resp.User.Role)
	}
	if resp.User.EmailConfirmed {
		t.Fatal("expected emailConfirmed=false after plain sign-up")
	}
}

func TestAdminPageGuard(t *testing.T) {
	r, _ := setupTestRouter(t)

	// Anonymous: silent redirect, no content.
	w := doJSON(r, http.MethodGet, "/admin", nil)
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/signin" {
		t.Fatalf("expected redirect to /signin, got %q", loc)
	}

	doJSON(r, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Ann Lee",
		"email":    "ann@x.com",
		"password": "Password!23",
	})
	cookie := signIn(t, r, "ann@x.com", "Password!23")

	// Authenticated: the page receives the hydrated user as props.
	w = doJSON(r, http.MethodGet, "/admin", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp struct {
		Props struct {
			User auth.User `json:"user"`
		} `json:"props"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Props.User.Email != "ann@x.com" {
		t.Fatalf("expected props.user.email ann@x.com, got %q", resp.Props.User.Email)
	}
}

func TestAuthPagesGuard(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, page := range []string{"/signin", "/signup"} {
		w := doJSON(r, http.MethodGet, page, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("%s anonymous: expected 200, got %d", page, w.Code)
		}
	}

	doJSON(r, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Ann Lee",
		"email":    "ann@x.com",
		"password": "Password!23",
	})
	cookie := signIn(t, r, "ann@x.com", "Password!23")

	for _, page := range []string{"/signin", "/signup"} {
		w := doJSON(r, http.MethodGet, page, nil, cookie)
		if w.Code != http.StatusFound {
			t.Fatalf("%s with session: expected 302, got %d", page, w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/" {
			t.Fatalf("%s with session: expected redirect to /, got %q", page, loc)
		}
	}
}

func TestUsersEndpointsRequireSession(t *testing.T) {
	r, _ := setupTestRouter(t)

	if w := doJSON(r, http.MethodGet, "/users", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("GET /users: expected 401, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/users/some-id", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("DELETE /users/:id: expected 401, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/auth/password", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("POST /auth/password: expected 401, got %d", w.Code)
	}
}

func TestListAndDeleteUsers(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, u := range []map[string]string{
		{"name": "Ann Lee", "email": "ann@x.com", "password": "Password!23"},
		{"name": "Bob Roy", "email": "bob@x.com", "password": "Password!23"},
	} {
		if w := doJSON(r, http.MethodPost, "/auth/signup", u); w.Code != http.StatusCreated {
			t.Fatalf("sign-up failed: %d", w.Code)
		}
	}
	cookie := signIn(t, r, "ann@x.com", "Password!23")

	w := doJSON(r, http.MethodGet, "/users", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var listResp struct {
		Users []auth.User `json:"users"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listResp.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(listResp.Users))
	}
	if bytes.Contains(w.Body.Bytes(), []byte(`"password"`)) {
		t.Fatal("user listing must not expose passwords")
	}

	var bobID string
	for _, u := range listResp.Users {
		if u.Email == "bob@x.com" {
			bobID = u.ID
		}
	}
	if bobID == "" {
		t.Fatal("bob@x.com missing from listing")
	}

	if w := doJSON(r, http.MethodDelete, "/users/"+bobID, nil, cookie); w.Code != http.StatusOK {
		t.Fatalf("delete: expected 200, got %d", w.Code)
	}

	w = doJSON(r, http.MethodGet, "/users", nil, cookie)
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listResp.Users) != 1 {
		t.Fatalf("expected 1 user after delete, got %d", len(listResp.Users))
	}

	// Deleted user can no longer authenticate, with the usual opaque error.
	w = doJSON(r, http.MethodPost, "/auth/signin", map[string]string{
		"email":    "bob@x.com",
		"password": "Password!23",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for deleted user, got %d", w.Code)
	}
}

func TestSetNewPasswordFlow(t *testing.T) {
	r, _ := setupTestRouter(t)

	doJSON(r, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Ann Lee",
		"email":    "ann@x.com",
		"password": "Password!23",
	})
	cookie := signIn(t, r, "ann@x.com", "Password!23")

	w := doJSON(r, http.MethodGet, "/auth/session", nil, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("session: expected 200, got %d", w.Code)
	}
	var sessResp struct {
		User auth.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &sessResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	w = doJSON(r, http.MethodPost, "/auth/password", map[string]string{
		"id":              sessResp.User.ID,
		"password":        "NewSecret!45",
		"confirmPassword": "NewSecret!45",
	}, cookie)
	if w.Code != http.StatusOK {
		t.Fatalf("set password: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	// Weak replacement passwords are rejected before any store access.
	w = doJSON(r, http.MethodPost, "/auth/password", map[string]string{
		"id":              sessResp.User.ID,
		"password":        "weakpassword",
		"confirmPassword": "weakpassword",
	}, cookie)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("weak password: expected 400, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/auth/signin", map[string]string{
		"email":    "ann@x.com",
		"password": "Password!23",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("old password must fail, got %d", w.Code)
	}

	w = doJSON(r, http.MethodPost, "/auth/signin", map[string]string{
		"email":    "ann@x.com",
		"password": "NewSecret!45",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("new password must succeed, got %d", w.Code)
	}
	var signInResp struct {
		User auth.User `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &signInResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !signInResp.User.EmailConfirmed {
		t.Fatal("expected emailConfirmed=true after password reset")
	}
}

func TestInviteUser(t *testing.T) {
	r, _ := setupTestRouter(t)

	doJSON(r, http.MethodPost, "/auth/signup", map[string]string{
		"name":     "Ann Lee",
		"email":    "ann@x.com",
		"password": "Password!23",
	})
	cookie := signIn(t, r, "ann@x.com", "Password!23")

	w := doJSON(r, http.MethodPost, "/users/invite", map[string]string{
		"name":  "Bob Roy",
		"email": "bob@x.com",
	}, cookie)
	if w.Code != http.StatusCreated {
		t.Fatalf("invite: expected 201, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodGet, "/users", nil, cookie)
	var listResp struct {
		Users []auth.User `json:"users"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listResp.Users) != 2 {
		t.Fatalf("expected invitee in listing, got %d users", len(listResp.Users))
	}
}

func TestTestCleanupEndpoint(t *testing.T) {
	r, _ := setupTestRouter(t)

	for _, email := range []string{
		"tester-one@testpoc.com",
		"tester-two@testpoc.com",
		"real@x.com",
	} {
		w := doJSON(r, http.MethodPost, "/auth/signup", map[string]string{
			"name":     "Some User",
			"email":    email,
			"password": "Password!23",
		})
		if w.Code != http.StatusCreated {
			t.Fatalf("sign-up %s failed: %d", email, w.Code)
		}
	}

	w := doJSON(r, http.MethodPost, "/api/tests/cleanup", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("cleanup: expected 200, got %d", w.Code)
	}

	cookie := signIn(t, r, "real@x.com", "Password!23")
	w = doJSON(r, http.MethodGet, "/users", nil, cookie)
	var listResp struct {
		Users []auth.User `json:"users"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &listResp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(listResp.Users) != 1 || listResp.Users[0].Email != "real@x.com" {
		t.Fatalf("cleanup must remove only tester-marked users, got %+v", listResp.Users)
	}
}
