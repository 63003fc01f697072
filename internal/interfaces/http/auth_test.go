package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"dinarx/internal/domain/user"
	"dinarx/internal/domain/wallet"
	"dinarx/internal/shared/auth"
	"dinarx/internal/shared/middleware"
)

type mockUserRepo struct {
	byEmail map[string]*user.User
	byID    map[string]*user.User
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{byEmail: map[string]*user.User{}, byID: map[string]*user.User{}}
}

func (m *mockUserRepo) Create(ctx context.Context, u *user.User) error {
	if _, exists := m.byEmail[u.Email]; exists {
		return user.ErrUserExists
	}
	m.byEmail[u.Email] = u
	m.byID[u.ID] = u
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*user.User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return u, nil
}

type mockWalletRepo struct {
	wallets map[string]*wallet.Wallet
}

func newMockWalletRepo() *mockWalletRepo {
	return &mockWalletRepo{wallets: map[string]*wallet.Wallet{}}
}

func (m *mockWalletRepo) Create(ctx context.Context, w *wallet.Wallet) error {
	m.wallets[w.UserID] = w
	return nil
}

func (m *mockWalletRepo) GetByUserID(ctx context.Context, userID string) (*wallet.Wallet, error) {
	w, ok := m.wallets[userID]
	if !ok {
		return nil, wallet.ErrWalletNotFound
	}
	return w, nil
}

func (m *mockWalletRepo) ApplyLedger(ctx context.Context, userID string, jdDelta, coinDelta decimal.Decimal, entry *wallet.Entry) (*wallet.Wallet, error) {
	w, err := m.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	w.JDBalance = w.JDBalance.Add(jdDelta)
	w.StablecoinBalance = w.StablecoinBalance.Add(coinDelta)
	return w, nil
}

func (m *mockWalletRepo) ListEntries(ctx context.Context, userID string, limit, offset int) ([]wallet.Entry, error) {
	return nil, nil
}

func newAuthHandler() (*AuthHandler, *mockUserRepo, *mockWalletRepo) {
	userRepo := newMockUserRepo()
	walletRepo := newMockWalletRepo()
	return NewAuthHandler(userRepo, wallet.NewService(walletRepo), auth.NewJWT("test-secret", 24)), userRepo, walletRepo
}

func TestHandleRegisterCreatesUserAndWallet(t *testing.T) {
	handler, _, walletRepo := newAuthHandler()

	body := `{"email": "amal@example.jo", "password": "strongpass1", "full_name": "Amal Haddad"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.HandleRegister(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d body %s", rec.Code, rec.Body.String())
	}

	var resp AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Token == "" || resp.User == nil || resp.User.Email != "amal@example.jo" {
		t.Errorf("response: %+v", resp)
	}
	if resp.User.PasswordHash != "" {
		t.Error("password hash must not be serialized")
	}
	if _, ok := walletRepo.wallets[resp.User.ID]; !ok {
		t.Error("registration should create an empty wallet")
	}
}

func TestHandleRegisterRejectsDuplicateEmail(t *testing.T) {
	handler, _, _ := newAuthHandler()

	body := `{"email": "amal@example.jo", "password": "strongpass1", "full_name": "Amal Haddad"}`
	for i, want := range []int{http.StatusCreated, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.HandleRegister(rec, req)

		if rec.Code != want {
			t.Fatalf("attempt %d: status got %d want %d", i, rec.Code, want)
		}
	}
}

func TestHandleRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"Missing Email", `{"password": "strongpass1", "full_name": "Amal"}`},
		{"Missing Password", `{"email": "a@b.jo", "full_name": "Amal"}`},
		{"Short Password", `{"email": "a@b.jo", "password": "short", "full_name": "Amal"}`},
	}

	handler, _, _ := newAuthHandler()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.HandleRegister(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d want 400", rec.Code)
			}
		})
	}
}

func TestHandleLogin(t *testing.T) {
	handler, _, _ := newAuthHandler()

	registerBody := `{"email": "amal@example.jo", "password": "strongpass1", "full_name": "Amal Haddad"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", strings.NewReader(registerBody))
	handler.HandleRegister(httptest.NewRecorder(), req)

	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"Valid Credentials", `{"email": "amal@example.jo", "password": "strongpass1"}`, http.StatusOK},
		{"Wrong Password", `{"email": "amal@example.jo", "password": "wrongpass1"}`, http.StatusUnauthorized},
		{"Unknown Email", `{"email": "nobody@example.jo", "password": "strongpass1"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			handler.HandleLogin(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status: got %d want %d", rec.Code, tt.wantCode)
			}
		})
	}
}

func TestHandleMe(t *testing.T) {
	handler, userRepo, _ := newAuthHandler()
	userRepo.byID["user-1"] = &user.User{ID: "user-1", Email: "amal@example.jo", FullName: "Amal Haddad", IsActive: true}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req = req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, "user-1"))
	rec := httptest.NewRecorder()

	handler.HandleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	var u user.User
	if err := json.NewDecoder(rec.Body).Decode(&u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.Email != "amal@example.jo" {
		t.Errorf("user: %+v", u)
	}
}

func TestHandleMeUnauthorized(t *testing.T) {
	handler, _, _ := newAuthHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	rec := httptest.NewRecorder()

	handler.HandleMe(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d want 401", rec.Code)
	}
}
