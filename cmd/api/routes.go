package main

import (
	"net/http"

	"dinarx/internal/shared/middleware"
)

// NewRouter builds the route table and wraps it with the global middleware
// chain. allowedHosts, when non-empty, rejects requests for other hosts.
func NewRouter(deps *Dependencies, allowedHosts []string) http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)

	// Protected routes - wrap with auth middleware. The Open Banking routes
	// still resolve their own customer context on top of platform auth.
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/auth/me", authMiddleware(http.HandlerFunc(deps.AuthHandler.HandleMe)))
	mux.Handle("/api/auth/validate-iban", authMiddleware(http.HandlerFunc(deps.IBANHandler.HandleValidateIBAN)))

	mux.Handle("/api/open-banking/accounts", authMiddleware(http.HandlerFunc(deps.OpenBankingHandler.HandleAccounts)))
	mux.Handle("/api/open-banking/dashboard", authMiddleware(http.HandlerFunc(deps.OpenBankingHandler.HandleDashboard)))
	mux.Handle("/api/open-banking/connect-accounts", authMiddleware(http.HandlerFunc(deps.OpenBankingHandler.HandleDashboard)))
	mux.Handle("GET /api/open-banking/accounts/{accountId}/offers", authMiddleware(http.HandlerFunc(deps.OpenBankingHandler.HandleOffers)))
	mux.Handle("/api/open-banking/fx/rates", authMiddleware(http.HandlerFunc(deps.OpenBankingHandler.HandleExchangeRates)))
	mux.Handle("GET /api/loans/eligibility/{accountId}", authMiddleware(http.HandlerFunc(deps.LoanHandler.HandleEligibility)))
	mux.Handle("/api/loans/apply", authMiddleware(http.HandlerFunc(deps.LoanHandler.HandleApply)))

	mux.Handle("/api/wallet", authMiddleware(http.HandlerFunc(deps.WalletHandler.HandleWallet)))
	mux.Handle("/api/wallet/deposit", authMiddleware(http.HandlerFunc(deps.WalletHandler.HandleDeposit)))
	mux.Handle("/api/wallet/exchange", authMiddleware(http.HandlerFunc(deps.WalletHandler.HandleExchange)))
	mux.Handle("/api/transactions", authMiddleware(http.HandlerFunc(deps.WalletHandler.HandleHistory)))

	// Apply global middleware
	handler := middleware.Logging(middleware.CORS(middleware.Tracing(mux)))
	return middleware.HostFilter(allowedHosts)(handler)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok","service":"dinarx-api"}`))
}
