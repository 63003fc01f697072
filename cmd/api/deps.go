package main

import (
	"log"

	"dinarx/internal/domain/banking"
	"dinarx/internal/domain/customer"
	"dinarx/internal/domain/wallet"
	"dinarx/internal/infrastructure/jopacc"
	"dinarx/internal/infrastructure/postgres"
	httphandlers "dinarx/internal/interfaces/http"
	"dinarx/internal/shared/auth"
	"dinarx/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	OpenBankingHandler *httphandlers.OpenBankingHandler
	LoanHandler        *httphandlers.LoanHandler
	IBANHandler        *httphandlers.IBANHandler
	WalletHandler      *httphandlers.WalletHandler

	// Auth
	JWT *auth.JWT
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	walletRepo := postgres.NewWalletRepository(db)

	// Initialize domain services
	walletService := wallet.NewService(walletRepo)

	// Initialize the Open Banking gateway client and orchestrator
	gatewayClient := jopacc.NewClient(jopacc.Options{
		BaseURL:     cfg.JoPACC.BaseURL,
		APIToken:    cfg.JoPACC.APIToken,
		FinancialID: cfg.JoPACC.FinancialID,
		Signature:   cfg.JoPACC.Signature,
		Timeout:     cfg.JoPACC.Timeout,
	}, nil)
	orchestrator := banking.NewOrchestrator(gatewayClient, cfg.OpenBanking.DashboardPageSize)
	resolver := customer.NewResolver(cfg.OpenBanking.DefaultCustomerID)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, walletService, jwt)
	openBankingHandler := httphandlers.NewOpenBankingHandler(orchestrator, resolver)
	loanHandler := httphandlers.NewLoanHandler(orchestrator, resolver)
	ibanHandler := httphandlers.NewIBANHandler(orchestrator, resolver)
	walletHandler := httphandlers.NewWalletHandler(walletService)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		OpenBankingHandler: openBankingHandler,
		LoanHandler:        loanHandler,
		IBANHandler:        ibanHandler,
		WalletHandler:      walletHandler,
		JWT:                jwt,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
