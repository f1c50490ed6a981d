package main

import (
	"context"
	"log"

	"horizon/internal/domain/bank"
	"horizon/internal/domain/ledger"
	"horizon/internal/domain/notification"
	"horizon/internal/domain/transfer"
	"horizon/internal/domain/user"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/infrastructure/crypto"
	"horizon/internal/infrastructure/firebase"
	"horizon/internal/infrastructure/payments"
	"horizon/internal/infrastructure/postgres"
	httphandlers "horizon/internal/interfaces/http"
	"horizon/internal/shared/auth"
	"horizon/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	LinkHandler        *httphandlers.LinkHandler
	AccountHandler     *httphandlers.AccountHandler
	TransactionHandler *httphandlers.TransactionHandler
	TransferHandler    *httphandlers.TransferHandler

	// Auth
	JWT *auth.JWT

	// Services used by the scheduler job provider
	Users     *user.Service
	Banks     *bank.Service
	Engine    *ledger.Engine
	Messenger notification.Messenger
}

// NewDependencies initializes all application dependencies.
func NewDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	// Connect to database
	db, err := postgres.New(cfg.Database.ConnString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	// Initialize encryptor for access tokens at rest
	encryptor, err := crypto.NewEncryptor(cfg.Encryption.Key)
	if err != nil {
		return nil, err
	}

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	bankLinkRepo := postgres.NewBankLinkRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)

	// Initialize provider clients
	aggregatorClient := aggregator.NewClient(cfg.Aggregator.Environment, cfg.Aggregator.ClientID, cfg.Aggregator.Secret)

	paymentsEnv, err := payments.ParseEnvironment(cfg.Payments.Environment)
	if err != nil {
		return nil, err
	}
	paymentsClient := payments.NewClient(paymentsEnv, cfg.Payments.Key, cfg.Payments.Secret)

	// Initialize domain services
	userService := user.NewService(userRepo, paymentsClient)
	bankService := bank.NewService(bankLinkRepo, aggregatorClient, paymentsClient, encryptor)
	transferService := transfer.NewService(bankService, transactionRepo, paymentsClient)

	// Ledger pipeline: walker pulls provider pages, engine reconciles them
	// into the persisted ledger.
	walker := ledger.NewWalker(aggregatorClient)
	engine := ledger.NewEngine(transactionRepo, bankService, walker)
	portfolioService := ledger.NewPortfolioService(bankService, aggregatorClient)

	// Push notifications are optional; without credentials consent prompts
	// are skipped and re-consent happens when the user next opens the app.
	var messenger notification.Messenger
	if cfg.Firebase.CredentialsFile != "" {
		fcmClient, err := firebase.NewClient(ctx, cfg.Firebase.CredentialsFile, userService.DeactivateDevice)
		if err != nil {
			log.Printf("Warning: Failed to initialize Firebase messaging: %v", err)
		} else {
			messenger = fcmClient
			log.Println("Firebase messaging initialized")
		}
	}

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userService, jwt)
	userHandler := httphandlers.NewUserHandler(userService)
	linkHandler := httphandlers.NewLinkHandler(bankService, userService, cfg.Aggregator.ClientName)
	accountHandler := httphandlers.NewAccountHandler(portfolioService, engine, bankService)
	transactionHandler := httphandlers.NewTransactionHandler(transactionRepo)
	transferHandler := httphandlers.NewTransferHandler(transferService)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		LinkHandler:        linkHandler,
		AccountHandler:     accountHandler,
		TransactionHandler: transactionHandler,
		TransferHandler:    transferHandler,
		JWT:                jwt,
		Users:              userService,
		Banks:              bankService,
		Engine:             engine,
		Messenger:          messenger,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
