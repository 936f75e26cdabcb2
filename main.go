package main

import (
	"context"
	"log"

	api "b2y-backend/cmd/api"
	adsUsecase "b2y-backend/internal/ads/usecase"
	"b2y-backend/internal/platform/repository"
	platformUsecase "b2y-backend/internal/platform/usecase"
	"b2y-backend/pkg/config"
	"b2y-backend/pkg/database"
	"b2y-backend/pkg/identity"
	"b2y-backend/pkg/metaads"
)

func main() {
	// Load configuration
	cfg := config.Load()

	ctx := context.Background()

	// Initialize Firebase (identity provider and default credential store)
	app, err := identity.NewFirebaseApp(ctx, cfg.FirebaseCredentials)
	if err != nil {
		log.Fatal("Failed to initialize Firebase:", err)
	}

	verifier, err := identity.NewFirebaseVerifier(ctx, app)
	if err != nil {
		log.Fatal("Failed to initialize token verifier:", err)
	}

	// Select the credential store backend
	var store repository.CredentialStore
	switch cfg.CredentialStore {
	case "postgres":
		db, err := database.NewPostgresConnection(cfg)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}
		if err := repository.Migrate(db); err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		store = repository.NewPostgresStore(db)
		log.Println("[STORE] using postgres credential store")
	default:
		firestoreClient, err := app.Firestore(ctx)
		if err != nil {
			log.Fatal("Failed to initialize Firestore:", err)
		}
		store = repository.NewFirestoreStore(firestoreClient)
		log.Println("[STORE] using firestore credential store")
	}

	// Graph API client for Meta OAuth and the ads proxy
	metaClient := metaads.NewClient(cfg.FacebookAppID, cfg.FacebookAppSecret, cfg.GraphAPIBaseURL)

	// Initialize use cases (dependency injection)
	connectionUc := platformUsecase.NewConnectionUsecase(store, metaClient, platformUsecase.NewGoogleOAuthConfig(cfg), cfg)
	adsUc := adsUsecase.NewAdsUsecase(store, metaClient)

	// Initialize HTTP handler
	handler := api.NewHandler(connectionUc, adsUc, verifier, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
