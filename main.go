package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/ferreirogomes/imofrac/blockchain_listener"
	"github.com/ferreirogomes/imofrac/events"
	"github.com/ferreirogomes/imofrac/handlers"
	"github.com/ferreirogomes/imofrac/services"
	"github.com/ferreirogomes/imofrac/storage"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func main() {
	dataSourceName := os.Getenv("DATABASE_URL")
	solanaRPCURL := os.Getenv("SOLANA_RPC_URL")
	solanaWSURL := os.Getenv("SOLANA_WS_URL")
	feePayerPrivateKey := os.Getenv("FEE_PAYER_PRIVATE_KEY")
	ownerUserID := os.Getenv("OWNER_USER_ID")

	db, err := storage.NewDB(dataSourceName)
	if err != nil {
		log.Fatalf("Falha fatal ao conectar ao banco de dados e aplicar migrações: %v", err)
	}
	defer db.Close()

	ledger, err := services.NewSolanaIntegrationService(solanaRPCURL, feePayerPrivateKey)
	if err != nil {
		log.Fatalf("Falha ao inicializar serviço Solana: %v", err)
	}

	auth := services.NewOwnerAuthService(ownerUserID)
	notifier := events.NewLogNotifier()
	fractionationService := services.NewFractionationService(db, ledger, auth, notifier)

	propertyHandler := handlers.NewPropertyHandler(fractionationService)
	fractionHandler := handlers.NewFractionHandler(fractionationService)
	userHandler := handlers.NewUserHandler(fractionationService)

	// Listener de reconciliação em uma goroutine separada
	listener, err := blockchain_listener.NewBlockchainListener(solanaWSURL, db, ledger, feePayerPrivateKey)
	if err != nil {
		log.Fatalf("Falha ao inicializar listener da blockchain: %v", err)
	}
	go listener.StartListening()
	log.Println("Listener da blockchain iniciado.")

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/properties", func(r chi.Router) {
		r.Post("/", propertyHandler.CreateProperty)
		r.Get("/{id}", propertyHandler.GetPropertyByID)
		r.Get("/{id}/metadata", propertyHandler.GetPropertyMetadata)
		r.Patch("/{id}/status", propertyHandler.UpdatePropertyStatus)
		r.Post("/{id}/purchase", fractionHandler.PurchaseFractions)
		r.Get("/{id}/balance/{userID}", fractionHandler.GetFractionBalance)
	})

	r.Route("/users", func(r chi.Router) {
		r.Post("/", userHandler.CreateUser)
		r.Get("/{id}", userHandler.GetUserByID)
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Servidor backend rodando na porta :%s...\n", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}
