package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ttportal/internal/config"
	"ttportal/internal/db"
	"ttportal/internal/handlers"
	"ttportal/internal/services"
	"ttportal/internal/store"
	"ttportal/internal/websocket"
)

func main() {
	cfg := config.Load()
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	defer database.Close()

	users := store.NewUserStore(database)
	usage := store.NewUsageStore(database)
	balances := store.NewBalanceStore(database)
	recharges := store.NewRechargeStore(database)
	monetaryPlans := store.NewMonetaryPlanStore(database)
	dataPlans := store.NewDataPlanStore(database)
	agencies := store.NewAgencyStore(database)
	questions := store.NewQuestionStore(database)
	answers := store.NewAnswerStore(database)
	txRunner := db.NewTxRunner(database)
	hub := websocket.NewHub()
	forecasts := services.NewForecastService(users, usage, recharges, balances, monetaryPlans, dataPlans)
	locator := services.NewLocatorService(agencies)

	handler := handlers.New(cfg, txRunner, users, usage, balances, recharges, monetaryPlans, dataPlans, agencies, questions, answers, forecasts, locator, hub)
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("portal listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	<-shutdown

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}
