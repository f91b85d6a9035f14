// File path: cmd/meditrain/main.go
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/meditrainhq/meditrain/internal/api"
	"github.com/meditrainhq/meditrain/internal/cases"
	"github.com/meditrainhq/meditrain/internal/common"
	"github.com/meditrainhq/meditrain/internal/diagnosis"
	"github.com/meditrainhq/meditrain/internal/gate"
	"github.com/meditrainhq/meditrain/internal/llm"
	"github.com/meditrainhq/meditrain/internal/patient"
	"github.com/meditrainhq/meditrain/internal/report"
	"github.com/meditrainhq/meditrain/internal/session"
	"github.com/meditrainhq/meditrain/internal/symptom"
)

func main() {
	logger := common.Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn("meditrain: .env file not loaded", "error", err)
	} else {
		logger.Info("meditrain: environment loaded from .env")
	}

	caseCfg := cases.LoadConfig()
	modelCfg := diagnosis.LoadConfig()
	sessionCfg := session.LoadConfig()

	addr := flag.String("addr", ":8080", "listen address")
	caseDir := flag.String("cases", caseCfg.Dir, "directory of patient case files")
	modelDir := flag.String("models", modelCfg.Dir, "directory for trained model artifacts")
	dbPath := flag.String("db", sessionCfg.Path, "path to the session history database")
	flag.Parse()

	logger.Info("meditrain: startup initiated", "addr", *addr, "cases", *caseDir, "models", *modelDir)

	if trimmed := strings.TrimSpace(*caseDir); trimmed != "" {
		caseCfg.Dir = trimmed
	}
	if trimmed := strings.TrimSpace(*modelDir); trimmed != "" {
		modelCfg.Dir = trimmed
	}
	if trimmed := strings.TrimSpace(*dbPath); trimmed != "" {
		sessionCfg.Path = trimmed
	}

	store, err := cases.NewStore(caseCfg)
	if err != nil {
		logger.Error("meditrain: case store init failed", "error", err)
		fmt.Println("case store error:", err)
		os.Exit(1)
	}

	lemmatizer, err := symptom.NewDictLemmatizer()
	if err != nil {
		logger.Error("meditrain: lemmatizer init failed", "error", err)
		fmt.Println("lemmatizer error:", err)
		os.Exit(1)
	}
	extractor := symptom.NewExtractor(symptom.DefaultVocabulary(), lemmatizer)

	registry := diagnosis.NewRegistry(modelCfg)
	if registry.Trained() {
		logger.Info("meditrain: model artifacts found", "dir", modelCfg.Dir)
	} else {
		logger.Warn("meditrain: no trained model, prediction disabled until /v1/train runs")
	}

	sessions, err := session.Open(sessionCfg)
	if err != nil {
		logger.Error("meditrain: session store init failed", "error", err)
		fmt.Println("session store error:", err)
		os.Exit(1)
	}
	defer sessions.Close()

	provider := llm.NewProvider()
	logger.Info("meditrain: llm provider ready", "provider", provider.Name())

	patientSvc := patient.NewService(store, gate.New(gate.DefaultVocabulary()), extractor, registry, provider)
	reports := report.NewService(provider)

	server, err := api.NewServer(store, extractor, registry, patientSvc, reports, sessions, provider)
	if err != nil {
		logger.Error("meditrain: server construction failed", "error", err)
		fmt.Println("server error:", err)
		os.Exit(1)
	}

	httpServer := &http.Server{Addr: *addr, Handler: server}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("meditrain: server listening", "addr", *addr, "health", "/healthz")
		fmt.Printf("Serving on %s\n", *addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("meditrain: shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("meditrain: shutdown failed", "error", err)
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("meditrain: server stopped", "error", err)
			fmt.Println("server stopped:", err)
			os.Exit(1)
		}
	}
}
