package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/draftroom/draftroom/backend-go/internal/auth"
	"github.com/draftroom/draftroom/backend-go/internal/config"
	"github.com/draftroom/draftroom/backend-go/internal/construct"
	"github.com/draftroom/draftroom/backend-go/internal/db"
	"github.com/draftroom/draftroom/backend-go/internal/document"
	"github.com/draftroom/draftroom/backend-go/internal/drawing"
	"github.com/draftroom/draftroom/backend-go/internal/engine"
	mw "github.com/draftroom/draftroom/backend-go/internal/middleware"
	"github.com/draftroom/draftroom/backend-go/internal/session"
	"github.com/draftroom/draftroom/backend-go/internal/snap"
	"github.com/draftroom/draftroom/backend-go/internal/store"
	"github.com/draftroom/draftroom/backend-go/internal/typeid"
)

// scratchpadDrawingID is the anonymous drawing anyone may open without a
// token. It is never persisted.
const scratchpadDrawingID = "drw_scratchpad"

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	drawingService := drawing.NewService(st)
	drawingHandler := drawing.NewHandler(drawingService)

	sessions := session.NewRegistry()

	r := mux.NewRouter()
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.AllowedOrigins))

	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.Middleware)
	api.HandleFunc("/drawings", drawingHandler.List).Methods("GET")
	api.HandleFunc("/drawings", drawingHandler.Create).Methods("POST")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Get).Methods("GET")
	api.HandleFunc("/drawings/{drawingId}", drawingHandler.Delete).Methods("DELETE")
	api.HandleFunc("/drawings/{drawingId}/snapshots/latest", drawingHandler.GetLatestSnapshot).Methods("GET")

	r.HandleFunc("/ws/drawings/{drawingId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, cfg, sessions, authService, drawingService)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		saveCtx, saveCancel := context.WithTimeout(context.Background(), 10*time.Second)
		sessions.Shutdown(saveCtx)
		saveCancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, cfg *config.Config, sessions *session.Registry, authSvc *auth.Service, drawSvc *drawing.Service) {
	drawingID := mux.Vars(r)["drawingId"]

	var userID string
	var doc *document.Drawing
	var save session.Saver

	if drawingID == scratchpadDrawingID {
		userID = "anon-" + uuid.New().String()[:8]
		doc = document.NewSampleDrawing(drawingID)
	} else {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		data, err := drawSvc.LatestDocument(r.Context(), drawingID, userID)
		if err != nil {
			http.Error(w, "drawing not found", http.StatusNotFound)
			return
		}
		var d document.Drawing
		if err := json.Unmarshal(data, &d); err != nil {
			http.Error(w, "corrupt snapshot", http.StatusInternalServerError)
			return
		}
		doc = &d

		save = func(ctx context.Context, drawingID string, doc []byte) error {
			return drawSvc.SaveDocument(ctx, drawingID, doc)
		}
	}

	var snapper construct.SnapResolver = snap.Nop{}
	if cfg.SnapGrid > 0 {
		snapper = snap.Grid{Spacing: cfg.SnapGrid}
	}

	eng, err := engine.New(doc, snapper)
	if err != nil {
		slog.Error("create engine", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"localhost:5173", "localhost:3000"},
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	sess := session.New(sessions, conn, eng, save, typeid.NewSessionID(), userID, drawingID)
	sessions.Add(sess)

	ctx := r.Context()
	go sess.WritePump(ctx)
	sess.ReadPump(ctx)
}
