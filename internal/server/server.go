// Package server is the composition root: it assembles repositories,
// services, and HTTP handlers, and manages the server lifecycle.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/surveyclub/survey-services/api/internal/application"
	"github.com/surveyclub/survey-services/api/internal/config"
	mongorepo "github.com/surveyclub/survey-services/api/internal/infrastructure/mongo"
	"github.com/surveyclub/survey-services/api/internal/infrastructure/storage"
	adminhttp "github.com/surveyclub/survey-services/api/internal/interfaces/http/admin"
	analyticshttp "github.com/surveyclub/survey-services/api/internal/interfaces/http/analytics"
	commonhttp "github.com/surveyclub/survey-services/api/internal/interfaces/http/common"
	publichttp "github.com/surveyclub/survey-services/api/internal/interfaces/http/public"
)

// Server manages the HTTP lifecycle and injects application services into
// the public, admin, and analytics handlers.
type Server struct {
	logger         *log.Logger
	client         *mongo.Client
	database       *mongo.Database
	surveyService  application.SurveyService
	responses      application.ResponseService
	categories     application.CategoryService
	analytics      application.AnalyticsService
	voices         application.VoiceService
	jwtConfigs     []config.JWTConfig
	jwtAudience    string
	addr           string
	allowedOrigins []string
	publicBaseURL  string
	uploadDir      string
}

// New resolves every dependency from Config and the Mongo client.
func New(cfg config.Config, client *mongo.Client) (*Server, error) {
	database := client.Database(cfg.MongoDatabase)

	surveyRepo := mongorepo.NewSurveyRepository(database, cfg.SurveyCollection)
	responseRepo := mongorepo.NewResponseRepository(database, cfg.ResponseCollection)
	categoryRepo := mongorepo.NewCategoryRepository(database, cfg.CategoryCollection)
	voiceRepo := mongorepo.NewVoiceRepository(database, cfg.VoiceCollection)

	store, err := storage.NewLocalStore(cfg.UploadDir, cfg.MediaBaseURL)
	if err != nil {
		return nil, err
	}

	return &Server{
		logger:         cfg.ServerLog,
		client:         client,
		database:       database,
		surveyService:  application.NewSurveyService(surveyRepo, responseRepo, categoryRepo),
		responses:      application.NewResponseService(surveyRepo, responseRepo, categoryRepo),
		categories:     application.NewCategoryService(categoryRepo, surveyRepo),
		analytics:      application.NewAnalyticsService(surveyRepo, responseRepo),
		voices:         application.NewVoiceService(voiceRepo, store),
		jwtConfigs:     append([]config.JWTConfig(nil), cfg.JWTConfigs...),
		jwtAudience:    cfg.JWTAudience,
		addr:           cfg.Addr,
		allowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		publicBaseURL:  cfg.PublicBaseURL,
		uploadDir:      cfg.UploadDir,
	}, nil
}

// Run assembles routing and middleware and serves until shutdown.
func (s *Server) Run() error {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(withCORS(s.allowedOrigins))

	router.Get("/healthz", s.healthHandler())

	fileServer := http.StripPrefix("/media/", http.FileServer(http.Dir(s.uploadDir)))
	router.Get("/media/*", fileServer.ServeHTTP)

	publicHandler := publichttp.NewHandler(publichttp.Config{
		Logger:    s.logger,
		Surveys:   s.surveyService,
		Responses: s.responses,
		Voices:    s.voices,
	})
	publicHandler.Register(router)

	adminHandler := adminhttp.NewHandler(adminhttp.Config{
		Logger:        s.logger,
		Surveys:       s.surveyService,
		Categories:    s.categories,
		PublicBaseURL: s.publicBaseURL,
	})
	router.Route("/admin", func(r chi.Router) {
		r.Use(s.authMiddleware)
		adminHandler.Register(r)
	})

	analyticsHandler := analyticshttp.NewHandler(analyticshttp.Config{
		Logger:  s.logger,
		Service: s.analytics,
	})
	router.Route("/analytics", func(r chi.Router) {
		r.Use(s.authMiddleware)
		analyticsHandler.Register(r)
	})

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP server listening on %s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	waitForShutdown(httpServer, errChan, s)
	return nil
}

// withCORS adds CORS headers for origins on the allow list.
func withCORS(origins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{})
	allowAll := false
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		if origin == "*" {
			allowAll = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" || (!allowAll && len(allowed) > 0 && !originAllowed(origin, allowed)) {
				if r.Method == http.MethodOptions {
					w.WriteHeader(http.StatusNoContent)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,PATCH,DELETE,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Authorization,Content-Type")
			w.Header().Set("Access-Control-Max-Age", "300")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func originAllowed(origin string, allowed map[string]struct{}) bool {
	if len(allowed) == 0 {
		return true
	}
	_, ok := allowed[origin]
	return ok
}

// healthHandler reports infrastructure state only: a Mongo ping.
func (s *Server) healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
			s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
				"error":  err.Error(),
			})
			return
		}

		s.writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().Format(time.RFC3339),
		})
	}
}

// authMiddleware validates the Authorization bearer token and stores the
// authenticated admin into the request context.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := strings.TrimSpace(r.Header.Get("Authorization"))
		if authHeader == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing Authorization header"})
			return
		}

		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "a Bearer token is required"})
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, bearerPrefix))
		if tokenString == "" {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "empty access token"})
			return
		}

		claims, err := s.parseAuthToken(tokenString)
		if err != nil {
			s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}

		user := commonhttp.AuthenticatedUser{
			ID:   claims.Subject,
			Name: claims.Name,
			Role: claims.Role,
		}
		ctx := commonhttp.ContextWithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// parseAuthToken tries each configured JWT secret in order, checking the
// signature, issuer, audience, and time-based claims.
func (s *Server) parseAuthToken(tokenString string) (*authClaims, error) {
	if len(s.jwtConfigs) == 0 {
		return nil, fmt.Errorf("authentication is not configured")
	}

	for _, cfg := range s.jwtConfigs {
		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
			}
			return cfg.Secret, nil
		}, jwt.WithLeeway(30*time.Second))

		if err != nil || !token.Valid {
			continue
		}
		if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
			continue
		}
		if claims.Subject == "" {
			continue
		}
		if s.jwtAudience != "" && !contains(claims.Audience, s.jwtAudience) {
			continue
		}
		return claims, nil
	}

	return nil, fmt.Errorf("invalid access token")
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

type authClaims struct {
	jwt.RegisteredClaims
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("failed to encode JSON response: %v", err)
	}
}

// shutdown disconnects the Mongo client with a bounded timeout.
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("error disconnecting from MongoDB: %v", err)
	}
}

// waitForShutdown watches ListenAndServe and OS signals to drive a graceful
// shutdown.
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			srv.logger.Fatalf("server exited abnormally: %v", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("received signal %s, shutting down", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("error during server shutdown: %v", err)
		}
	}

	srv.shutdown(context.Background())
}
