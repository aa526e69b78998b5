package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/product-compare/internal/compare"
	"github.com/sells-group/product-compare/internal/model"
)

// maxBodyBytes bounds request bodies; a bundle with reviews is well under it.
const maxBodyBytes = 8 << 20

var servePort int

// pairRequest is the body of POST /v1/compare and POST /v1/align.
type pairRequest struct {
	ProductA *model.ProductBundle `json:"productA"`
	ProductB *model.ProductBundle `json:"productB"`
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the comparison HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if servePort != 0 {
			cfg.Server.Port = servePort
		}
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cmp, err := newComparator(ctx, cfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:           buildRouter(cmp),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// buildRouter wires the HTTP surface over cmp.
func buildRouter(cmp *compare.Comparator) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Post("/compare", func(w http.ResponseWriter, req *http.Request) {
			pair, ok := decodePair(w, req)
			if !ok {
				return
			}
			report, err := cmp.Compare(req.Context(), pair.ProductA, pair.ProductB)
			if err != nil {
				writeError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, report)
		})

		r.Post("/align", func(w http.ResponseWriter, req *http.Request) {
			pair, ok := decodePair(w, req)
			if !ok {
				return
			}
			rows, err := compare.AlignBundles(pair.ProductA, pair.ProductB)
			if err != nil {
				writeError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"specRows": rows})
		})
	})

	return r
}

func decodePair(w http.ResponseWriter, req *http.Request) (pairRequest, bool) {
	var pair pairRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxBodyBytes)).Decode(&pair); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return pair, false
	}
	return pair, true
}

func writeError(w http.ResponseWriter, req *http.Request, err error) {
	if model.IsInputError(err) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": rootMessage(err)})
		return
	}
	zap.L().Error("request failed",
		zap.String("request_id", middleware.GetReqID(req.Context())),
		zap.Error(err),
	)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// rootMessage returns the InputError text without wrapping prefixes.
func rootMessage(err error) string {
	var ie *model.InputError
	if errors.As(err, &ie) {
		return ie.Error()
	}
	return err.Error()
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
