package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path"
	"syscall"
	"time"

	"github.com/airhealthproject/airctl/pkg/artifact"
	"github.com/airhealthproject/airctl/pkg/predict"
	urfave "github.com/urfave/cli/v2"
)

const (
	serverShutdownWaitSeconds = 5
	serverTimeoutSeconds      = 300
	serverMaxHeaderBytes      = 20
	serverPortDefault         = 8080
)

var (
	portFlag = &urfave.IntFlag{
		Name:  "port",
		Usage: "Port on which the server will listen",
		Value: serverPortDefault,
	}

	modelPathFlag = &urfave.StringFlag{
		Name:  "model",
		Usage: "Path to the trained model artifact (default: next to the database)",
	}

	serverCmd = &urfave.Command{
		Name:    "server",
		Aliases: []string{"serve"},
		Usage:   "Start the dashboard and prediction HTTP API",
		UsageText: `airctl server                       # serve on :8080
   airctl server --port 9090 --model ./model.gob`,
		HideHelpCommand: true,
		Action:          cmdStartServer,
		Flags: []urfave.Flag{
			portFlag,
			modelPathFlag,
		},
	}
)

func cmdStartServer(c *urfave.Context) error {
	cfg := getConfig(c)
	port := c.Int(portFlag.Name)
	address := fmt.Sprintf("127.0.0.1:%d", port)

	modelPath := c.String(modelPathFlag.Name)
	if modelPath == "" {
		modelPath = path.Join(path.Dir(cfg.DBPath), artifact.DefaultFileName)
	}

	// The artifact must load before the listener opens; a service with a
	// missing or incompatible model never accepts traffic.
	art, err := artifact.Load(modelPath)
	if err != nil {
		return fmt.Errorf("loading model artifact: %w", err)
	}
	slog.Info("model loaded",
		"artifact", modelPath,
		"profile", art.Profile,
		"seed", art.Seed,
		"created", art.CreatedAt,
	)

	svc := predict.NewService(art)
	mux := makeRouter(cfg.DB, svc)

	s := &http.Server{
		Addr:           address,
		Handler:        mux,
		ReadTimeout:    serverTimeoutSeconds * time.Second,
		WriteTimeout:   serverTimeoutSeconds * time.Second,
		MaxHeaderBytes: 1 << serverMaxHeaderBytes,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("error starting server", "error", err)
		}
	}()

	slog.Info("server started", "address", fmt.Sprintf("http://%s", address))

	<-done

	ctx, cancel := context.WithTimeout(context.Background(), serverShutdownWaitSeconds*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("error shutting down server", "error", err)
	}
	return nil
}

func makeRouter(db *sql.DB, svc *predict.Service) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", rootHandler)

	// Dashboard API
	mux.HandleFunc("GET /api/stats", statsAPIHandler(db))
	mux.HandleFunc("GET /api/filters", filtersAPIHandler(db))
	mux.HandleFunc("GET /api/charts/doctor-visits", doctorVisitsChartHandler(db))
	mux.HandleFunc("GET /api/charts/symptoms", symptomsChartHandler(db))
	mux.HandleFunc("GET /api/charts/season", valueCountChartHandler(db, "Worst Pollution Season"))
	mux.HandleFunc("GET /api/charts/housing", valueCountChartHandler(db, "Housing Type"))
	mux.HandleFunc("GET /api/charts/dust-entry", valueCountChartHandler(db, "Dust Entry Frequency"))
	mux.HandleFunc("GET /api/charts/age-distribution", valueCountChartHandler(db, "Age Group"))
	mux.HandleFunc("GET /api/charts/gender", valueCountChartHandler(db, "Gender"))
	mux.HandleFunc("GET /api/charts/eye-irritation", valueCountChartHandler(db, "Eye/Throat Irritation"))
	mux.HandleFunc("GET /api/charts/chest-heaviness", valueCountChartHandler(db, "Morning Chest Heaviness"))

	// Prediction API
	mux.HandleFunc("GET /api/predict", predictAPIHandler(svc))

	return mux
}

func rootHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"name":    "airctl",
		"version": version,
	})
}
