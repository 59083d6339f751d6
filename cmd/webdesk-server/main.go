// webdesk-server serves simulated desktops over HTTP: the JSON API, the
// static front end, health probes and Prometheus metrics.
//
// Usage:
//
//	webdesk-server [-config webdesk.yaml]
//
// Settings come from the optional YAML file, a .env file and WEBDESK_*
// environment variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"webdesk/pkg/api"
	"webdesk/pkg/config"
	"webdesk/pkg/desktop"
	"webdesk/pkg/logging"
	"webdesk/pkg/server"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "webdesk-server: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()
	logger := logging.L()

	registry := desktop.NewRegistry(cfg.Session(logger.Named("desktop")), cfg.SessionTTL)
	defer registry.Close()

	r := api.NewRouter(registry, logger.Named("api"))
	r.GET(api.Prefix+"/qr", qrHandler(cfg.PublicURL))

	srv := server.New(server.Config{
		Addr:          cfg.ListenAddr,
		Handler:       r,
		StaticDir:     cfg.StaticDir,
		ShutdownGrace: cfg.ShutdownGrace,
		Logger:        logger.Named("server"),
	})
	if cfg.TLSCertFile != "" {
		if err := srv.EnableTLS(cfg.TLSCertFile, cfg.TLSKeyFile); err != nil {
			return fmt.Errorf("enable tls: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go registry.Run(ctx, cfg.ReapInterval)

	if cfg.PrintQR {
		printQR(os.Stdout, cfg.PublicURL)
	}
	logger.Info("webdesk starting",
		zap.String("addr", cfg.ListenAddr),
		zap.String("public_url", cfg.PublicURL),
		zap.String("static_dir", cfg.StaticDir),
		zap.Duration("session_ttl", cfg.SessionTTL),
		zap.Int("routes", len(r.Routes())),
	)

	if err := srv.Run(ctx); err != nil {
		return err
	}
	logger.Info("webdesk stopped")
	return nil
}

// printQR writes the public URL as a terminal QR code so a phone on the
// same network can open the desktop.
func printQR(w io.Writer, url string) {
	q, err := qrcode.New(url, qrcode.Medium)
	if err != nil {
		logging.Warn("could not generate QR code", zap.Error(err))
		return
	}
	fmt.Fprintln(w, q.ToString(false))
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Scan above or visit: %s\n", url)
	fmt.Fprintln(w, "----------------------------------------")
}

// qrHandler serves the public URL as a PNG QR code.
func qrHandler(url string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		png, err := qrcode.Encode(url, qrcode.Medium, 256)
		if err != nil {
			logging.WithContext(r.Context()).Error("qr encode failed", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		w.Write(png)
	})
}
