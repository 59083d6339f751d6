// webdesk-mcp exposes one desktop session to MCP clients over stdio. The
// tools run terminal commands and read and write the session's files.
//
// Usage:
//
//	webdesk-mcp [-config webdesk.yaml]
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"webdesk/pkg/config"
	"webdesk/pkg/logging"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "webdesk-mcp: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	// stdout carries the protocol.
	if err := logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, OutputPath: "stderr"}); err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	defer logging.Sync()

	tools, err := newTools(cfg.Session(logging.Named("desktop")))
	if err != nil {
		return err
	}
	defer tools.Close()

	s := server.NewMCPServer("webdesk", version, server.WithToolCapabilities(false))
	tools.register(s)

	logging.Info("webdesk-mcp serving on stdio")
	return server.ServeStdio(s)
}
