package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/scribehq/scribe/internal/api"
	"github.com/scribehq/scribe/internal/log"
	"github.com/scribehq/scribe/pkg/engine"
	"github.com/scribehq/scribe/pkg/mcpserver"
	"github.com/scribehq/scribe/pkg/scribedir"
)

const version = "0.3.0"

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "init":
			initCmd := flag.NewFlagSet("init", flag.ExitOnError)
			initCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: scribe init [flags]\n\nInitialize a .scribe directory with default structure and config.\n\nFlags:\n")
				initCmd.PrintDefaults()
			}
			dir := initCmd.String("scribe-dir", scribedir.DirName, "path to .scribe directory")
			_ = initCmd.Parse(os.Args[2:])

			if err := runInit(*dir); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}

			return
		case "serve":
			serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
			serveCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: scribe serve [flags]\n\nServe the research API over HTTP.\n\nFlags:\n")
				serveCmd.PrintDefaults()
			}
			configPath := serveCmd.String("config", "", "path to configuration file")
			dir := serveCmd.String("scribe-dir", scribedir.DirName, "path to .scribe directory")
			envFile := serveCmd.String("env", ".env", "path to .env file (ignored if missing)")
			addr := serveCmd.String("addr", "", "listen address (overrides config)")
			_ = serveCmd.Parse(os.Args[2:])

			if err := runServe(*configPath, *dir, *envFile, *addr); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}

			return
		case "mcp":
			mcpCmd := flag.NewFlagSet("mcp", flag.ExitOnError)
			mcpCmd.Usage = func() {
				fmt.Fprintf(os.Stderr, "Usage: scribe mcp [flags]\n\nServe research tools over MCP on stdin/stdout.\n\nFlags:\n")
				mcpCmd.PrintDefaults()
			}
			configPath := mcpCmd.String("config", "", "path to configuration file")
			dir := mcpCmd.String("scribe-dir", scribedir.DirName, "path to .scribe directory")
			envFile := mcpCmd.String("env", ".env", "path to .env file (ignored if missing)")
			_ = mcpCmd.Parse(os.Args[2:])

			if err := runMCP(*configPath, *dir, *envFile); err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				os.Exit(1)
			}

			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: scribe [flags]\n       scribe <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n  init   Initialize a .scribe directory with default structure and config\n  serve  Serve the research API over HTTP\n  mcp    Serve research tools over MCP on stdin/stdout\n")
	}

	configPath := flag.String("config", "", "path to configuration file (default: .scribe/config.yaml or scribe.yaml)")
	dir := flag.String("scribe-dir", scribedir.DirName, "path to .scribe directory")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	provider := flag.String("provider", "", "provider to use (overrides default_provider in config)")
	topic := flag.String("topic", "", "research one topic and exit instead of starting the REPL")
	deep := flag.Bool("deep", false, "let the model drive search and page fetches itself")
	flag.Parse()

	if err := run(*configPath, *dir, *envFile, *provider, *topic, *deep); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newEngine(configPath, dirPath, envFile string) (*engine.Engine, error) {
	if err := loadDotEnv(envFile); err != nil {
		return nil, err
	}

	cfg, err := engine.LoadConfig(resolveConfigPath(configPath, dirPath))
	if err != nil {
		return nil, err
	}
	cfg.ScribeDir = dirPath

	return engine.New(cfg)
}

func run(configPath, dirPath, envFile, provider, topic string, deep bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng, err := newEngine(configPath, dirPath, envFile)
	if err != nil {
		return err
	}

	if topic != "" {
		return runOnce(ctx, eng, provider, topic, deep)
	}

	model := newAppModel(ctx, eng, provider, deep)

	p := tea.NewProgram(model)
	_, err = p.Run()

	return err
}

func runServe(configPath, dirPath, envFile, addr string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Configure(log.Config{Service: "scribe"})

	eng, err := newEngine(configPath, dirPath, envFile)
	if err != nil {
		return err
	}

	if addr == "" {
		addr = eng.Addr()
	}

	return api.NewServer(eng).ListenAndServe(ctx, addr)
}

func runMCP(configPath, dirPath, envFile string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	eng, err := newEngine(configPath, dirPath, envFile)
	if err != nil {
		return err
	}

	srv := mcpserver.New("scribe", version)
	srv.Register(mcpserver.EngineTools(eng)...)

	return srv.Serve(ctx, os.Stdin, os.Stdout)
}
