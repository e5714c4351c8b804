package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/ironsheep/blob-tools-mcp/internal/blob"
	"github.com/ironsheep/blob-tools-mcp/internal/config"
	"github.com/ironsheep/blob-tools-mcp/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Handle --version and -v flags
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "-v", "version":
			fmt.Printf("blob-tools-mcp %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printUsage()
			return
		}
	}

	fs := flag.NewFlagSet("blob-tools-mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to a YAML config file")
	fs.Usage = printUsage
	_ = fs.Parse(os.Args[1:])

	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg, err := config.LoadConfig(config.Resolve(*configPath))
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}
	if os.Getenv("IMAGE_MCP_LOG_LEVEL") == "debug" {
		cfg.LogLevel = "debug"
	}

	if cfg.Debug() {
		log.Printf("Blob MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		blob.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if Version != "dev" {
		server.Version = Version
	}

	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}

func printUsage() {
	fmt.Println("blob-tools-mcp - MCP server for connected-component labeling")
	fmt.Println()
	fmt.Println("Usage: blob-tools-mcp [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config FILE    Load labeling defaults from a YAML file")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  IMAGE_MCP_CONFIG=FILE        Config file used when --config is absent")
	fmt.Println("  IMAGE_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("This server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}
