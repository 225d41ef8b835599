package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/tmkp/assertions-api/internal/api"
	"github.com/tmkp/assertions-api/internal/auth"
	"github.com/tmkp/assertions-api/internal/config"
	"github.com/tmkp/assertions-api/internal/db"
	"github.com/tmkp/assertions-api/internal/kgx"
	"github.com/tmkp/assertions-api/internal/mcp"
	"github.com/tmkp/assertions-api/internal/normalize"
)

var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		cmdServe(os.Args[2:])
	case "export-kgx":
		cmdExportKGX(os.Args[2:])
	case "mcp":
		cmdMCP(os.Args[2:])
	case "version":
		fmt.Printf("tmkpd %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`tmkpd — text-mined assertions API

Usage:
  tmkpd serve [--config config.toml] [--addr :8080]
  tmkpd export-kgx [--config config.toml] [--out edges.tsv] [--nodes] [--uniprot]
  tmkpd mcp [--config config.toml]
  tmkpd version
  tmkpd help

Commands:
  serve       Start the HTTP server
  export-kgx  Write KGX edge (or node) rows as TSV
  mcp         Serve the query tools over MCP stdio
  version     Print version
  help        Show this help`)
}

func cmdServe(args []string) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	addr := fs.String("addr", "", "listen address (overrides config)")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	a := auth.New(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiryMin)
	normalizer := normalize.New(cfg.Normalizer.URL,
		time.Duration(cfg.Normalizer.TimeoutSec)*time.Second, cfg.Normalizer.RequestsPerSec)
	apiHandler := api.New(database, a, normalizer, cfg)

	mux := http.NewServeMux()
	apiHandler.RegisterRoutes(mux)

	log.Printf("tmkpd %s listening on %s", version, cfg.Server.Addr)
	log.Printf("database: %s", cfg.Database.Path)
	log.Printf("edge limit: %d, current version: %d", cfg.Query.EdgeLimit, cfg.Query.CurrentVersion)

	if err := http.ListenAndServe(cfg.Server.Addr, api.SecurityHeaders(mux)); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func cmdExportKGX(args []string) {
	fs := flag.NewFlagSet("export-kgx", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	out := fs.String("out", "", "output file (default stdout)")
	nodes := fs.Bool("nodes", false, "export node rows instead of edge rows")
	uniprot := fs.Bool("uniprot", false, "substitute cross-referenced identifiers")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	w := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("creating output file: %v", err)
		}
		defer f.Close()
		w = f
	}

	mode := kgx.ModeRaw
	if *uniprot {
		mode = kgx.ModeXref
	}

	exporter := kgx.NewExporter(database)
	ctx := context.Background()
	if *nodes {
		normalizer := normalize.New(cfg.Normalizer.URL,
			time.Duration(cfg.Normalizer.TimeoutSec)*time.Second, cfg.Normalizer.RequestsPerSec)
		err = exporter.WriteNodes(ctx, w, mode, normalizer)
	} else {
		err = exporter.WriteEdges(ctx, w, mode)
	}
	if err != nil {
		log.Fatalf("exporting: %v", err)
	}
}

func cmdMCP(args []string) {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	configPath := fs.String("config", "", "path to config.toml")
	fs.Parse(args)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("opening database: %v", err)
	}
	defer database.Close()

	if err := mcp.ServeStdio(mcp.NewServer(database, cfg.Query)); err != nil {
		log.Fatalf("mcp server error: %v", err)
	}
}
