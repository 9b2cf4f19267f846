// ABOUTME: Entry point for the rigdesk repair shop back office.
// ABOUTME: Wires store, REST API, pages, and admin handlers behind serve, seed, reset, and create-page commands.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/2389/rigdesk/internal/admin"
	"github.com/2389/rigdesk/internal/api"
	"github.com/2389/rigdesk/internal/auth"
	"github.com/2389/rigdesk/internal/config"
	"github.com/2389/rigdesk/internal/generator"
	"github.com/2389/rigdesk/internal/i18n"
	"github.com/2389/rigdesk/internal/logging"
	"github.com/2389/rigdesk/internal/pages"
	"github.com/2389/rigdesk/internal/seed"
	"github.com/2389/rigdesk/internal/store"
)

var (
	port   string
	dbPath string

	fieldsPath string
	force      bool
	rootDir    string
)

func main() {
	cfg := config.Load()
	if err := newRootCmd(cfg).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rigdesk",
		Short: "rigdesk - back office for a crypto-miner repair shop",
		Long: `rigdesk runs the back office of a mining hardware repair shop.

Pages:
  • Customers, technicians, and miners
  • Work orders, invoices, and payments
  • Dashboard and request log

Quick Start:
  rigdesk seed          # Load the demo dataset
  rigdesk serve         # Start server on port 9000
  rigdesk reset         # Wipe and reseed database`,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the rigdesk HTTP server on the specified port.

The server provides:
  • Entity pages at http://localhost:PORT/customers, /miners, /work-orders, ...
  • REST endpoints under http://localhost:PORT/api
  • Request log at http://localhost:PORT/admin/logs
  • Health check at http://localhost:PORT/healthz

Operators:
  Name the operator with the X-Operator header or "Authorization: Bearer operator:NAME".

Environment Variables:
  RIGDESK_PORT        Server port (default: 9000)
  RIGDESK_LOCALE      Default locale: en, es, zh (default: en)
  RIGDESK_RATE_LIMIT  Mutating API requests per minute per IP (default: 120)
  RIGDESK_TRUSTED_PROXIES  Comma-separated proxy IPs/CIDRs allowed to set X-Forwarded-For
  DEBUG               Log SQL statements (true/false)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runServe(cfg)
		},
	}
	serveCmd.Flags().StringVarP(&port, "port", "p", cfg.Port, "Port to listen on")
	serveCmd.Flags().StringVarP(&dbPath, "db", "d", cfg.DBPath, "Database path")

	seedCmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed the database with demo data",
		Long: `Seed customers, technicians, miners, work orders, invoices, and payments.

Seeding is idempotent: rows are upserted on their unique keys (email, serial
number, order number, invoice number, payment reference), so running it again
refreshes the same rows.

Set OPENAI_API_KEY to generate customer and technician names with AI.
Falls back to static names if no API key is provided.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runSeed(cmd.Context())
		},
	}
	seedCmd.Flags().StringVarP(&dbPath, "db", "d", cfg.DBPath, "Database path")

	resetCmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset the database (wipe and reseed)",
		Long: `Delete the database file and create a fresh one with the demo data.

Warning: This permanently deletes all data in the database!`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runReset(cmd.Context())
		},
	}
	resetCmd.Flags().StringVarP(&dbPath, "db", "d", cfg.DBPath, "Database path")

	createPageCmd := &cobra.Command{
		Use:   "create-page <entityKey> <PascalName> <apiPath>",
		Short: "Scaffold a page, API route, and translations for a new entity",
		Long: `Scaffold a new entity page.

Writes internal/pages/<entity>.go and internal/api/<entity>.go and merges the
page's entries into every locale file. Every locale entry is validated before
anything is written; a failure leaves the tree untouched.

Example:
  rigdesk create-page spare-parts SparePart /api/spare-parts --fields parts.yaml`,
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			return runCreatePage(cmd, args)
		},
	}
	createPageCmd.Flags().StringVar(&fieldsPath, "fields", "", "YAML file declaring extra fields")
	createPageCmd.Flags().BoolVar(&force, "force", false, "Overwrite existing page and route files")
	createPageCmd.Flags().StringVar(&rootDir, "root", ".", "Repository root")

	rootCmd.AddCommand(serveCmd, seedCmd, resetCmd, createPageCmd)
	return rootCmd
}

// validateAndCleanDBPath validates and cleans a database path.
// Handles Unix/Linux, macOS, and Windows paths (including UNC and drive letters).
func validateAndCleanDBPath(path string) (string, error) {
	cleanPath := strings.TrimSpace(path)
	if cleanPath == "" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}
	cleanPath = filepath.Clean(cleanPath)

	if cleanPath == "." || cleanPath == "/" {
		return "", fmt.Errorf("database path cannot be empty, '.', or '/'")
	}

	// Windows: reject bare drive letters (e.g., "C:", "D:")
	if runtime.GOOS == "windows" && len(cleanPath) == 2 && cleanPath[1] == ':' {
		return "", fmt.Errorf("database path cannot be a bare drive letter")
	}

	if strings.Contains(cleanPath, "..") {
		return "", fmt.Errorf("database path cannot contain '..'")
	}

	badPatterns := []string{".git", ".svn", "node_modules", ".env", "credentials", "secret"}
	lowerPath := strings.ToLower(cleanPath)
	for _, pattern := range badPatterns {
		if strings.Contains(lowerPath, pattern) {
			return "", fmt.Errorf("database path cannot contain '%s' directory", pattern)
		}
	}

	return cleanPath, nil
}

func runServe(cfg *config.Config) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	srv, err := newServer(dbPath, cfg)
	if err != nil {
		return err
	}
	defer srv.Close()

	addr := ":" + port
	log.Printf("rigdesk listening on %s", addr)
	log.Printf("Database: %s", dbPath)
	return http.ListenAndServe(addr, srv)
}

// server is the assembled HTTP handler plus the resources it owns.
type server struct {
	http.Handler
	store   *store.Store
	limiter *api.RateLimiter
}

func (s *server) Close() error {
	s.limiter.Stop()
	return s.store.Close()
}

func newServer(dbPath string, cfg *config.Config) (*server, error) {
	s, err := store.New(dbPath, store.WithSQLLogger(store.NewSQLLogger(cfg.DebugEnabled)))
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	proxies, err := api.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		s.Close()
		return nil, err
	}
	limiter := api.NewRateLimiter(cfg.RateLimit)

	// The API router serves both remote clients and in-process page calls,
	// so both are logged and rate limited.
	apiRouter := chi.NewRouter()
	apiRouter.Use(auth.Middleware)
	apiRouter.Use(logging.Middleware(s))
	apiRouter.Use(limiter.Middleware)
	if err := api.Mount(apiRouter, api.Deps{Store: s}); err != nil {
		limiter.Stop()
		s.Close()
		return nil, err
	}

	env := &admin.Env{
		API:     apiRouter,
		Store:   s,
		Catalog: i18n.MustLoad(),
		Locale:  cfg.Locale,
		Nav:     pages.Nav(),
	}

	r := chi.NewRouter()
	r.Use(proxies.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(auth.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"ok": true})
	})
	r.Get("/favicon.ico", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r.Handle("/api/*", apiRouter)
	pages.Mount(r, env)
	admin.NewHandlers(env).RegisterRoutes(r)

	return &server{Handler: r, store: s, limiter: limiter}, nil
}

func runSeed(ctx context.Context) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return seedData(ctx, s)
}

func runReset(ctx context.Context) error {
	var err error
	dbPath, err = validateAndCleanDBPath(dbPath)
	if err != nil {
		return err
	}

	// Remove existing database and its WAL files - ignore if they don't exist
	for _, p := range []string{dbPath, dbPath + "-wal", dbPath + "-shm"} {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove existing database: %w", err)
		}
	}

	s, err := store.New(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	return seedData(ctx, s)
}

func seedData(ctx context.Context, s *store.Store) error {
	log.Println("Seeding database with demo data...")
	sum, err := seed.NewSeeder(s, seed.NewGenerator()).Run(ctx)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	log.Printf("\nSeeding complete! %s", sum)
	return nil
}

func runCreatePage(cmd *cobra.Command, args []string) error {
	opts := generator.Options{
		Root:      rootDir,
		EntityKey: args[0],
		Name:      args[1],
		APIPath:   args[2],
		Force:     force,
	}
	if fieldsPath != "" {
		schema, err := generator.LoadSchema(fieldsPath)
		if err != nil {
			return err
		}
		opts.Schema = schema
	}

	res, err := generator.Generate(opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, f := range res.Created {
		fmt.Fprintf(out, "created  %s\n", f)
	}
	for _, f := range res.Updated {
		fmt.Fprintf(out, "updated  %s\n", f)
	}
	fmt.Fprintf(out, "\nPage %q scaffolded. Rebuild and open /%s.\n", args[1], args[0])
	return nil
}
