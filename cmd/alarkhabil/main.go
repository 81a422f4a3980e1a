package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/metastable-void/alarkhabil-server/internal/auth"
	"github.com/metastable-void/alarkhabil-server/internal/client"
	"github.com/metastable-void/alarkhabil-server/internal/config"
	httpapp "github.com/metastable-void/alarkhabil-server/internal/http"
	"github.com/metastable-void/alarkhabil-server/internal/secret"
	"github.com/metastable-void/alarkhabil-server/internal/store/sqlite"
)

// CLIConfig holds the CLI client configuration persisted to disk.
type CLIConfig struct {
	BaseURL    string `json:"base_url"`
	Name       string `json:"name"`
	Seed       string `json:"seed"`
	AuthorUUID string `json:"author_uuid"`
}

func main() {
	if len(os.Args) < 2 {
		runServer()
		return
	}

	cmd := os.Args[1]

	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}
	if cmd == "-v" || cmd == "--version" || cmd == "version" {
		fmt.Println("alarkhabil v0.1.0")
		return
	}
	if strings.HasPrefix(cmd, "-") {
		runServer()
		return
	}

	args := os.Args[2:]

	switch cmd {
	case "server", "serve":
		runServer()
	case "init":
		cmdInit(args)
	case "register":
		cmdRegister(args)
	case "profile":
		cmdProfile(args)
	case "rotate":
		cmdRotate(args)
	case "channel":
		cmdChannel(args)
	case "post":
		cmdPost(args)
	case "edit":
		cmdEdit(args)
	case "read":
		cmdRead(args)
	case "invite":
		cmdInvite(args)
	case "status", "whoami":
		cmdStatus(args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`alarkhabil - invite-only publishing platform

Usage: alarkhabil <command> [options]

Quick Start:
  alarkhabil init --name alice --url https://example.org
  alarkhabil register --invite <token>
  alarkhabil channel --handle my-blog --name "My Blog" --lang en
  alarkhabil post --channel <uuid> --title "Hello" --text "First post"

Client Commands:
  init                Generate a keypair and save the client config
  register            Redeem an invite and create your account
  profile             Update your display name and description
  rotate              Rotate your signing key
  channel             Create a channel
  post                Publish a post
  edit                Edit a post (appends a revision)
  read                Read posts
  invite              Mint a registration invite (operator)
  status              Show current identity

Server:
  server              Start the Alarkhabil server (default if no command)

Environment Variables (server):
  ALARKHABIL_ADDR                Listen address (default: :8080)
  ALARKHABIL_DB                  Database path (default: alarkhabil.db)
  ALARKHABIL_PRIMARY_SECRET      Primary secret; all tokens derive from it
  ALARKHABIL_SHUTDOWN_TIMEOUT    Graceful shutdown timeout (default: 10s)`)
}

func runServer() {
	cfg := config.Load()

	dbPath := cfg.DBPath
	if dbPath == "" {
		log.Printf("WARNING: no database path configured, using in-memory database")
		dbPath = "file:alarkhabil?mode=memory&cache=shared"
	}
	st, err := sqlite.Open(dbPath)
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer st.Close()

	primarySecret := secret.FromEnvValue(cfg.PrimarySecret)
	authSvc := auth.NewService(st, primarySecret)
	server := httpapp.NewServer(st, authSvc, cfg)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Printf("alarkhabil listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Operator tokens are only ever printed here; they are derived, not
	// stored, so there is nothing to look up later.
	fmt.Printf("Invite making token: %s\n", authSvc.InviteMakingToken())
	fmt.Printf("Admin token: %s\n", authSvc.AdminToken())

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
}

func cmdInit(args []string) {
	fs := flag.NewFlagSet("init", flag.ExitOnError)
	name := fs.String("name", "", "Display name (required)")
	url := fs.String("url", "http://localhost:8080", "Server URL")
	fs.Parse(args)

	if *name == "" {
		fmt.Fprintln(os.Stderr, "Error: --name is required")
		os.Exit(1)
	}

	creds, err := client.GenerateCredentials(*name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating keypair: %v\n", err)
		os.Exit(1)
	}

	cfg := CLIConfig{
		BaseURL: strings.TrimSuffix(*url, "/"),
		Name:    *name,
		Seed:    creds.Seed(),
	}
	if err := saveCLIConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Initialized identity '%s'\n", *name)
	fmt.Printf("  Config: %s\n", cliConfigPath())
	fmt.Println("\nNext: alarkhabil register --invite <token>")
}

func cmdRegister(args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	invite := fs.String("invite", "", "Invite token (required)")
	fs.Parse(args)

	if *invite == "" {
		fmt.Fprintln(os.Stderr, "Error: --invite is required")
		os.Exit(1)
	}

	cfg, creds, c := mustLoadClient()
	uuid, err := c.Register(creds, *invite)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg.AuthorUUID = uuid
	if err := saveCLIConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Registered '%s' (%s)\n", cfg.Name, uuid)
}

func cmdProfile(args []string) {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	name := fs.String("name", "", "New display name")
	description := fs.String("description", "", "Profile description (markdown)")
	fs.Parse(args)

	cfg, creds, c := mustLoadClient()
	if *name == "" {
		*name = cfg.Name
	}
	info, err := c.UpdateProfile(creds, *name, *description)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg.Name = info.Name
	if err := saveCLIConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Updated profile '%s'\n", info.Name)
}

func cmdRotate(args []string) {
	cfg, creds, c := mustLoadClient()

	next, err := client.GenerateCredentials(cfg.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating keypair: %v\n", err)
		os.Exit(1)
	}
	if err := c.ChangeCredentials(creds, next); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg.Seed = next.Seed()
	if err := saveCLIConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving new key, WRITE THIS DOWN: %s\n", next.Seed())
		os.Exit(1)
	}
	fmt.Println("Rotated signing key")
}

func cmdChannel(args []string) {
	fs := flag.NewFlagSet("channel", flag.ExitOnError)
	handle := fs.String("handle", "", "Channel handle, e.g. my-blog (required)")
	name := fs.String("name", "", "Channel name (required)")
	lang := fs.String("lang", "en", "Language code, e.g. en or pt-BR")
	fs.Parse(args)

	if *handle == "" || *name == "" {
		fmt.Fprintln(os.Stderr, "Error: --handle and --name are required")
		os.Exit(1)
	}

	_, creds, c := mustLoadClient()
	info, err := c.NewChannel(creds, *handle, *name, *lang)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created channel '%s'\n", info.Handle)
	fmt.Printf("  UUID: %s\n", info.UUID)
}

func cmdPost(args []string) {
	fs := flag.NewFlagSet("post", flag.ExitOnError)
	channel := fs.String("channel", "", "Channel uuid (required)")
	title := fs.String("title", "", "Post title (required)")
	text := fs.String("text", "", "Post body in markdown (required)")
	tags := fs.String("tags", "", "Comma-separated tags")
	fs.Parse(args)

	if *channel == "" || *title == "" || *text == "" {
		fmt.Fprintln(os.Stderr, "Error: --channel, --title and --text are required")
		os.Exit(1)
	}

	_, creds, c := mustLoadClient()
	info, err := c.NewPost(creds, *channel, *title, *text, splitTags(*tags))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Posted: %s\n", info.Title)
	fmt.Printf("  UUID: %s\n", info.PostUUID)
}

func cmdEdit(args []string) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	post := fs.String("post", "", "Post uuid (required)")
	title := fs.String("title", "", "New title (required)")
	text := fs.String("text", "", "New body in markdown (required)")
	tags := fs.String("tags", "", "Comma-separated tags")
	fs.Parse(args)

	if *post == "" || *title == "" || *text == "" {
		fmt.Fprintln(os.Stderr, "Error: --post, --title and --text are required")
		os.Exit(1)
	}

	_, creds, c := mustLoadClient()
	info, err := c.UpdatePost(creds, *post, *title, *text, splitTags(*tags))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Edited: %s\n", info.Title)
	fmt.Printf("  Revision: %s\n", info.RevisionUUID)
}

func cmdRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	post := fs.String("post", "", "Read one post by uuid")
	fs.Parse(args)

	cfg, _ := loadCLIConfig()
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	c := client.New(baseURL)

	if *post != "" {
		info, err := c.PostInfo(*post)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\n%s\n", info.Title)
		fmt.Printf("  by %s in %s (%s)\n", info.Author.Name, info.Channel.Name, time.Unix(info.RevisionDate, 0).Format("2006-01-02"))
		if len(info.Tags) > 0 {
			fmt.Printf("  tags: %s\n", strings.Join(info.Tags, ", "))
		}
		fmt.Printf("\n%s\n", info.Text)
		return
	}

	posts, err := c.ListPosts()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for i, p := range posts {
		fmt.Printf("%d. %s\n", i+1, p.Title)
		fmt.Printf("   by %s in %s | %s | %s\n\n",
			p.Author.Name, p.Channel.Name, time.Unix(p.RevisionDate, 0).Format("2006-01-02"), p.PostUUID)
	}
}

func cmdInvite(args []string) {
	fs := flag.NewFlagSet("invite", flag.ExitOnError)
	token := fs.String("token", "", "Invite-making token (required)")
	fs.Parse(args)

	if *token == "" {
		fmt.Fprintln(os.Stderr, "Error: --token is required")
		os.Exit(1)
	}

	cfg, _ := loadCLIConfig()
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	invite, err := client.New(baseURL).NewInvite(*token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(invite)
}

func cmdStatus(args []string) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fmt.Println("Status: not initialized")
		fmt.Println("\nRun: alarkhabil init --name <name>")
		return
	}
	fmt.Printf("Name:   %s\n", cfg.Name)
	fmt.Printf("Server: %s\n", cfg.BaseURL)
	if cfg.AuthorUUID == "" {
		fmt.Println("Account: not registered")
		fmt.Println("\nRun: alarkhabil register --invite <token>")
	} else {
		fmt.Printf("Account: %s\n", cfg.AuthorUUID)
	}
}

func splitTags(input string) []string {
	if strings.TrimSpace(input) == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(input, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func cliConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".alarkhabil", "config.json")
}

func loadCLIConfig() (CLIConfig, error) {
	data, err := os.ReadFile(cliConfigPath())
	if err != nil {
		return CLIConfig{}, errors.New("not initialized")
	}
	var cfg CLIConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, err
	}
	return cfg, nil
}

func saveCLIConfig(cfg CLIConfig) error {
	path := cliConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, _ := json.MarshalIndent(cfg, "", "  ")
	return os.WriteFile(path, data, 0600)
}

func mustLoadClient() (CLIConfig, *client.Credentials, *client.Client) {
	cfg, err := loadCLIConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\nRun 'alarkhabil init' first\n", err)
		os.Exit(1)
	}
	creds, err := client.CredentialsFromSeed(cfg.Name, cfg.Seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading credentials: %v\n", err)
		os.Exit(1)
	}
	return cfg, creds, client.New(cfg.BaseURL)
}
