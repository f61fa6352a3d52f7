package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/altin/gh-browse/internal/api"
	"github.com/altin/gh-browse/internal/auth"
	"github.com/altin/gh-browse/internal/config"
	"github.com/altin/gh-browse/internal/store"
	"github.com/altin/gh-browse/internal/tui"
)

var version = "dev"

func init() {
	if version != "dev" {
		return
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
}

func main() {
	repo := flag.String("R", "", "Repository in owner/repo format (required for browsing)")
	cacheTTL := flag.Duration("cache-ttl", api.DefaultTTL, "How long cached API responses stay fresh")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("gh-browse", version)
		os.Exit(0)
	}

	storePath, err := config.StorePath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	st := store.New(storePath)
	defer st.Close()

	client := api.NewClient(st)
	client.SetCacheTTL(*cacheTTL)
	session := auth.NewManager(st, client.ValidateToken)

	// Auth verbs run without a repository and without the TUI.
	switch flag.Arg(0) {
	case "login":
		os.Exit(runLogin(session, flag.Arg(1)))
	case "logout":
		os.Exit(runLogout(session))
	case "status":
		os.Exit(runStatus(session, client))
	}

	if *repo == "" {
		fmt.Fprintln(os.Stderr, "Error: -R owner/repo is required")
		flag.Usage()
		os.Exit(1)
	}
	parts := strings.SplitN(*repo, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		fmt.Fprintln(os.Stderr, "Error: repo must be in owner/repo format")
		os.Exit(1)
	}

	cfg := config.Config{Owner: parts[0], Repo: parts[1]}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Housekeeping; an unavailable store only disables caching.
	if _, err := st.SweepExpired(time.Now()); err != nil && !store.IsUnavailable(err) {
		fmt.Fprintf(os.Stderr, "Warning: cache sweep failed: %v\n", err)
	}

	app := tui.NewApp(cfg, client, session, st)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runLogin validates and saves a token, prompting on stdin when it was
// not passed as an argument.
func runLogin(session *auth.Manager, token string) int {
	if token == "" {
		fmt.Print("Paste a GitHub personal access token: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "Error: no token read")
			return 1
		}
		token = line
	}
	res := session.Login(token)
	if !res.OK {
		fmt.Fprintf(os.Stderr, "Login failed: %s\n", res.Message)
		return 1
	}
	fmt.Println("Logged in.")
	return 0
}

func runLogout(session *auth.Manager) int {
	if err := session.Logout(); err != nil {
		fmt.Fprintf(os.Stderr, "Logout failed: %v\n", err)
		return 1
	}
	fmt.Println("Logged out.")
	return 0
}

func runStatus(session *auth.Manager, client *api.Client) int {
	if !session.IsLoggedIn() {
		fmt.Println("Not logged in; requests run under the anonymous rate limit.")
		return 0
	}
	user, err := client.GetAuthenticatedUser()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logged in, but the token no longer validates: %v\n", err)
		return 1
	}
	fmt.Printf("Logged in as %s.\n", user.Login)
	return 0
}
