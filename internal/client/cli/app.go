// Package cli implements the interactive Noteleaf command-line client.
// It runs a small REPL over the note and auth services: anonymous users
// work against the local cache, logged-in users against the server.
package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/dbelyakov/noteleaf/internal/client/api"
	"github.com/dbelyakov/noteleaf/internal/client/config"
	"github.com/dbelyakov/noteleaf/internal/client/services"

	_ "modernc.org/sqlite"
)

type App struct {
	config      *config.Config
	authService services.AuthService
	noteService services.NoteService
	userEmail   string
	reader      *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	db, err := services.InitDatabase(ctx, c.DatabaseFile)
	if err != nil {
		return nil, err
	}

	apiClient := api.NewClient(c.ServerBaseURL, c.RequestTimeout)

	as := services.NewAuthService(apiClient)
	ns := services.NewNoteService(apiClient, db)

	return &App{config: c, authService: as, noteService: ns, reader: bufio.NewReader(os.Stdin)}, nil
}

func (a *App) isLoggedIn() bool {
	return a.authService.IsLoggedIn()
}

func (a *App) getStatus() string {
	if a.userEmail != "" {
		return "(" + a.userEmail + ")"
	}
	return "(anonymous)"
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Welcome to Noteleaf CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
