package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
	"lunarview/internal/location"
	"lunarview/internal/repositories"
	"lunarview/internal/services"
	"lunarview/internal/shared"
	"lunarview/internal/tasks"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	lunar      *services.LunarService
	geocoder   services.Geocoder
	locator    services.LocateProvider
	resolver   *location.Resolver
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Lunar      *services.LunarService
	Geocoder   services.Geocoder
	Locator    services.LocateProvider
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	DB         *sql.DB
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	resolver := location.NewResolver(opts.Locator, opts.Geocoder, opts.Logger)

	return &Runner{
		config:     opts.Config,
		lunar:      opts.Lunar,
		geocoder:   opts.Geocoder,
		locator:    opts.Locator,
		resolver:   resolver,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		db:         opts.DB,
	}
}

// SetLogger swaps the Runner's logger, used when the TUI redirects logs to a file.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, skyCommand, favoritesCommand, themeCommand, notifyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// database lazily opens the sqlite database from config.
func (r *Runner) database() (*sql.DB, error) {
	if r.db != nil {
		return r.db, nil
	}

	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	r.db = db
	return db, nil
}

// requireAuth loads the stored session and installs its token on the API
// client. Commands hitting authenticated endpoints call this first.
func (r *Runner) requireAuth(ctx context.Context) error {
	if r.lunar.Authenticated() {
		return nil
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	session, err := repositories.NewSessionRepository(db).Current()
	if err != nil {
		return fmt.Errorf("%w: run 'lunarview auth login' first", shared.ErrNotAuthenticated)
	}

	return r.lunar.Authenticate(ctx, session.Token())
}

// favoritesStore builds the server-backed favorites store with its cache.
func (r *Runner) favoritesStore() (*tasks.FavoritesStore, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	cache := repositories.NewFavoriteCacheRepository(db)
	return tasks.NewFavoritesStore(r.lunar, cache, r.logger), nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// confirm prompts on stdin and accepts y/yes (case-insensitive).
func (r *Runner) confirm(prompt string) bool {
	r.writePlain("%s [y/N]: ", prompt)
	reader := bufio.NewReader(r.input)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
