package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/pokedex/internal/config"
	"github.com/smileynet/pokedex/internal/dashboard"
	"github.com/smileynet/pokedex/internal/display"
	"github.com/smileynet/pokedex/internal/logging"
	"github.com/smileynet/pokedex/internal/pokeapi"
	"github.com/smileynet/pokedex/internal/viewstate"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for pokedex.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Browse  BrowseCmd        `cmd:"" default:"1" help:"Open the interactive Pokédex browser."`
	List    ListCmd          `cmd:"" help:"Print one page of the Pokémon list."`
	Show    ShowCmd          `cmd:"" help:"Print one Pokémon by id or name."`
}

// loadConfig loads layered config from user and project paths with env overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/pokedex/config.yaml"),
		".pokedex/config.yaml",
	)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newService wires logging, the HTTP client and the caching service from
// cfg. logSink receives logs when no log file is configured; nil means
// stderr. The returned logger is the one the service writes to; cleanup
// closes the log file.
func newService(cfg *config.Config, logSink io.Writer) (*pokeapi.Service, *slog.Logger, func() error, error) {
	logCfg := logging.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.FilePath = cfg.Log.File
	logCfg.MaxSizeMB = cfg.Log.MaxSizeMB
	logCfg.MaxBackups = cfg.Log.MaxBackups
	logCfg.MaxAgeDays = cfg.Log.MaxAgeDays
	logCfg.Fallback = logSink

	logger, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("logging: %w", err)
	}

	client := pokeapi.NewClient(
		pokeapi.WithBaseURL(cfg.API.BaseURL),
		pokeapi.WithHTTPClient(&http.Client{Timeout: cfg.HTTP.Timeout}),
		pokeapi.WithLogger(logger),
	)

	opts := []pokeapi.ServiceOption{
		pokeapi.WithPageSize(cfg.API.PageSize),
		pokeapi.WithServiceLogger(logger),
	}
	if n := cfg.Cache.MaxEntries; n > 0 {
		lists, err := pokeapi.NewLRUStore[string, *pokeapi.ListPage](n)
		if err != nil {
			_ = cleanup()
			return nil, nil, nil, err
		}
		entities, err := pokeapi.NewLRUStore[string, *pokeapi.Entity](n)
		if err != nil {
			_ = cleanup()
			return nil, nil, nil, err
		}
		opts = append(opts, pokeapi.WithListStore(lists), pokeapi.WithEntityStore(entities))
	}

	logger.Debug("service configured",
		"base_url", cfg.API.BaseURL,
		"page_size", cfg.API.PageSize,
		"timeout", cfg.HTTP.Timeout,
		"cache_max_entries", cfg.Cache.MaxEntries,
	)
	return pokeapi.NewService(client, opts...), logger, cleanup, nil
}

// --- List command ---

// ListCmd prints one page of summaries plus its neighbour links.
type ListCmd struct {
	URL      string `help:"Page URL to fetch (default: first page)."`
	PageSize int    `help:"Rows per page (overrides config)." name:"page-size"`
	Plain    bool   `help:"Force plain text output even if stdout is a TTY."`
}

// Run executes the list command.
func (l *ListCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return l.run(ctx, os.Stdout)
}

func (l *ListCmd) run(ctx context.Context, w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	if l.PageSize != 0 {
		cfg.API.PageSize = l.PageSize
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("list: %w", err)
	}

	svc, _, cleanup, err := newService(cfg, nil)
	if err != nil {
		return fmt.Errorf("list: %w", err)
	}
	defer func() { _ = cleanup() }()

	d := display.New(display.Options{Writer: w, ForcePlain: l.Plain})
	return listPage(ctx, d, svc, cfg.API.PageSize, l.URL)
}

// listPage loads pageURL through a coordinator and prints the padded slots.
func listPage(ctx context.Context, d display.Display, f viewstate.Fetcher, pageSize int, pageURL string) error {
	c := viewstate.New(f, pageSize)
	if err := c.LoadPage(ctx, pageURL); err != nil {
		return fmt.Errorf("list: %w", err)
	}
	return d.ShowPage(c.Slots(), c.PreviousURL(), c.NextURL())
}

// --- Show command ---

// ShowCmd prints a single record as a card.
type ShowCmd struct {
	Key   string `arg:"" name:"id-or-name" help:"Pokédex number or name, e.g. 25 or pikachu."`
	Plain bool   `help:"Force plain text output even if stdout is a TTY."`
}

// Run executes the show command.
func (s *ShowCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return s.run(ctx, os.Stdout)
}

func (s *ShowCmd) run(ctx context.Context, w io.Writer) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("show: %w", err)
	}

	svc, _, cleanup, err := newService(cfg, nil)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	defer func() { _ = cleanup() }()

	d := display.New(display.Options{Writer: w, ForcePlain: s.Plain})
	return showEntity(ctx, d, svc, s.Key)
}

// showEntity fetches one record and prints it.
func showEntity(ctx context.Context, d display.Display, f viewstate.Fetcher, key string) error {
	e, err := f.FetchEntity(ctx, key)
	if err != nil {
		return fmt.Errorf("show: %w", err)
	}
	return d.ShowEntity(e)
}

// --- Browse command ---

// BrowseCmd opens the interactive dashboard TUI.
type BrowseCmd struct{}

// teaRunner abstracts Bubble Tea program execution for testing.
type teaRunner interface {
	Run() (tea.Model, error)
}

// Run builds real dependencies and launches the dashboard TUI.
func (b *BrowseCmd) Run() error {
	isTTY := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	if !isTTY {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("browse: %w", err)
	}

	// Logs on stderr would tear the alt screen; drop them unless a file is set.
	svc, logger, cleanup, err := newService(cfg, io.Discard)
	if err != nil {
		return fmt.Errorf("browse: %w", err)
	}
	defer func() { _ = cleanup() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := dashboard.NewModel(svc,
		dashboard.WithPageSize(cfg.API.PageSize),
		dashboard.WithContext(ctx),
	)
	prog := tea.NewProgram(m, tea.WithAltScreen())
	err = b.run(isTTY, prog)

	logBrowseStats(logger, svc.Stats())
	return err
}

// logBrowseStats records the session's cache counters at info so they land
// in a configured log file at the default level.
func logBrowseStats(logger *slog.Logger, st pokeapi.Stats) {
	logger.Info("browse finished",
		"requests", st.Requests,
		"hits", st.Hits,
		"misses", st.Misses,
		"lists", st.Lists,
		"entities", st.Entities,
	)
}

// run executes the tea program, enabling testable wiring.
func (b *BrowseCmd) run(isTTY bool, prog teaRunner) error {
	if !isTTY {
		return fmt.Errorf("browse: requires a terminal (TTY)")
	}
	_, err := prog.Run()
	return err
}

// Exit codes.
const (
	exitSuccess = 0
	exitFetch   = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var fe *pokeapi.FetchError
	if errors.As(err, &fe) {
		return exitFetch
	}
	return exitSetup
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokedex"),
		kong.Description("Browse Pokémon from PokeAPI in the terminal."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)
	err := ctx.Run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(exitCode(err))
	}
}
