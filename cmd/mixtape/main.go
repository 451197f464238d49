package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mmcdole/mixtape/internal/audio"
	"github.com/mmcdole/mixtape/internal/catalog"
	"github.com/mmcdole/mixtape/internal/config"
	"github.com/mmcdole/mixtape/internal/domain"
	"github.com/mmcdole/mixtape/internal/log"
	"github.com/mmcdole/mixtape/internal/service"
	"github.com/mmcdole/mixtape/internal/store"
	"github.com/mmcdole/mixtape/internal/tui"
	"github.com/mmcdole/mixtape/internal/tui/styles"
	"golang.org/x/term"
)

// Version is set at build time via -ldflags
var Version = "dev"

type options struct {
	configPath string
	list       bool
	find       string
}

func main() {
	var (
		showVersion bool
		opts        options
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&opts.configPath, "config", "", "path to config file")
	flag.BoolVar(&opts.list, "list", false, "print the song catalog and exit")
	flag.StringVar(&opts.find, "find", "", "print songs matching a query and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("mixtape %s\n", Version)
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	// Load configuration
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting mixtape", "version", Version, "config", cfg.FileUsed())

	songs, err := catalog.Load(cfg.Catalog.File)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	// Listing modes, and anything that is not a terminal, print instead of
	// starting the TUI
	if opts.find != "" {
		printSongs(os.Stdout, songs.Search(opts.find))
		return nil
	}
	if opts.list || !term.IsTerminal(int(os.Stdout.Fd())) {
		printSongs(os.Stdout, songs.Songs())
		return nil
	}

	visits := openVisitStore(cfg.Store.File, logger)
	defer visits.Close()
	visitCount := service.NewSessionService(visits, logger).Begin()

	fetcher, err := audio.NewFetcher(cfg.Audio.FetchTimeout, cfg.Audio.CacheEntries, logger)
	if err != nil {
		return fmt.Errorf("failed to create audio fetcher: %w", err)
	}
	if !audio.Available {
		logger.Warn("built without audio output, playback requests will fail")
	}
	opener := audio.NewOpener(fetcher, cfg.Audio.TickInterval, logger)

	// Create services
	playbackSvc := service.NewPlaybackService(opener, logger)

	// Create TUI model
	model := tui.NewModel(songs.Songs(), playbackSvc, cfg.UI, visitCount)
	defer model.Close()

	// Run the TUI
	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if cfg.Watch(func(c *config.Config) {
		logger.Info("config reloaded", "file", c.FileUsed())
		p.Send(tui.ConfigReloadedMsg{Config: c})
	}) {
		logger.Info("watching config for changes", "file", cfg.FileUsed())
	}

	logger.Info("starting TUI", "songs", songs.Len(), "visits", visitCount)

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// openVisitStore opens the visit counter, falling back to memory when the
// database cannot be opened (for example while another instance holds it)
func openVisitStore(path string, logger *slog.Logger) *store.VisitStore {
	visits, err := store.NewVisitStore(path)
	if err == nil {
		return visits
	}
	logger.Warn("visit store unavailable, counting in memory", "path", path, "error", err)
	visits, _ = store.NewVisitStore("")
	return visits
}

// printSongs writes songs as a table
func printSongs(w io.Writer, songs []domain.Song) {
	if len(songs) == 0 {
		fmt.Fprintln(w, "No songs found")
		return
	}

	header := lipgloss.NewStyle().Foreground(styles.Accent).Bold(true).Padding(0, 1)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Purple)).
		Headers("#", "TITLE", "ARTIST", "AUDIO").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return header
			}
			return cell
		})

	for _, s := range songs {
		audioCol := "yes"
		if !s.HasAudio() {
			audioCol = "-"
		}
		t.Row(strconv.Itoa(s.ID), s.Title, s.Artist, audioCol)
	}
	fmt.Fprintln(w, t)
}
