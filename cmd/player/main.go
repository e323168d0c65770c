// Package main provides the playback controller entry point.
package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/MemestaVedas/vibe-on-sub002/internal/app/lyricsync"
	"github.com/MemestaVedas/vibe-on-sub002/internal/app/notify"
	"github.com/MemestaVedas/vibe-on-sub002/internal/app/playback"
	"github.com/MemestaVedas/vibe-on-sub002/internal/app/queue"
	"github.com/MemestaVedas/vibe-on-sub002/internal/domain/track"
	"github.com/MemestaVedas/vibe-on-sub002/internal/infra/config"
	"github.com/MemestaVedas/vibe-on-sub002/internal/infra/engine"
	"github.com/MemestaVedas/vibe-on-sub002/internal/infra/logger"
)

var (
	app        = kingpin.New("vibe-player", "Playback session controller for the native audio engine")
	configPath = app.Flag("config", "Path to config file").Default("config/player.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stderr)").String()

	// play command
	playCmd     = app.Command("play", "Queue the given files and start interactive playback")
	playPaths   = playCmd.Arg("paths", "Audio file paths").Required().Strings()
	playShuffle = playCmd.Flag("shuffle", "Enable shuffle for next-track selection").Bool()

	// status command
	statusCmd = app.Command("status", "Print the current engine status and exit")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	// Parse command
	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	// Initialize logger. Interactive output goes to stdout, so logs
	// default to stderr unless a file is given.
	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Load config. A missing file falls back to built-in defaults so
	// the controller works against a local engine out of the box.
	cfg, err := loadConfig(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	switch command {
	case playCmd.FullCommand():
		if err := runPlay(cfg, *playPaths, *playShuffle); err != nil {
			zlog.Error().Msgf("Player error: %v", err)
			os.Exit(1)
		}
	case statusCmd.FullCommand():
		if err := runStatus(cfg); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		zlog.Info().Msgf("Config file %s not found, using defaults", path)
		return config.Default()
	}
	zlog.Info().Msgf("Loading config from %s", path)
	return config.Load(path)
}

// consoleScroller prints the active lyric line in place of a scrolling
// viewport.
type consoleScroller struct {
	coord *lyricsync.Coordinator
}

func (s *consoleScroller) ScrollToCenter(index int) {
	if s.coord == nil {
		return
	}
	if line, ok := s.coord.ActiveLine(); ok {
		fmt.Printf("♪ %s\n", line)
	}
}

// consolePrinter prints playback events for the interactive session.
type consolePrinter struct{}

func (consolePrinter) Send(e playback.Event) error {
	switch e.Type {
	case playback.EventTrackChanged:
		if e.Track != nil {
			fmt.Printf("\n=== Now playing: %s — %s ===\n", e.Track.Artist, e.Track.DisplayTitle())
		} else {
			fmt.Println("\n=== Playback stopped ===")
		}
	case playback.EventStateChanged:
		fmt.Printf("[%s]\n", e.State)
	case playback.EventError:
		fmt.Printf("Error: %v\n", e.Err)
	}
	return nil
}

func runStatus(cfg *config.Config) error {
	client, err := engine.New(cfg.Engine)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	st, err := client.Status(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("State:    %s\n", st.State)
	if st.Track != nil {
		fmt.Printf("Track:    %s — %s\n", st.Track.Artist, st.Track.DisplayTitle())
		fmt.Printf("Position: %.1f / %.1f sec\n", st.PositionSecs, st.Track.DurationSecs)
	}
	fmt.Printf("Volume:   %.0f%%\n", st.Volume*100)
	return nil
}

func runPlay(cfg *config.Config, paths []string, shuffle bool) error {
	client, err := engine.New(cfg.Engine)
	if err != nil {
		return err
	}

	q := queue.NewManager()
	tracks := make([]track.Track, 0, len(paths))
	for _, p := range paths {
		tracks = append(tracks, trackFromPath(p))
	}
	q.Set(tracks)

	session := playback.NewSession(client, q, playback.Config{
		PollInterval:             time.Duration(cfg.Engine.PollIntervalMs) * time.Millisecond,
		AutoAdvanceThresholdSecs: cfg.Playback.AutoAdvanceThresholdSecs,
		PendingTimeout:           time.Duration(cfg.Playback.PendingTimeoutMs) * time.Millisecond,
	})
	defer session.Close()
	session.SetShuffle(shuffle || cfg.Playback.Shuffle)

	// Lyrics pipeline: provider chain -> coordinator -> console follower.
	chain, err := lyricsync.NewProviderChainFromConfig(cfg)
	if err != nil {
		return err
	}

	scroller := &consoleScroller{}
	var coord *lyricsync.Coordinator
	follower := lyricsync.NewFollower(
		scroller,
		time.Duration(cfg.Lyrics.SettleDelayMs)*time.Millisecond,
		func() int {
			if coord == nil {
				return 0
			}
			return coord.LineCount()
		},
	)
	coord = lyricsync.NewCoordinator(chain, follower)
	scroller.coord = coord
	defer coord.Close()

	hub := notify.NewHub()
	hub.Subscribe(coord)
	hub.Subscribe(consolePrinter{})
	session.SetNotifier(hub)

	ctx := context.Background()
	if err := session.PlayAt(ctx, 0); err != nil {
		return err
	}

	// Handle shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		session.Close()
		os.Exit(0)
	}()

	fmt.Println("Commands: pause resume next prev seek <sec> volume <0-100> mode shuffle queue status quit")
	return commandLoop(ctx, session, coord, q)
}

func commandLoop(ctx context.Context, session *playback.Session, coord *lyricsync.Coordinator, q *queue.Manager) error {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		var err error
		switch fields[0] {
		case "pause":
			err = session.Pause(ctx)
		case "resume":
			err = session.Resume(ctx)
		case "next":
			err = session.Next(ctx)
		case "prev":
			err = session.Previous(ctx)
		case "seek":
			if len(fields) < 2 {
				fmt.Println("Usage: seek <seconds>")
				continue
			}
			var secs float64
			secs, err = strconv.ParseFloat(fields[1], 64)
			if err == nil {
				err = session.Seek(ctx, secs)
			}
		case "volume":
			if len(fields) < 2 {
				fmt.Println("Usage: volume <0-100>")
				continue
			}
			var pct float64
			pct, err = strconv.ParseFloat(fields[1], 64)
			if err == nil {
				err = session.SetVolume(ctx, pct/100)
			}
		case "mode":
			fmt.Printf("Lyrics mode: %s\n", coord.CycleMode())
		case "shuffle":
			session.SetShuffle(!session.Shuffle())
			fmt.Printf("Shuffle: %v\n", session.Shuffle())
		case "queue":
			printQueue(q, session)
		case "status":
			printStatus(session)
		case "quit", "exit":
			return nil
		default:
			fmt.Printf("Unknown command: %s\n", fields[0])
		}
		if err != nil {
			fmt.Printf("Error: %v\n", err)
		}
	}
	return scanner.Err()
}

func printQueue(q *queue.Manager, session *playback.Session) {
	active := session.ActiveQueueIndex()
	for i, t := range q.Tracks() {
		marker := "  "
		if i == active {
			marker = "▶ "
		}
		fmt.Printf("%s%2d. %s\n", marker, i+1, t.DisplayTitle())
	}
	fmt.Printf("Total: %.0f sec\n", q.TotalDurationSecs())
}

func printStatus(session *playback.Session) {
	st := session.Status()
	fmt.Printf("State: %s", st.State)
	if st.Track != nil {
		fmt.Printf(" | %s | %.1f / %.1f sec", st.Track.DisplayTitle(), st.PositionSecs, st.Track.DurationSecs)
	}
	fmt.Println()
}

// trackFromPath builds minimal track metadata from a file path. The
// engine fills in real tags once the track is loaded.
func trackFromPath(p string) track.Track {
	base := filepath.Base(p)
	title := strings.TrimSuffix(base, filepath.Ext(base))
	return track.Track{Path: p, Title: title}
}
