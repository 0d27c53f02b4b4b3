package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"territory-client/api"
	"territory-client/config"
	"territory-client/desktop"
	"territory-client/display"
	"territory-client/render"
	"territory-client/replay"
	"territory-client/session"
	"territory-client/transport"
)

// Command-line overrides for values otherwise read from the environment.
var (
	envFile    string
	serverURL  string
	debugAddr  string
	grpcAddr   string
	recordPath string
	fps        int

	replaySpeed    float64
	replayHeadless bool
	replayWidth    int
	replayHeight   int
)

func loadConfig(cmd *cobra.Command) config.Config {
	if err := config.LoadDotEnv(envFile); err != nil {
		log.Printf("[WARN] could not load %s: %v", envFile, err)
	}
	cfg := config.Load()
	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = serverURL
	}
	if flags.Changed("debug-addr") {
		cfg.DebugAddr = debugAddr
	}
	if flags.Changed("grpc-addr") {
		cfg.GRPCAddr = grpcAddr
	}
	if flags.Changed("record") {
		cfg.RecordPath = recordPath
	}
	if flags.Changed("fps") && fps > 0 {
		cfg.FPS = fps
	}
	return cfg
}

// client is one connected session with its supporting services.
type client struct {
	cfg      config.Config
	sess     *session.Session
	alerts   *display.Alerts
	ctl      *display.Controller
	board    *api.Board
	conn     *transport.Client
	health   *api.HealthService
	debug    *http.Server
	recorder *replay.Recorder
}

func newClient(cfg config.Config) (*client, error) {
	c := &client{
		cfg:    cfg,
		alerts: display.NewAlerts(config.AlertLifetime),
		board:  api.NewBoard(),
	}
	if cfg.GRPCAddr != "" {
		c.health = api.NewHealthService()
	}
	if cfg.RecordPath != "" {
		rec, err := replay.Create(cfg.RecordPath, cfg.ServerURL)
		if err != nil {
			return nil, err
		}
		c.recorder = rec
	}

	opts := session.Options{
		InboxSize: cfg.InboxSize,
		Notifier:  c.alerts,
		Publish:   c.publish,
	}
	if c.recorder != nil {
		opts.Tap = c.recorder.Record
	}
	c.sess = session.NewSession(opts)

	c.conn = transport.NewClient(cfg.ServerURL, cfg.ReconnectDelay, c.sess.Deliver)
	c.conn.OnDisconnect(func() { c.sess.Alert(config.DisconnectedMessage) })
	c.ctl = display.NewController(c.conn)
	c.board.SetTransport(c.conn.ID(), c.conn.Connected)
	return c, nil
}

func (c *client) publish(sum session.Summary, stats session.Stats) {
	c.board.Publish(sum, stats)
	if c.health != nil {
		c.health.Update(sum, stats)
	}
}

// start launches the transport and the optional debug services.
func (c *client) start(ctx context.Context) error {
	if c.health != nil {
		lis, err := net.Listen("tcp", c.cfg.GRPCAddr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", c.cfg.GRPCAddr, err)
		}
		go func() {
			if err := c.health.Serve(lis); err != nil {
				log.Printf("gRPC health service: %v", err)
			}
		}()
	}
	if c.cfg.DebugAddr != "" {
		c.debug = api.NewServer(c.cfg.DebugAddr, api.LoadConfig(), c.board)
		go func() {
			log.Printf("Debug API listening on %s", c.cfg.DebugAddr)
			if err := c.debug.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Debug API: %v", err)
			}
		}()
	}
	go func() {
		err := c.conn.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Transport stopped: %v", err)
		}
	}()
	return nil
}

func (c *client) shutdown() {
	c.sess.Stop()
	if c.debug != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		c.debug.Shutdown(ctx)
	}
	if c.health != nil {
		c.health.Stop()
	}
	if c.recorder != nil {
		if err := c.recorder.Close(); err != nil {
			log.Printf("Recording: %v", err)
		} else {
			log.Printf("Recorded %d frames to %s", c.recorder.Frames(), c.cfg.RecordPath)
		}
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runTerminal drives the tcell frontend until the user quits or ctx ends.
func runTerminal(ctx context.Context, sess *session.Session, ctl *display.Controller, alerts *display.Alerts, cfg config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()
	return display.NewTerminal(screen, sess, ctl, alerts).Run(ctx, cfg.FPS)
}

var rootCmd = &cobra.Command{
	Use:          "territory",
	Short:        "Client for the territory-control grid game",
	Long:         `Connects to a territory game server, mirrors its state and renders it in a desktop window or a terminal.`,
	SilenceUsage: true,
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in a desktop window",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		c, err := newClient(cfg)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		context.AfterFunc(ctx, c.sess.Stop)
		if err := c.start(ctx); err != nil {
			return err
		}
		defer c.shutdown()

		g, err := desktop.NewGame(c.sess, c.ctl, c.alerts, cfg)
		if err != nil {
			return err
		}
		return desktop.RunWindow(g)
	},
}

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Play in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		// Logs would scribble over the screen.
		log.SetOutput(io.Discard)
		c, err := newClient(cfg)
		if err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()
		if err := c.start(ctx); err != nil {
			return err
		}
		defer c.shutdown()
		return runTerminal(ctx, c.sess, c.ctl, c.alerts, cfg)
	},
}

var replayCmd = &cobra.Command{
	Use:   "replay FILE",
	Short: "Play back a recorded session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig(cmd)
		rec, err := replay.Load(args[0])
		if err != nil {
			return err
		}
		log.Printf("Loaded %d frames (%s) recorded from %s at %s",
			len(rec.Frames), rec.Duration(), rec.Header.Server, rec.Header.Created.Format(time.RFC3339))

		if replayHeadless {
			res := replay.Headless(rec, render.Viewport{W: float64(replayWidth), H: float64(replayHeight)}, session.Options{})
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(map[string]any{
				"summary": res.Summary,
				"stats":   res.Stats,
				"ready":   res.Ready,
				"ops":     len(res.Last.Ops),
			})
		}

		log.SetOutput(io.Discard)
		alerts := display.NewAlerts(config.AlertLifetime)
		sess := session.NewSession(session.Options{InboxSize: cfg.InboxSize, Notifier: alerts})
		ctx, cancel := signalContext()
		defer cancel()
		go func() {
			if err := replay.Feed(ctx, rec, sess, replaySpeed); err == nil {
				sess.Alert("Replay finished")
			}
		}()
		return runTerminal(ctx, sess, display.NewController(nil), alerts, cfg)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "Path of an optional .env file.")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "WebSocket URL of the game server.")
	rootCmd.PersistentFlags().StringVar(&debugAddr, "debug-addr", "", "Address for the debug HTTP API.")
	rootCmd.PersistentFlags().StringVar(&grpcAddr, "grpc-addr", "", "Address for the gRPC health service.")
	rootCmd.PersistentFlags().StringVar(&recordPath, "record", "", "Record inbound frames to this file.")
	rootCmd.PersistentFlags().IntVar(&fps, "fps", 0, "Frames per second.")

	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1, "Playback speed; 0 plays as fast as possible.")
	replayCmd.Flags().BoolVar(&replayHeadless, "headless", false, "Apply the recording without a screen and print the final summary.")
	replayCmd.Flags().IntVar(&replayWidth, "width", 1024, "Viewport width for headless playback.")
	replayCmd.Flags().IntVar(&replayHeight, "height", 580, "Viewport height for headless playback.")

	rootCmd.AddCommand(playCmd, termCmd, replayCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
