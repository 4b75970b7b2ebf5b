package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ayusman/mudra/internal/backend"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/render"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

// Version is the application version.
const Version = "0.1.0"

var (
	flagConfig   string
	flagCamera   int
	flagAddr     string
	flagBackend  string
	flagHeadless bool
)

var rootCmd = &cobra.Command{
	Use:     "mudra",
	Short:   "Real-time hand landmark visualization",
	Version: Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd)
	},
}

func main() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "Path to config file (default: ~/.mudra/config.yaml)")
	rootCmd.Flags().IntVar(&flagCamera, "camera", -1, "Camera device ID, overrides the config file")
	rootCmd.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address, overrides the config file")
	rootCmd.Flags().StringVar(&flagBackend, "backend", "", "Landmark backend to start with, overrides the saved choice")
	rootCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without the system tray")
}

func run(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	st, err := store.New(filepath.Join(cfg.DataDir, "mudra.db"))
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	// The saved backend choice wins over the config file; the flag wins
	// over both.
	backendName := st.Settings().GetDefault(store.KeyBackend, cfg.Backend)
	if flagBackend != "" {
		backendName = flagBackend
	}
	initial, err := backend.ParseKind(backendName)
	if err != nil {
		return err
	}

	anglePair := [2]int{cfg.Angle.PointA, cfg.Angle.PointB}
	if saved := st.Settings().GetDefault(store.KeyAnglePair, ""); saved != "" {
		var a, b int
		if _, err := fmt.Sscanf(saved, "%d,%d", &a, &b); err == nil &&
			a >= 0 && a < detector.NumLandmarks && b >= 0 && b < detector.NumLandmarks {
			anglePair = [2]int{a, b}
		}
	}

	webDir := findWebDir()
	if webDir != "" {
		log.Printf("Serving static files from: %s", webDir)
	}
	srv := server.New(server.Config{StaticDir: webDir})

	trayUI := tray.New(backend.Kinds(), initial)

	// The angle readout goes to both the websocket feed and the tray menu.
	readout := render.ReadoutFunc(func(text string) {
		srv.Readout().PublishAngle(text)
		if !flagHeadless {
			trayUI.SetReadout(text)
		}
	})

	session := render.NewSession(render.Config{
		Camera:        capture.NewCamera(cfg.CameraID),
		Widget:        srv.CloudWidget(),
		Readout:       readout,
		Display:       srv.FrameHub(),
		Motion:        capture.NewMotionDetector(cfg.MotionThreshold),
		DisplayWidth:  cfg.Display.Width,
		DisplayHeight: cfg.Display.Height,
		AnglePair:     anglePair,
		IdleFPS:       cfg.IdleFPS,
		ActiveFPS:     cfg.ActiveFPS,
	})
	defer session.Close()

	detCfg := detector.DefaultConfig()
	ctrl := backend.NewController(session, backend.DefaultRegistry(detCfg))
	ctrl.OnSwitch(func(kind backend.Kind) {
		if err := st.Settings().Set(store.KeyBackend, string(kind)); err != nil {
			log.Printf("Error saving backend choice: %v", err)
		}
		trayUI.SetActive(kind)
	})
	srv.SetBackends(ctrl)

	if err := ctrl.Select(initial); err != nil {
		// The loop stays stopped; the tray and API can still switch to a
		// working backend.
		log.Printf("Error activating backend %q: %v", initial, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting server on %s", cfg.ListenAddr)
		return srv.ListenAndServe(cfg.ListenAddr)
	})
	g.Go(func() error {
		<-ctx.Done()
		return srv.Shutdown(context.Background())
	})

	trayUI.OnBackend(func(kind backend.Kind) {
		if err := ctrl.Select(kind); err != nil {
			log.Printf("Error switching to backend %q: %v", kind, err)
		}
	})
	trayUI.OnToggle(func(paused bool) {
		session.SetPaused(paused)
	})
	trayUI.OnQuit(stop)

	if flagHeadless {
		<-ctx.Done()
	} else {
		// systray must run on the main goroutine. A signal or server
		// failure tears the tray down from the side.
		go func() {
			<-ctx.Done()
			trayUI.Quit()
		}()
		trayUI.Run()
		stop()
	}

	return g.Wait()
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path := flagConfig
	if path == "" {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, ".mudra", "config.yaml")
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}

	if cmd.Flags().Changed("camera") {
		cfg.CameraID = flagCamera
	}
	if flagAddr != "" {
		cfg.ListenAddr = flagAddr
	}
	return cfg, nil
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
