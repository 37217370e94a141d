package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/config"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	fmt.Println("Mudra - Finger Counter")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		dbPath, err = defaultDBPath()
		if err != nil {
			log.Fatalf("Failed to resolve data directory: %v", err)
		}
	}

	st, err := store.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	session := app.NewSession(app.Config{
		Store:        st,
		CameraID:     cfg.CameraID,
		FPS:          cfg.FPS,
		Mirror:       cfg.Mirror,
		Sliders:      cfg.Sliders,
		Thresholds:   cfg.Thresholds(),
		Policy:       cfg.Policy(),
		MotionThresh: cfg.MotionThreshold,
	})

	var hub *server.CountsHub
	if cfg.Addr != "" {
		srv := server.New(server.Config{
			Store:   st,
			Camera:  session.Camera(),
			Session: session,
		})
		hub = srv.Counts()
		session.OnObservation(hub.Publish)

		go func() {
			fmt.Printf("Starting server on %s\n", cfg.Addr)
			if err := srv.ListenAndServe(cfg.Addr); err != nil {
				log.Fatalf("Server failed: %v", err)
			}
		}()
	}

	if cfg.Headless {
		runHeadless(session, hub)
		return
	}

	if err := session.Run(); err != nil {
		log.Fatalf("Session failed: %v", err)
	}
}

// runHeadless starts the background pipeline and blocks on the system tray.
func runHeadless(session *app.Session, hub *server.CountsHub) {
	if err := session.Start(); err != nil {
		log.Fatalf("Failed to start pipeline: %v", err)
	}

	t := tray.New()
	t.OnToggle(session.SetEnabled)
	t.OnQuit(session.Stop)
	session.OnObservation(func(obs app.Observation) {
		t.SetLastCount(obs.Side, obs.Fingers)
		if hub != nil {
			hub.Publish(obs)
		}
	})

	t.Run()
}

// defaultDBPath returns ~/.mudra/mudra.db, creating the directory if needed.
func defaultDBPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(homeDir, ".mudra")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(dbDir, "mudra.db"), nil
}
