package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adammck/mech/builder"
	"github.com/adammck/mech/components/controller"
	"github.com/adammck/mech/config"
	"github.com/adammck/mech/server"
	"github.com/adammck/mech/sim"
)

var (
	configPath  = flag.String("config", "", "path to the config file (default: built-in)")
	catalogPath = flag.String("catalog", "", "path to the module catalog (default: built-in)")
	designName  = flag.String("design", "", "name of the saved design to build (overrides config)")
	autopilot   = flag.Bool("autopilot", true, "walk forwards on autopilot (ignored with -gamepad)")
	gamepad     = flag.String("gamepad", "", "path to a sixaxis controller device, e.g. /dev/input/event0")
	duration    = flag.Duration("duration", 0, "stop after this long (default: forever)")
	status      = flag.Duration("status", 2*time.Second, "how often to log the mech status")
	debug       = flag.Bool("debug", false, "log every step and phase change")
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "main",
})

func main() {
	flag.Parse()

	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("error loading config: %s", err)
	}

	if *designName != "" {
		cfg.Design = *designName
	}

	catalog := builder.DefaultCatalog()
	if *catalogPath != "" {
		catalog, err = builder.LoadCatalog(*catalogPath)
		if err != nil {
			log.Fatalf("error loading catalog: %s", err)
		}
	}

	design, err := sim.LoadDesign(builder.OpenStore("mech", catalog), catalog, cfg.Design)
	if err != nil {
		log.Fatalf("error loading design: %s", err)
	}

	var src controller.Source = controller.Hold(controller.Input{Autopilot: *autopilot})
	if *gamepad != "" {
		log.Info("Opening controller...")
		f, err := os.Open(*gamepad)
		if err != nil {
			log.Fatalf("error opening controller: %s", err)
		}
		defer f.Close()

		g := controller.NewGamepad(f)
		go g.Run()
		src = g
	}

	s, err := sim.New(cfg, design, src)
	if err != nil {
		log.Fatalf("error building mech: %s", err)
	}

	log.Info("Booting components...")
	err = s.Boot()
	if err != nil {
		log.Fatalf("error while booting: %s", err)
	}

	if cfg.HTTP.Listen != "" {
		r := server.New(s.Registry, s.Damage)
		go func() {
			log.Infof("Serving on %s", cfg.HTTP.Listen)
			if err := r.Run(cfg.HTTP.Listen); err != nil {
				log.Errorf("server stopped: %s", err)
			}
		}()
	}

	t := time.NewTicker(cfg.Tick.Interval())
	defer t.Stop()

	// Catch both SIGINT (ctrl+c) and SIGTERM (kill/systemd), and stop at the end
	// of the current tick.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	var deadline <-chan time.Time
	if *duration > 0 {
		deadline = time.After(*duration)
	}

	lastStatus := time.Now()

	log.Info("Starting loop...")
	for {
		select {
		case sig := <-c:
			log.Infof("Caught %s, shutting down...", sig)
			return

		case <-deadline:
			log.WithFields(s.Status()).Info("Done")
			return

		case now := <-t.C:
			if err := s.Tick(now); err != nil {
				log.Fatalf("error while ticking: %s", err)
			}

			if s.Shutdown() {
				log.WithFields(s.Status()).Info("Shutdown requested")
				os.Exit(2)
			}

			if now.Sub(lastStatus) >= *status {
				log.WithFields(s.Status()).Info("status")
				lastStatus = now
			}
		}
	}
}
