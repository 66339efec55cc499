package main

import (
	"errors"
	"flag"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/adammck/mech/builder"
	"github.com/adammck/mech/config"
	"github.com/adammck/mech/sim"
)

var (
	configPath = flag.String("config", "", "path to the config file (default: built-in)")
	designName = flag.String("design", "", "name of the saved design to build (overrides config)")
	debug      = flag.Bool("debug", false, "log every step and phase change")
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "main",
})

// Returned from Update to stop the game loop cleanly.
var errQuit = errors.New("quit")

// viewer draws a top-down view of a single mech, driven from the keyboard.
type viewer struct {
	sim *sim.Sim

	// Simulated time. It advances by one tick per update, rather than following
	// the wall clock, so a slow frame doesn't make the mech lurch.
	now  time.Time
	tick time.Duration
}

func (v *viewer) Update() error {
	v.now = v.now.Add(v.tick)
	if err := v.sim.Tick(v.now); err != nil {
		return err
	}

	if v.sim.Shutdown() {
		return errQuit
	}

	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	v.drawGrid(screen)
	v.drawLegs(screen)
	v.drawBody(screen)
	v.drawProjectiles(screen)
	v.drawStatus(screen)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenWidth, screenHeight
}

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
	design, err := sim.LoadDesign(builder.OpenStore("mech", catalog), catalog, cfg.Design)
	if err != nil {
		log.Fatalf("error loading design: %s", err)
	}

	s, err := sim.New(cfg, design, keyboard{})
	if err != nil {
		log.Fatalf("error building mech: %s", err)
	}

	if err := s.Boot(); err != nil {
		log.Fatalf("error while booting: %s", err)
	}

	ebiten.SetTPS(int(cfg.Tick.Rate))
	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("mech")

	v := &viewer{
		sim:  s,
		now:  time.Now(),
		tick: cfg.Tick.Interval(),
	}

	if err := ebiten.RunGame(v); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
