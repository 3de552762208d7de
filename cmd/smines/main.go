package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/vancomm/smines/internal/commands"
	"github.com/vancomm/smines/internal/config"
	"github.com/vancomm/smines/internal/logging"
	"github.com/vancomm/smines/internal/mines"
	"github.com/vancomm/smines/internal/session"
	"github.com/vancomm/smines/internal/tui"
)

var (
	log = mines.Log

	configPath string
	difficulty string
	width      int
	height     int
	mineCount  int
	allowUndo  bool
	seed       uint64
	script     bool
)

func init() {
	const usage = "config file path (.json, .yaml or .yml)"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
	flag.StringVar(&difficulty, "difficulty", "",
		"preset: super-easy, easy, intermediate (medium) or hard")
	flag.IntVar(&width, "width", 0, "minefield width, overrides the preset")
	flag.IntVar(&height, "height", 0, "minefield height, overrides the preset")
	flag.IntVar(&mineCount, "mines", 0, "number of mines, overrides the preset")
	flag.BoolVar(&allowUndo, "allow-undo", false, "enable the undo key")
	flag.Uint64Var(&seed, "seed", 0, "seed for mine placement")
	flag.BoolVar(&script, "script", false, "read line commands from stdin even on a terminal")
}

// loadConfig layers the defaults, the config file, the environment and
// the command line, in that order.
func loadConfig() (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		if err := config.ReadConfig(configPath, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := config.LoadEnv(&cfg); err != nil {
		return cfg, err
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "difficulty":
			cfg.Difficulty = difficulty
		case "width":
			cfg.Width = width
		case "height":
			cfg.Height = height
		case "mines":
			cfg.Mines = mineCount
		case "allow-undo":
			cfg.AllowUndo = allowUndo
		case "seed":
			cfg.Seed = &seed
		}
	})
	return cfg, nil
}

func main() {
	mainCtx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "smines:", err)
		os.Exit(2)
	}
	params, err := cfg.GameParams()
	if err != nil {
		fmt.Fprintln(os.Stderr, "smines:", err)
		os.Exit(2)
	}

	interactive := !script && term.IsTerminal(int(os.Stdin.Fd()))

	// The TUI owns the screen, so log lines only go to the log file.
	var logOut io.Writer = os.Stderr
	if interactive {
		logOut = io.Discard
	}
	if err := logging.Setup(log, cfg.Log, cfg.Development(), logOut); err != nil {
		fmt.Fprintln(os.Stderr, "smines:", err)
		os.Exit(2)
	}

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	opts := []session.Option{
		session.WithUndo(cfg.AllowUndo),
		session.WithLogger(logrus.NewEntry(log)),
	}
	if cfg.Seed != nil {
		opts = append(opts, session.WithRand(mines.NewSeededRand(*cfg.Seed)))
	}
	s, err := session.New(params, opts...)
	if err != nil {
		log.Fatal("unable to start a game: ", err)
	}

	if interactive {
		err = tui.Run(mainCtx, s, cfg.Tick.Duration)
	} else {
		runner := commands.NewRunner(s, os.Stdout, logrus.NewEntry(log))
		err = runner.Serve(mainCtx, os.Stdin, cfg.Tick.Duration)
	}
	if err != nil {
		log.Printf("exit reason: %s\n", err)
		os.Exit(1)
	}
}
