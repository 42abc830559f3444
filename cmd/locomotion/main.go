package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Versifine/locomotion/internal/config"
	"github.com/Versifine/locomotion/internal/debug"
	"github.com/Versifine/locomotion/internal/input"
	"github.com/Versifine/locomotion/internal/logger"
	"github.com/Versifine/locomotion/internal/sim"

	"github.com/alecthomas/kong"
)

// fallbackRunSeconds bounds a headless run that has neither a frame count nor
// a script.
const fallbackRunSeconds = 10

type CLI struct {
	File  string `help:"YAML configuration file layered on the defaults." short:"f" type:"existingfile"`
	Mode  string `help:"Override sim.mode (third_person or first_person)." short:"m"`
	Debug bool   `help:"Whether to enable debug logging."`

	Run struct {
		Frames   int  `help:"Frames to simulate; 0 plays the configured script once." short:"n"`
		Realtime bool `help:"Pace ticks at the configured tick rate."`
	} `cmd:"" default:"1" help:"Run the scripted session headlessly."`

	Console struct {
	} `cmd:"" help:"Drive the character from the keyboard."`

	PrintConfig struct {
	} `cmd:"" name:"config" help:"Write the default configuration to standard output."`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes one CLI invocation and returns the process exit code, so every
// deferred cleanup has happened by the time main exits.
func run(args []string, stdout, stderr io.Writer) int {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("locomotion"),
		kong.Description("kinematic third and first person character controllers"),
		kong.Writers(stdout, stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
			Summary: true,
		}))
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 2
	}

	if kctx.Command() == "config" {
		if _, err := stdout.Write(config.DefaultYAML); err != nil {
			fmt.Fprintf(stderr, "write default config: %s\n", err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(&cli)
	if err != nil {
		fmt.Fprintf(stderr, "%s\n", err)
		return 1
	}

	interactive := kctx.Command() == "console"
	if err := logger.Init(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: stdout,
		File:   cfg.Logging.File,
		CRLF:   interactive,
	}); err != nil {
		slog.Warn("Log file unavailable", "error", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if interactive {
		err = consoleCommand(ctx, cfg)
	} else {
		err = runCommand(ctx, &cli, cfg)
	}
	if err != nil {
		slog.Error("Command failed", "command", kctx.Command(), "error", err)
		return 1
	}
	return 0
}

func loadConfig(cli *CLI) (*config.Config, error) {
	cfg := config.Default()
	if cli.File != "" {
		loaded, err := config.Load(cli.File)
		if err != nil {
			return nil, fmt.Errorf("load config %s: %w", cli.File, err)
		}
		cfg = loaded
	}
	if cli.Mode != "" {
		cfg.Sim.Mode = cli.Mode
	}
	if cli.Debug {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// runFrames picks the length of a headless run: the flag, then sim.frames,
// then the script length, then a fixed number of seconds.
func runFrames(flag int, cfg *config.Config, scriptLen int) int {
	switch {
	case flag > 0:
		return flag
	case cfg.Sim.Frames > 0:
		return cfg.Sim.Frames
	case scriptLen > 0:
		return scriptLen
	default:
		return fallbackRunSeconds * cfg.Sim.TickRate
	}
}

func runCommand(ctx context.Context, cli *CLI, cfg *config.Config) error {
	script, err := input.ScriptFromConfig(cfg.Sim.Script)
	if err != nil {
		return err
	}
	session, err := sim.Build(cfg, script)
	if err != nil {
		return err
	}
	if cli.Run.Realtime {
		session.Runner.Pace = session.Runner.TickInterval()
	}

	frames := runFrames(cli.Run.Frames, cfg, script.Len())
	_, err = session.Runner.Run(ctx, frames)
	if errors.Is(err, context.Canceled) {
		slog.Info("Simulation interrupted", "frames", session.Runner.Frame())
		return nil
	}
	return err
}

func consoleCommand(ctx context.Context, cfg *config.Config) error {
	live := input.NewLive()
	session, err := sim.Build(cfg, live)
	if err != nil {
		return err
	}
	return debug.NewConsole(cfg.Sim.Mode, session.Runner, session.Body, live).Start(ctx)
}
