package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"golang.org/x/term"

	"github.com/nick/metashell/internal/config"
	"github.com/nick/metashell/internal/interp"
	"github.com/nick/metashell/internal/lineread"
)

// setupLogger configures the logger to write to the specified file path.
// When logPath is empty all logging is silenced; diagnostics on stdout
// would corrupt the child output relay.
func setupLogger(logPath string) (*os.File, error) {
	if logPath == "" {
		log.SetOutput(io.Discard)
		return nil, nil
	}

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return nil, err
	}
	log.SetOutput(logFile)
	return logFile, nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "metashell:", err)
		os.Exit(1)
	}
}

func run() error {
	var configFile, shellFlag, logFlag string
	flag.StringVar(&configFile, "f", "", "path to config file (default: searches for metashell.yaml in current directory)")
	flag.StringVar(&shellFlag, "shell", "", "root shell executable (overrides config and $SHELL)")
	flag.StringVar(&logFlag, "log", "", "diagnostic log file (overrides config)")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nInside the meta-shell, type !help for the command list.\n")
	}
	flag.Parse()

	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if shellFlag != "" {
		cfg.Shell = shellFlag
	}
	if logFlag != "" {
		cfg.LogFile = logFlag
	}

	logFile, err := setupLogger(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer func() {
		if logFile != nil {
			logFile.Close()
		}
	}()

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("stdin is not a terminal")
	}

	// Prefer the real terminal's size over the configured default
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 && h > 0 {
		cfg.Cols, cfg.Rows = w, h
	}

	log.Printf("starting metashell: shell=%s window=%dx%d", cfg.Shell, cfg.Cols, cfg.Rows)

	// Ctrl-C must reach the meta-shell only as a keystroke (0x03) routed to
	// the current child, never as a SIGINT to our own runtime
	signal.Ignore(os.Interrupt)
	defer signal.Reset(os.Interrupt)

	reader := lineread.New()
	if err := reader.Start(); err != nil {
		return err
	}
	defer reader.Stop()

	it := interp.New(cfg)
	defer it.Cleanup()

	return it.Run(reader)
}
