// Command mdo is a terminal markdown viewer with a live outline panel that
// tracks the current reading position.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/mdoutline/pkg/config"
	"github.com/vanderheijden86/mdoutline/pkg/debug"
	"github.com/vanderheijden86/mdoutline/pkg/ui"
	"github.com/vanderheijden86/mdoutline/pkg/version"
	"github.com/vanderheijden86/mdoutline/pkg/watcher"
)

func main() {
	versionFlag := flag.Bool("version", false, "Show version")
	helpFlag := flag.Bool("help", false, "Show help")
	modeFlag := flag.String("mode", "", "Initial mode: raw or rendered (overrides the config default)")
	noWatch := flag.Bool("no-watch", false, "Disable live reload on file changes")
	pollFlag := flag.Bool("poll", false, "Force polling instead of fsnotify for live reload")
	configPath := flag.String("config", "", "Config file path (default: XDG config dir)")
	flag.Parse()

	if *versionFlag {
		fmt.Println("mdo", version.Version)
		return
	}
	if *helpFlag || flag.NArg() != 1 {
		fmt.Println("Usage: mdo [options] <file.md>")
		fmt.Println("\nA terminal markdown viewer with a reading-position outline.")
		flag.PrintDefaults()
		if !*helpFlag {
			os.Exit(2)
		}
		return
	}

	path := flag.Arg(0)
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdo: %v\n", err)
		os.Exit(1)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mdo: %v\n", err)
		os.Exit(1)
	}
	if mode, ok := normalizeMode(*modeFlag); ok {
		cfg.UI.DefaultMode = mode
	} else if *modeFlag != "" {
		fmt.Fprintf(os.Stderr, "mdo: unknown mode %q (want raw or rendered)\n", *modeFlag)
		os.Exit(2)
	}

	var w *watcher.Watcher
	if !*noWatch {
		w, err = watcher.New(path,
			watcher.WithDebounce(cfg.Debounce()),
			watcher.WithForcePoll(*pollFlag),
			watcher.WithOnError(func(err error) {
				debug.Log("watch error: %v", err)
			}),
		)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mdo: cannot watch %s: %v\n", path, err)
			os.Exit(1)
		}
		if err := w.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "mdo: cannot watch %s: %v\n", path, err)
			os.Exit(1)
		}
		defer w.Stop()
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.MouseEnabled() {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(ui.NewModel(path, src, cfg, w), opts...)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "mdo: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

// normalizeMode maps a user-supplied mode name to its canonical form.
func normalizeMode(s string) (string, bool) {
	switch s {
	case "raw", "source", "src":
		return "raw", true
	case "rendered", "preview", "view":
		return "rendered", true
	}
	return "", false
}
