package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/fold/internal/datasource"
	"github.com/vanderheijden86/fold/pkg/config"
	"github.com/vanderheijden86/fold/pkg/model"
	"github.com/vanderheijden86/fold/pkg/session"
	"github.com/vanderheijden86/fold/pkg/ui"
	"github.com/vanderheijden86/fold/pkg/version"
	"github.com/vanderheijden86/fold/pkg/watcher"
)

const autosaveInterval = 30 * time.Second

func main() {
	help := flag.Bool("help", false, "Show help")
	versionFlag := flag.Bool("version", false, "Show version")
	noRestore := flag.Bool("no-restore", false, "Start fresh, ignoring the saved session")
	recentsFlag := flag.Bool("recents", false, "List recently opened outlines and exit")
	flag.Parse()

	if *help {
		fmt.Println("Usage: fold [options] [outline.json]")
		fmt.Println("\nA zoomable note outliner with tabs and session restore.")
		flag.PrintDefaults()
		os.Exit(0)
	}

	if *versionFlag {
		fmt.Printf("fold %s\n", version.Version)
		os.Exit(0)
	}

	settings := config.NewStore("")

	if *recentsFlag {
		listRecents()
		os.Exit(0)
	}

	outlinePath := flag.Arg(0)
	if outlinePath == "" {
		outlinePath = filepath.Join(config.DataDir(), "outline.json")
	}
	outlinePath, err := filepath.Abs(outlinePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error resolving outline path: %v\n", err)
		os.Exit(1)
	}

	outline, err := datasource.LoadOutline(outlinePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading outline: %v\n", err)
		os.Exit(1)
	}

	touchRecents(outlinePath, outline.Root.Title)

	// The session file prefers the sync directory so it follows the user
	// across machines; the local state directory is the fallback.
	sessionDir := settings.SyncDir()
	if sessionDir == "" {
		sessionDir = config.StateDir()
	}
	store := session.NewStore(session.DirLocator(sessionDir))

	windows := ui.NewWindows()
	coord := session.NewCoordinator(store, settings, windows, nil)

	if *noRestore {
		outline.CollapseAll()
		if id, ok := outline.RootFirstChildID(); ok {
			outline.SetFocusedNodeID(id)
		}
	} else {
		// Replay before the model exists: the first tab drains queue
		// entry 0 during construction and the bridge backlogs the
		// creation triggers until the program is attached.
		coord.RestoreSessionIfNeeded(outline)
	}

	m := ui.NewModel(outline, coord, windows, settings).WithSaver(func(o *model.Outline) error {
		return datasource.SaveOutline(o, outlinePath)
	})

	if err := runTUIProgram(m, outlinePath, coord, windows); err != nil {
		fmt.Fprintf(os.Stderr, "Error running fold: %v\n", err)
		os.Exit(1)
	}
}

func runTUIProgram(m ui.Model, outlinePath string, coord *session.Coordinator, windows *ui.Windows) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithoutSignalHandler(),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	g, ctx := errgroup.WithContext(ctx)

	// Attach flushes any backlogged restore triggers; Send blocks until
	// the program loop is consuming, so it runs off the main goroutine.
	g.Go(func() error {
		windows.Attach(p.Send)
		return nil
	})

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	g.Go(func() error {
		select {
		case <-ctx.Done():
			return nil
		case <-sigCh:
		}
		p.Quit()
		select {
		case <-ctx.Done():
		case <-sigCh:
			p.Kill()
		case <-time.After(5 * time.Second):
			p.Kill()
		}
		return nil
	})

	// Live reload when the outline file changes under us (sync layer,
	// another instance).
	if w, err := watcher.New(outlinePath); err == nil && w.Start() == nil {
		g.Go(func() error {
			defer w.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-w.Changed():
					reloaded, err := datasource.LoadOutline(outlinePath)
					if err != nil {
						continue
					}
					p.Send(ui.OutlineChangedMsg{Outline: reloaded})
				}
			}
		})
	}

	// Periodic session autosave from the published snapshot.
	g.Go(func() error {
		ticker := time.NewTicker(autosaveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				coord.SaveCurrent(windows.FocusedNodeID())
			}
		}
	})

	_, err := p.Run()
	cancel()
	if gerr := g.Wait(); gerr != nil && err == nil {
		err = gerr
	}

	// Final save on the way out, whatever the exit path.
	coord.SaveCurrent(windows.FocusedNodeID())

	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}

func recentsIndexPath() string {
	return filepath.Join(config.StateDir(), "recents.db")
}

func touchRecents(path, title string) {
	r, err := datasource.OpenRecents(recentsIndexPath())
	if err != nil {
		return
	}
	defer r.Close()
	_ = r.Touch(path, title)
}

func listRecents() {
	r, err := datasource.OpenRecents(recentsIndexPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening recents index: %v\n", err)
		os.Exit(1)
	}
	defer r.Close()

	entries, err := r.List(20)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing recents: %v\n", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No recently opened outlines.")
		return
	}
	for _, e := range entries {
		fmt.Printf("%s\t%s\n", e.OpenedAt.Format("2006-01-02 15:04"), e.Path)
	}
}
