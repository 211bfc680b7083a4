package commands

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/acelink/pkg/links"
	"github.com/abdul-hamid-achik/acelink/pkg/project"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-resolve files as they are saved",
	Long: `Watch the project and re-resolve the references of every file that is
saved. Only the saved file is resolved again; controllers pick up route
changes the next time they are saved.

In JSON mode one event object is printed per resolved file.

Examples:
  acelink watch
  acelink watch --broken
  acelink watch --json`,
	Run: runWatch,
}

var (
	watchBroken   bool
	watchDebounce time.Duration
)

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().BoolVar(&watchBroken, "broken", false, "Only print broken references")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 100*time.Millisecond, "Wait this long after the last write before resolving")
}

// skipWatchDir reports whether a directory is never watched.
func skipWatchDir(name string) bool {
	if name != "." && strings.HasPrefix(name, ".") {
		return true
	}
	switch name {
	case "node_modules", "vendor", "tmp", "build", "dist", "coverage":
		return true
	}
	return false
}

// addWatchDirs adds root and every directory below it that is not skipped.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipWatchDir(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// debouncer runs a function once per key after writes to that key stop.
type debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timers map[string]*time.Timer
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, timers: make(map[string]*time.Timer)}
}

// Trigger schedules fn for key, replacing any call still pending for key.
func (d *debouncer) Trigger(key string, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[key]; ok {
		t.Stop()
	}
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[key] == t {
			delete(d.timers, key)
		}
		d.mu.Unlock()
		fn()
	})
	d.timers[key] = t
}

// Stop cancels every pending call.
func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, t := range d.timers {
		t.Stop()
		delete(d.timers, key)
	}
}

func runWatch(cmd *cobra.Command, args []string) {
	cyan := color.New(color.FgCyan).SprintFunc()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	ctx := cmd.Context()
	p := openProject()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fail(fmt.Errorf("failed to create file watcher: %w", err))
	}
	defer func() { _ = watcher.Close() }()

	if err := addWatchDirs(watcher, p.Root); err != nil {
		fail(fmt.Errorf("failed to watch %s: %w", p.Root, err))
	}

	if !jsonOutput {
		fmt.Printf("\n  %s Watch\n\n", cyan("acelink"))
		fmt.Printf("  %s Watching %s for changes...\n\n", green("✓"), p.Root)
	}

	var printMu sync.Mutex
	debounce := newDebouncer(watchDebounce)
	defer debounce.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			// Only react to write and create events
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skipWatchDir(info.Name()) {
						_ = addWatchDirs(watcher, event.Name)
					}
					continue
				}
			}

			file := p.Rel(event.Name)
			if len(p.Linker.KindsFor(file)) == 0 {
				continue
			}

			debounce.Trigger(file, func() {
				printMu.Lock()
				defer printMu.Unlock()
				reresolve(ctx, p, file)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			if !jsonOutput {
				fmt.Printf("  %s Watcher error: %v\n", yellow("Warning:"), err)
			}

		case <-ctx.Done():
			if !jsonOutput {
				fmt.Printf("\n  %s\n", dim("Stopped watching"))
			}
			return
		}
	}
}

// reresolve resolves file again and prints the result.
func reresolve(ctx context.Context, p *project.Project, file string) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	timestamp := time.Now().Format("15:04:05")
	found, err := p.Links(ctx, file)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		if jsonOutput {
			printJSON(WatchEvent{Time: timestamp, File: file, Error: err.Error()})
		} else {
			fmt.Printf("  [%s] %s %s: %v\n", timestamp, red("✗"), file, err)
		}
		return
	}

	resolved, broken := countLinks(found)
	if jsonOutput {
		printJSON(WatchEvent{Time: timestamp, File: file, Links: found, Resolved: resolved, Broken: broken})
		return
	}

	mark := green("✓")
	if broken > 0 {
		mark = red("✗")
	}
	fmt.Printf("  [%s] %s %s %s\n", timestamp, mark, file,
		dim(fmt.Sprintf("(%d links, %d resolved, %d broken)", len(found), resolved, broken)))

	for _, l := range found {
		if l.Err != nil {
			fmt.Printf("             %s %s %s\n", yellow("!"), l.Capture, dim(l.Error))
			continue
		}
		if watchBroken && !l.Broken() {
			continue
		}
		if l.Broken() && l.Kind != links.KindControllerRoute {
			fmt.Printf("             %s %s %s\n", red("→"), l.Position.String(), l.Capture)
		} else if !watchBroken && l.Target.Found() {
			fmt.Printf("             %s %s %s\n", dim(l.Position.String()), l.Capture, dim(formatTarget(p, l.Target)))
		}
	}
}
