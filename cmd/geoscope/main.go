// Command geoscope is a terminal dashboard for geographic record sets: one
// dataset, three coordinated views (map, regions, relationships), reactive
// filtering, and image export.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/mvdleeuw/geoscope/pkg/analysis"
	"github.com/mvdleeuw/geoscope/pkg/config"
	"github.com/mvdleeuw/geoscope/pkg/debug"
	"github.com/mvdleeuw/geoscope/pkg/export"
	"github.com/mvdleeuw/geoscope/pkg/geo"
	"github.com/mvdleeuw/geoscope/pkg/loader"
	"github.com/mvdleeuw/geoscope/pkg/ui"
	"github.com/mvdleeuw/geoscope/pkg/version"
	"github.com/mvdleeuw/geoscope/pkg/watcher"
)

func main() {
	var (
		dataPath     = flag.String("data", "", "dataset path (csv, json, xlsx or sqlite); defaults to $"+loader.DataPathEnvVar+" or ./"+loader.DefaultDataName)
		watch        = flag.Bool("watch", false, "watch the dataset file and offer a reload when it changes")
		themeFlag    = flag.String("theme", "auto", "color theme: light, dark or auto")
		snapshot     = flag.String("snapshot", "", "write an image snapshot to this path and exit (headless)")
		snapshotView = flag.String("snapshot-view", "map", "which view to snapshot: map or regions")
		wizard       = flag.Bool("wizard", false, "prompt for snapshot format and path interactively")
		debugFlag    = flag.Bool("debug", false, "enable debug logging to stderr")
		showVersion  = flag.Bool("version", false, "print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Println("geoscope " + version.Version)
		return
	}
	if *debugFlag {
		debug.SetEnabled(true)
	}

	path := loader.ResolvePath(*dataPath)

	cfg, err := config.Load()
	if err != nil {
		debug.Log("config load: %v", err)
	}
	dark := resolveDark(*themeFlag, cfg)

	if *snapshot != "" || *wizard {
		if err := runSnapshot(path, *snapshot, *snapshotView, *wizard, dark); err != nil {
			fmt.Fprintln(os.Stderr, "geoscope:", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "geoscope: the dashboard needs a terminal (use --snapshot for headless export)")
		os.Exit(1)
	}

	var w *watcher.Watcher
	if *watch {
		w, err = watcher.New(path, watcher.WithOnError(func(err error) {
			debug.Log("watcher: %v", err)
		}))
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "geoscope: cannot watch %s: %v\n", path, err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	m := ui.New(ui.Options{
		DataPath: path,
		Config:   cfg,
		Dark:     dark,
		Watcher:  w,
	})

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintln(os.Stderr, "geoscope:", err)
		os.Exit(1)
	}
}

// resolveDark picks the effective theme: an explicit flag wins, then the
// persisted preference, then the terminal's background.
func resolveDark(themeFlag string, cfg config.Config) bool {
	switch themeFlag {
	case "dark":
		return true
	case "light":
		return false
	default:
		return cfg.ResolveDarkMode(lipgloss.HasDarkBackground)
	}
}

// runSnapshot is the headless export flow: load the dataset, optionally run
// the format wizard, and write the requested view as an image.
func runSnapshot(dataPath, outPath, view string, useWizard, dark bool) error {
	records, err := loader.Load(context.Background(), dataPath)
	if err != nil {
		return err
	}

	opts := export.SnapshotOptions{
		Path:     outPath,
		Title:    fmt.Sprintf("geoscope — %s (%d records)", view, len(records)),
		DarkMode: dark,
	}
	if useWizard {
		if opts.Path == "" {
			opts.Path = "geoscope-" + view + ".svg"
		}
		choice, err := export.RunWizard(opts.Path)
		if errors.Is(err, export.ErrWizardCancelled) {
			return nil
		}
		if err != nil {
			return err
		}
		opts.Path = choice.Path
		opts.Format = choice.Format
	}

	switch view {
	case "regions":
		err = export.SaveChartSnapshot(opts, analysis.GroupByRegion(records))
	case "map":
		var points []export.MapPoint
		for _, r := range records {
			if r.Mappable() {
				points = append(points, export.MapPoint{
					Name:  r.Name,
					Point: geo.Point{Lat: r.Lat, Lng: r.Lng},
				})
			}
		}
		vp, ok := geo.Frame(pointsOnly(points))
		if !ok {
			return errors.New("no mappable records to snapshot")
		}
		err = export.SaveMapSnapshot(opts, points, vp)
	default:
		return fmt.Errorf("unknown snapshot view %q (want map or regions)", view)
	}
	if err != nil {
		return err
	}

	fmt.Println("wrote", opts.Path)
	return nil
}

func pointsOnly(points []export.MapPoint) []geo.Point {
	out := make([]geo.Point, len(points))
	for i, p := range points {
		out[i] = p.Point
	}
	return out
}
