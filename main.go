// StyleMark is a desktop tool for annotating garment photos against
// their style files: freehand marks, labels, tick/cross verdicts,
// rectangles, measurements and comparisons, saved as a JSON sidecar
// plus a flattened thumbnail and uploaded to a StyleMark server.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	fyneapp "fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/dialog"
	"github.com/rs/zerolog"

	"stylemark/internal/app"
	"stylemark/internal/upload"
	"stylemark/internal/version"
	"stylemark/ui/mainwindow"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if *showVersion {
		fmt.Printf("stylemark %s (built %s, commit %s)\n",
			version.Version, version.BuildTime, version.GitCommit)
		return
	}

	level := zerolog.InfoLevel
	if *debug {
		level = zerolog.DebugLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(level).
		With().Timestamp().Logger()

	uploadCfg, err := upload.LoadConfig()
	if err != nil {
		log.Warn().Err(err).Msg("using default upload settings")
		uploadCfg = upload.Config{Timeout: 30 * time.Second}
	}

	fyneApp := fyneapp.NewWithID("com.stylemark.app")
	fyneApp.Settings().SetTheme(&app.StyleMarkTheme{})

	state := app.NewState()
	win := mainwindow.New(fyneApp, log, state, uploadCfg)

	// Development convenience: offer a restart when the binary is rebuilt.
	if reloader := app.NewHotReloader(); reloader != nil {
		reloader.OnNewBinary(func() {
			dialog.NewConfirm("New Build Detected",
				"A newer binary is available. Restart now?",
				func(restart bool) {
					if restart {
						if err := reloader.Restart(); err != nil {
							log.Error().Err(err).Msg("restart failed")
						}
					} else {
						reloader.ResetBaseline()
						reloader.Start()
					}
				}, win).Show()
		})
		reloader.Start()
		defer reloader.Stop()
	}

	// A photo path on the command line opens it immediately.
	if args := flag.Args(); len(args) > 0 {
		win.OpenPhotoPath(args[0])
	}

	log.Info().Str("version", version.Version).Msg("stylemark started")
	win.ShowAndRun()
}
