package commands

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/penwyp/go-kicad-wakatime/internal/config"
	"github.com/penwyp/go-kicad-wakatime/internal/core/classifier"
	"github.com/penwyp/go-kicad-wakatime/internal/core/resolver"
	"github.com/penwyp/go-kicad-wakatime/internal/dispatch"
	"github.com/penwyp/go-kicad-wakatime/internal/platform/window"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Probe the tracking environment and print a readiness report",
	Long: `Checks everything the tracker needs at runtime: wakatime-cli, WakaTime
credentials, KiCad's settings file, and the window observer.

"Not ready" findings are part of the report; the command only fails on
internal errors.`,
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	fmt.Println(util.FormatSectionSeparator())
	fmt.Println(util.FormatHeaderTitle("=== KiCad WakaTime Environment Check ==="))
	fmt.Printf("Timestamp: %s\n", time.Now().Format("2006-01-02 15:04:05 MST"))
	fmt.Println(util.FormatSectionSeparator())

	checkReporter(ctx)
	fmt.Println(util.FormatSectionSeparator())

	checkCredentials()
	fmt.Println(util.FormatSectionSeparator())

	checkKicadSettings()
	fmt.Println(util.FormatSectionSeparator())

	checkObserver(ctx)
	fmt.Println(util.FormatSectionSeparator())

	return nil
}

func checkReporter(ctx context.Context) {
	fmt.Println(util.FormatDiagnosticTitle("=== wakatime-cli ==="))

	cliPath, err := dispatch.LocateCLI()
	if err != nil {
		fmt.Printf("Binary: not found (%v)\n", err)
		fmt.Println("Install from https://github.com/wakatime/wakatime-cli or run with --dry-run")
		return
	}
	fmt.Printf("Binary: %s\n", cliPath)

	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	out, err := exec.CommandContext(probeCtx, cliPath, "--version").Output()
	if err != nil {
		fmt.Printf("Version: probe failed (%v)\n", err)
		return
	}
	fmt.Printf("Version: %s\n", strings.TrimSpace(string(out)))
}

func checkCredentials() {
	fmt.Println(util.FormatDiagnosticTitle("=== WakaTime credentials ==="))

	cfgPath := expandPath("~/.wakatime.cfg")
	key, url, err := config.LoadWakatimeCfg(cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Printf("Config: %s not found\n", cfgPath)
		} else {
			fmt.Printf("Config: %v\n", err)
		}
		return
	}

	fmt.Printf("Config: %s\n", cfgPath)
	if key == "" {
		fmt.Println("API key: missing")
	} else {
		fmt.Printf("API key: %s\n", util.MaskKey(key))
	}
	if url != "" {
		fmt.Printf("API URL: %s\n", url)
	}
}

func checkKicadSettings() {
	fmt.Println(util.FormatDiagnosticTitle("=== KiCad settings ==="))

	settings := resolver.NewKicadSettings(settingsOverride())
	path, err := settings.SettingsPath()
	if err != nil {
		fmt.Printf("Settings: %v\n", err)
		fmt.Println("Open KiCad once so it writes its configuration, or pass --settings")
		return
	}
	fmt.Printf("Settings: %s\n", path)

	files, err := settings.RecentFiles()
	if err != nil {
		fmt.Printf("History: unreadable (%v)\n", err)
		return
	}
	if len(files) == 0 {
		fmt.Println("History: empty (open a project in KiCad to make it resolvable)")
		return
	}

	fmt.Printf("History: %d recent projects\n", len(files))
	width := terminalWidth()
	for i, entry := range files {
		if i == 10 {
			fmt.Printf("  ... %d more\n", len(files)-10)
			break
		}
		name := strings.TrimSuffix(filepath.Base(entry), filepath.Ext(entry))
		fmt.Printf("  %2d. %s %s\n", i+1,
			util.PadString(name, 20, true),
			util.TruncateString(entry, width-28))
	}
}

func checkObserver(ctx context.Context) {
	fmt.Println(util.FormatDiagnosticTitle("=== Window observer ==="))

	sample := window.New(util.SystemClock()).Sample(ctx)
	if sample.Empty() {
		fmt.Println("Foreground window: none (observer degraded or nothing focused)")
		return
	}

	fmt.Printf("Foreground window: %s\n", sample.Title)
	fmt.Printf("System idle: %s\n", util.FormatDuration(sample.SystemIdle))

	w := classifier.Classify(sample)
	switch {
	case !w.TrackedApp:
		fmt.Println("Classification: not a KiCad window")
	case w.HasDocument():
		fmt.Printf("Classification: %s, document %q\n", w.Kind, w.BaseName)
	default:
		fmt.Println("Classification: KiCad, no document open")
	}
}

func settingsOverride() string {
	if settingsPath == "" {
		return ""
	}
	return expandPath(settingsPath)
}

// terminalWidth returns the usable column count, with a fallback for
// non-terminal stdout.
func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 100
	}
	return width
}
