package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/penwyp/go-kicad-wakatime/internal/core/classifier"
	"github.com/penwyp/go-kicad-wakatime/internal/core/model"
	"github.com/penwyp/go-kicad-wakatime/internal/platform/window"
	"github.com/penwyp/go-kicad-wakatime/internal/util"
)

var windowsCmd = &cobra.Command{
	Use:    "windows",
	Short:  "Debug command listing visible window titles and how they classify",
	Hidden: true, // Hidden from help
	RunE:   runWindows,
}

func init() {
	rootCmd.AddCommand(windowsCmd)
}

func runWindows(cmd *cobra.Command, args []string) error {
	titles := window.New(util.SystemClock()).List(cmd.Context())
	if len(titles) == 0 {
		fmt.Println("No visible windows reported")
		return nil
	}

	width := terminalWidth()
	for i, title := range titles {
		fmt.Printf("%3d  %s  %s\n", i+1,
			util.PadString(classifyLabel(title), 24, true),
			util.TruncateString(title, width-30))
	}
	return nil
}

// classifyLabel annotates one title the way the tracker would see it.
func classifyLabel(title string) string {
	w := classifier.Classify(model.WindowSample{Title: title})
	switch {
	case !w.TrackedApp:
		return "-"
	case w.HasDocument():
		return fmt.Sprintf("kicad %s:%s", w.Kind, w.BaseName)
	default:
		return "kicad no-document"
	}
}
