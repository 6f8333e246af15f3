package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/avaldr/deckforge/internal/anim"
	"github.com/avaldr/deckforge/internal/sheet"
	"github.com/avaldr/deckforge/internal/tui"
)

var previewFPS float64

var previewCmd = &cobra.Command{
	Use:   "preview <sheet.png>",
	Short: "Play a sprite sheet animation in the terminal",
	Long: `Play a generated sprite sheet in the terminal using half-block
rendering. The sheet's frame count comes from its metadata sidecar; the
action name is parsed from the file name and decides whether the clip loops.`,
	Args: cobra.ExactArgs(1),
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().Float64Var(&previewFPS, "fps", 0, "playback rate (0 uses animation.fps from config)")
}

func runPreview(cmd *cobra.Command, args []string) error {
	sh, err := sheet.ReadFiles(args[0])
	if err != nil {
		return err
	}

	entity, action := parseSheetName(args[0])

	fps := previewFPS
	if fps <= 0 {
		fps = viper.GetFloat64("animation.fps")
	}

	clip, err := anim.NewClip(entity, action, sh.Frames(), fps, anim.Loops(action))
	if err != nil {
		return err
	}

	model, err := tui.NewPreview(clip)
	if err != nil {
		return err
	}
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running preview: %w", err)
	}
	return nil
}

// parseSheetName recovers entity and action from a "<entity>_<action>_sheet"
// base name; anything else previews as a looping clip of itself.
func parseSheetName(path string) (entity, action string) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	base = strings.TrimSuffix(base, "_sheet")
	if i := strings.LastIndex(base, "_"); i > 0 {
		return base[:i], base[i+1:]
	}
	return base, anim.ActionIdle
}
