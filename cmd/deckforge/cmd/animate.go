package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/avaldr/deckforge/internal/anim"
)

var (
	animateActions []string
	animateFrames  int
	animatePrompt  string
)

var animateCmd = &cobra.Command{
	Use:   "animate <entity>",
	Short: "Generate animation sprite sheets for an entity",
	Long: `Generate one horizontal sprite sheet per action for the given entity.

Each frame is generated independently with a pose descriptor for its point
in the action plus a frame-position marker; the frames are then assembled
at the configured cell size and written to the sheet directory with a
metadata sidecar.

Examples:
  deckforge animate goblin --prompt "small green goblin with a wooden club"
  deckforge animate knight --actions attack,death --frames 16`,
	Args: cobra.ExactArgs(1),
	RunE: runAnimate,
}

func init() {
	rootCmd.AddCommand(animateCmd)

	animateCmd.Flags().StringSliceVar(&animateActions, "actions", []string{
		anim.ActionIdle, anim.ActionAttack, anim.ActionCast, anim.ActionHurt, anim.ActionDeath,
	}, "actions to generate")
	animateCmd.Flags().IntVar(&animateFrames, "frames", 0, "frames per clip (0 uses each action's default)")
	animateCmd.Flags().StringVar(&animatePrompt, "prompt", "", "base character description (defaults to the entity name)")
}

func runAnimate(cmd *cobra.Command, args []string) error {
	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer p.Close()

	entity := args[0]
	for _, action := range animateActions {
		sh, err := p.orch.GenerateClip(cmd.Context(), entity, animatePrompt, action, animateFrames)
		if err != nil {
			return err
		}

		path, err := p.orch.SaveClip(sh, entity, action)
		if err != nil {
			return err
		}
		fmt.Printf("%s: %d frames -> %s\n", action, sh.FrameCount, path)
	}
	return nil
}
