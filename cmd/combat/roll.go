package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-combat/internal/engine/dice"
	"github.com/KirkDiggler/rpg-combat/internal/errors"
)

var (
	rollType  string
	rollCheck string
	rollDC    int
	rollBonus int
	rollMode  string
	rollCount int
)

var rollCmd = &cobra.Command{
	Use:   "roll [notation]",
	Short: "Resolve a roll through the dice pipeline",
	Long: `Rolls a check, save or attack for --count rollers, or a damage or
healing roll from dice notation such as 2d6+3.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoll,
}

func init() {
	rollCmd.Flags().StringVar(&rollType, "type", string(dice.RollTypeAbilityCheck), "roll type")
	rollCmd.Flags().StringVar(&rollCheck, "check", "", "check name used for grouping")
	rollCmd.Flags().IntVar(&rollDC, "dc", 0, "difficulty class; zero leaves the check unresolved")
	rollCmd.Flags().IntVar(&rollBonus, "bonus", 0, "modifier added to each d20")
	rollCmd.Flags().StringVar(&rollMode, "mode", string(dice.ModeNormal), "normal, advantage or disadvantage")
	rollCmd.Flags().IntVar(&rollCount, "count", 1, "number of rollers making the same check")
}

func buildRollRequests(args []string) ([]dice.RollRequest, error) {
	t := dice.RollType(rollType)
	if t.IsEffect() {
		if len(args) == 0 {
			return nil, errors.InvalidArgumentf("%s needs dice notation", t)
		}
		if _, err := dice.ParseNotation(args[0]); err != nil {
			return nil, err
		}
		return []dice.RollRequest{{RollerName: "cli", Type: t, Notation: args[0]}}, nil
	}

	if rollCount < 1 {
		return nil, errors.InvalidArgument("count must be at least 1")
	}

	var dc *int
	if rollDC > 0 {
		dc = &rollDC
	}

	requests := make([]dice.RollRequest, 0, rollCount)
	for i := 0; i < rollCount; i++ {
		requests = append(requests, dice.RollRequest{
			RollerName: "cli",
			Type:       t,
			CheckName:  rollCheck,
			DC:         dc,
			Mode:       dice.Mode(rollMode),
			Bonus:      rollBonus,
		})
	}
	return requests, nil
}

func runRoll(cmd *cobra.Command, args []string) error {
	requests, err := buildRollRequests(args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, settings)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.pipeline.Resolve(ctx, &dice.ResolveInput{Requests: requests})
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"rolls":  out.Rolls,
		"groups": out.GroupOutcomes,
	})
}
