package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-combat/internal/engine/staging"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/repositories/registry"
)

var stageCmd = &cobra.Command{
	Use:   "stage <suggestions.json>",
	Short: "Stage actor suggestions into combatants",
	Long:  `Reads a JSON array of actor suggestions and prints the staged combatants.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runStage,
}

func runStage(cmd *cobra.Command, args []string) error {
	var suggestions []combat.ActorSuggestion
	if err := readJSON(args[0], &suggestions); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, settings)
	if err != nil {
		return err
	}
	defer a.Close()

	known, err := a.registry.List(ctx, &registry.ListInput{})
	if err != nil {
		return err
	}

	out, err := a.staging.Stage(ctx, &staging.StageInput{
		Suggestions: suggestions,
		Registry:    known.Entries,
		PlayerLevel: settings.PlayerLevel,
	})
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"actors":  out.Actors,
		"skipped": out.Skipped,
	})
}
