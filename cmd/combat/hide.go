package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-combat/internal/engine/stealth"
	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
)

// hideFile holds the party and whoever might spot them
type hideFile struct {
	Party     []*combat.PartyMember `json:"party"`
	Observers []*combat.CombatActor `json:"observers"`
}

var hideDuration int

var hideCmd = &cobra.Command{
	Use:   "hide <scene.json>",
	Short: "Attempt to hide the party from hostile observers",
	Args:  cobra.ExactArgs(1),
	RunE:  runHide,
}

func init() {
	hideCmd.Flags().IntVar(&hideDuration, "duration", 10, "rounds the Invisible status lasts")
}

func runHide(cmd *cobra.Command, args []string) error {
	var scene hideFile
	if err := readJSON(args[0], &scene); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, settings)
	if err != nil {
		return err
	}
	defer a.Close()

	out, err := a.stealth.AttemptHide(ctx, &stealth.HideInput{
		Party:     scene.Party,
		Observers: stealth.ObserversFrom(scene.Observers),
		Duration:  hideDuration,
	})
	if err != nil {
		return err
	}

	return writeJSON(cmd.OutOrStdout(), out)
}
