package main

import (
	"github.com/spf13/cobra"

	"github.com/KirkDiggler/rpg-combat/internal/entities/combat"
	"github.com/KirkDiggler/rpg-combat/internal/mutation"
	"github.com/KirkDiggler/rpg-combat/internal/orchestrators/initiation"
)

// initiateFile is the scene handed to the initiate command
type initiateFile struct {
	Narrative     string                   `json:"narrative"`
	RecentContext []string                 `json:"recent_context"`
	Party         []*combat.PartyMember    `json:"party"`
	Combatants    []*combat.CombatActor    `json:"combatants"`
	Suggestions   []combat.ActorSuggestion `json:"suggestions"`
}

var initiateTrigger string

var initiateCmd = &cobra.Command{
	Use:   "initiate <scene.json>",
	Short: "Run the combat initiation pipeline for a scene",
	Args:  cobra.ExactArgs(1),
	RunE:  runInitiate,
}

func init() {
	initiateCmd.Flags().StringVar(&initiateTrigger, "trigger", string(initiation.TriggerManual), "manual or narrative")
}

func runInitiate(cmd *cobra.Command, args []string) error {
	var scene initiateFile
	if err := readJSON(args[0], &scene); err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, settings)
	if err != nil {
		return err
	}
	defer a.Close()

	for _, p := range scene.Party {
		if err := a.store.Dispatch(ctx, mutation.AddPartyMember(p)); err != nil {
			return err
		}
	}
	for _, c := range scene.Combatants {
		if err := a.store.Dispatch(ctx, mutation.AddCombatEnemy(c)); err != nil {
			return err
		}
	}

	out, err := a.initiation.InitiateCombat(ctx, &initiation.InitiateCombatInput{
		Narrative:     scene.Narrative,
		Suggestions:   scene.Suggestions,
		Trigger:       initiation.Trigger(initiateTrigger),
		PlayerLevel:   settings.PlayerLevel,
		RecentContext: scene.RecentContext,
	})
	if err != nil {
		return err
	}

	steps := make([]map[string]any, 0, len(out.Steps))
	for _, st := range out.Steps {
		entry := map[string]any{"name": st.Name, "outcome": st.Outcome}
		if st.Err != nil {
			entry["error"] = st.Err.Error()
		}
		steps = append(steps, entry)
	}

	state := a.store.Snapshot()
	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"encounter_id": a.store.EncounterID(),
		"steps":        steps,
		"staged":       out.Staged,
		"transition":   out.Transition,
		"turn_order":   out.TurnOrder,
		"round":        out.Round,
		"combatants":   state.Combatants,
		"messages":     state.Messages,
	})
}
