// Package errors provides the structured error type used across rpg-combat.
//
// Errors carry a Code, a user-facing Message, an optional Cause and metadata:
//
//	err := errors.NotFound("registry entry not found").
//	    WithMeta("npc_id", id)
//
// Wrapping keeps the code of the wrapped error:
//
//	if err := repo.Save(ctx, entry); err != nil {
//	    return errors.Wrap(err, "failed to register npc")
//	}
//
// # Degraded paths
//
// The encounter core never aborts combat start because a collaborator failed.
// Callers decide between degrading and aborting with IsRecoverable:
//
//	out, err := narrator.ResolveAlignments(ctx, input)
//	if errors.IsRecoverable(err) {
//	    slog.Warn("alignment resolution skipped", "error", err)
//	}
//
// Contradictory reference or actor data is reported with Configuration and is
// never recoverable.
//
// # Validation
//
// Every Config.Validate uses the builder:
//
//	vb := errors.NewValidationBuilder()
//	if c.Roller == nil {
//	    vb.RequiredField("Roller")
//	}
//	return vb.Build()
package errors
