package logging

const (
	// FieldComponent is the standardized structured logging key for component names.
	FieldComponent = "component"
	// FieldRunID identifies one matching run across log lines and the results store.
	FieldRunID = "run_id"
	// FieldGame is the catalog game name being matched.
	FieldGame = "game"
	// FieldSteamAppID is the catalog's Steam app id for the game.
	FieldSteamAppID = "steam_app_id"
	// FieldRow is the 1-based catalog data row.
	FieldRow = "row"
	// FieldQuery is the name actually sent to the remote search.
	FieldQuery = "query"
	// FieldOutcome is the match outcome kind.
	FieldOutcome = "outcome"
	// FieldGroupID is the remote torrent group identifier.
	FieldGroupID = "group_id"
	// FieldEventType classifies warnings and errors for filtering.
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the operator.
	FieldErrorHint = "error_hint"
	// FieldImpact is the standardized key for user-facing consequence of a warning.
	FieldImpact = "impact"
)
