// Package logger builds *slog.Logger instances with functional options and
// provides attribute helpers that keep key names consistent across the kit.
//
// New picks a handler for the configured Format: the standard JSON or text
// handlers, or a colourised terminal handler backed by charmbracelet/log for
// FormatPretty. The resulting handler is wrapped by ContextHandler, which runs
// registered ContextExtractor callbacks on every record so values carried by a
// context.Context (for example the current run id of a machine) are logged
// without threading them through every call.
//
// # Usage
//
//	log := logger.New(
//	    logger.WithEnvironment("development", "checkout-flow"),
//	    logger.WithContextExtractors(machine.RunIDExtractor),
//	)
//
//	log.WarnContext(ctx, "transition rejected",
//	    logger.StateID("payment"),
//	    logger.Hook("Entry"),
//	    logger.Error(err),
//	)
//
// # Attributes
//
// Error and Errors return an empty attribute for nil errors, so callers can
// pass them unconditionally. StateID and RunID do the same for empty strings.
package logger
