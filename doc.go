// Package fsmkit assembles a state machine runtime with its logging, metrics
// and event plumbing from a single configuration.
//
// The runtime itself lives in pkg/machine and can be used on its own. This
// package is the convenient entry point for applications:
//
//	cfg, err := fsmkit.LoadConfig(
//		fsmkit.WithConfigFile("fsm.yaml"),
//		fsmkit.WithEnvFiles(".env"),
//	)
//	if err != nil {
//		return err
//	}
//
//	kit, err := fsmkit.New(cfg)
//	if err != nil {
//		return err
//	}
//	defer kit.Close()
//
//	kit.Machine.
//		Register(&MenuState{}, "menu").
//		Register(&GameState{}, "game")
//
//	if err := kit.Machine.Start("menu"); err != nil {
//		return err
//	}
//
//	http.Handle("/metrics", kit.MetricsHandler())
//
// Environment variables:
//
//	FSM_DONT_SWITCH_TO_SAME_STATE   skip transitions to the active state
//	FSM_HOOK_TIMEOUT                bound Entry and Exit, e.g. "5s"
//	LOG_ENV, LOG_SERVICE            logger defaults and service attribute
//	LOG_LEVEL, LOG_FORMAT           override level (debug, info, ...) and format (json, text, pretty)
//	METRICS_ENABLED, METRICS_NAMESPACE
//	EVENTS_ENABLED, EVENTS_BUFFER_SIZE
package fsmkit
