// Package sculpt rewrites a text buffer one natural-language instruction at a
// time.
//
// The buffer (the "state") and an instruction go to a generative model in a
// single request. The reply streams back and replaces the state as it
// arrives, so the buffer visibly reshapes itself. Nothing else is kept: the
// next instruction works on whatever the state holds now.
//
// The module is split so each piece can be used on its own:
//
//   - provider: the streaming backend contract, config and error kinds
//   - gemini, openai, mock: backends, registered by importing providers
//   - engine: one sculpt at a time over two buffer.View surfaces
//   - settings: persisted provider config (memory or TOML/YAML file)
//   - tokens: running token tallies and throughput
//   - metrics: Prometheus collectors for sculpt outcomes
//   - tui: the two-panel terminal editor
//
// # Quick Start
//
// Headless, from Go:
//
//	import (
//	    "github.com/randalmurphal/sculpt/buffer"
//	    "github.com/randalmurphal/sculpt/engine"
//	    _ "github.com/randalmurphal/sculpt/providers"
//	    "github.com/randalmurphal/sculpt/settings"
//	)
//
//	state := buffer.NewText("func add(a, b int) int { return a + b }")
//	instr := buffer.NewText("add a doc comment")
//	eng := engine.New(state, instr, settings.NewMemoryStore())
//	res, _ := eng.Sculpt(ctx)
//	fmt.Println(res.FinalState)
//
// From the shell, cmd/sculpt opens the editor, and `sculpt run` applies a
// single instruction to a file.
package sculpt
