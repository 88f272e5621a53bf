// Package model is the catalog of models each provider is known to serve.
//
// The catalog answers two questions for the rest of the module: which model
// to use when the saved settings leave the model empty, and how much
// "thinking" a Gemini model should be allowed before it starts answering.
// Sculpting wants the rewritten state back quickly, so thinking is kept to the
// minimum each model family accepts.
//
//	name := model.Default("gemini")          // "gemini-2.5-flash"
//	names := model.Known("gemini")           // settings dialog choices
//	level := model.ThinkingFor("gemini-3-pro-preview") // model.ThinkingLow
//
// Model names outside the catalog are passed through untouched; the catalog
// never rejects a model the provider might accept.
package model
