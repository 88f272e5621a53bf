// Package providers registers all sculpt backends.
// Import this package to make every backend available via provider.New():
//
//	import _ "github.com/randalmurphal/sculpt/providers"
package providers

import (
	_ "github.com/randalmurphal/sculpt/gemini"
	_ "github.com/randalmurphal/sculpt/mock"
	_ "github.com/randalmurphal/sculpt/openai"
)
