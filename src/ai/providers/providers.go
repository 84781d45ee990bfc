// Package providers registers all available generation providers.
package providers

import (
	_ "github.com/entrepreno/entrepreno/src/ai/anthropic"
	_ "github.com/entrepreno/entrepreno/src/ai/openai"
)
