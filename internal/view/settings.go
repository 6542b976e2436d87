package view

import "context"

type settingsKey string

// BasicModeKey marks a request that asked for the no-JavaScript pages.
const BasicModeKey settingsKey = "basicMode"

// IsBasicMode reports whether the request asked for basic mode.
func IsBasicMode(ctx context.Context) bool {
	basic, ok := ctx.Value(BasicModeKey).(bool)
	return ok && basic
}
