package config

import "github.com/Deep-ai-inc/nexus-sub000/pkg/layout"

// PanelPreset names the panes a layout preset splits the terminal into and
// the constraint each pane is given, in order, along the given direction.
// pkg/app passes these straight to layout.NewLayout to produce the panel
// split for a frame.
type PanelPreset struct {
	Direction   layout.Direction
	Panes       []string
	Constraints []layout.Constraint
}

// Preset returns the named panel split, falling back to "default" for an
// unrecognized name.
func Preset(name string) PanelPreset {
	switch name {
	case "focus-shell":
		return focusShellPreset()
	case "focus-agent":
		return focusAgentPreset()
	case "default":
		return defaultPreset()
	default:
		return defaultPreset()
	}
}

// defaultPreset splits the terminal into a history pane and an agent pane,
// history taking most of the width, with a one-line input bar pinned to the
// bottom of the whole frame (handled by pkg/app, not this split).
//
//	[ history : agent ] = 2fr : 1fr
func defaultPreset() PanelPreset {
	return PanelPreset{
		Direction: layout.Horizontal,
		Panes:     []string{"history", "agent"},
		Constraints: []layout.Constraint{
			layout.Fill{Weight: 2},
			layout.Fill{Weight: 1},
		},
	}
}

// focusShellPreset hides the agent panel entirely.
func focusShellPreset() PanelPreset {
	return PanelPreset{
		Direction:   layout.Horizontal,
		Panes:       []string{"history"},
		Constraints: []layout.Constraint{layout.Fill{Weight: 1}},
	}
}

// focusAgentPreset gives the agent panel a fixed minimum width and lets the
// history pane take the remainder.
func focusAgentPreset() PanelPreset {
	return PanelPreset{
		Direction: layout.Horizontal,
		Panes:     []string{"history", "agent"},
		Constraints: []layout.Constraint{
			layout.Fill{Weight: 1},
			layout.Min{Value: 40},
		},
	}
}
