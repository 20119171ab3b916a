// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// COLOR DEFINITION TESTS
// =============================================================================

func TestAdaptiveColorsHaveBothVariants(t *testing.T) {
	colors := []struct {
		name  string
		color lipgloss.AdaptiveColor
	}{
		{"Indigo", Indigo},
		{"Cyan", Cyan},
		{"Emerald", Emerald},
		{"Amber", Amber},
		{"Rose", Rose},
		{"TextPrimary", TextPrimary},
		{"UserBubbleBg", UserBubbleBg},
		{"AssistantBubbleBorder", AssistantBubbleBorder},
		{"CardBg", CardBg},
	}

	for _, c := range colors {
		if c.color.Light == "" || c.color.Dark == "" {
			t.Errorf("%s should define both light and dark variants", c.name)
		}
		if c.color.Light == c.color.Dark {
			t.Errorf("%s uses the same value for light and dark", c.name)
		}
	}
}

func TestStatusIndicatorsAreASCII(t *testing.T) {
	for _, s := range []string{
		StatusIndicators.Success,
		StatusIndicators.Error,
		StatusIndicators.Pending,
		StatusIndicators.Active,
	} {
		for _, r := range s {
			if r > 127 {
				t.Errorf("indicator %q is not ASCII", s)
			}
		}
	}
}
