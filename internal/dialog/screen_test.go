package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rcliao/village-market/internal/model"
)

func TestFormatListWithoutRecent(t *testing.T) {
	s := FormatList("Riders:", []model.Listing{{Name: "Boda King", Village: "Sega", Phone: "254700000003"}}, false)
	assert.Equal(t, "CON Riders:\n1. Boda King (Sega)\n   Call: 254700000003\n0. Back", s.String())
	assert.False(t, s.End)

	empty := FormatList("Riders:", nil, false)
	assert.Equal(t, "CON Riders:\nNo listings yet.\n0. Back", empty.String())
}

func TestRecentScreen(t *testing.T) {
	s := RecentScreen([]string{"254700000001", "254700000002"})
	assert.Equal(t, "CON Recent numbers (this session):\n1. 254700000001\n2. 254700000002\n0. Back", s.String())
}

func TestTerminalScreens(t *testing.T) {
	assert.Equal(t, "END Cancelled.", cancelledScreen.String())
	assert.True(t, UnavailableScreen.End)
}
