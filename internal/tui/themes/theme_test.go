package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetTheme(t *testing.T) {
	assert.Equal(t, CatppuccinMocha.Primary, GetTheme("catppuccin-mocha").Primary)
	assert.Equal(t, Default.Primary, GetTheme("").Primary)
	assert.Equal(t, Default.Primary, GetTheme("no-such-theme").Primary)
}

func TestGetCategoryIcon(t *testing.T) {
	assert.Equal(t, "🍕", GetCategoryIcon("Food"))
	assert.Equal(t, "❔", GetCategoryIcon("Unknown"))
	assert.Equal(t, "📦", GetCategoryIcon("Legacy Imports"))
}
