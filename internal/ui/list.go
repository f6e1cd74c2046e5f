package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"lunarview/internal/models"
)

var _ list.Item = favoriteItem{}

// favoriteItem wraps [models.FavoriteEntry] to implement [list.Item].
type favoriteItem struct {
	entry models.FavoriteEntry
}

func (i favoriteItem) FilterValue() string { return i.entry.LocationName }
func (i favoriteItem) Title() string       { return i.entry.LocationName }
func (i favoriteItem) Description() string {
	return fmt.Sprintf("%.4f, %.4f", i.entry.Latitude, i.entry.Longitude)
}
