// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow around the sky dashboard:
//  1. [DashboardView] : Current location and astronomy snapshot
//  2. [LocationPickerView] : Manual coordinate or place entry
//  3. [FavoritesListView] : Browse and select saved locations
//  4. [DeleteConfirmView] : Confirm favorite removal
//  5. [SettingsView] : Theme, auto-follow and notification toggles
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Synchronization runs execute as tea commands; their outcomes come back as
// messages and are applied on the loop, so pipeline state is only ever touched
// from one goroutine.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
