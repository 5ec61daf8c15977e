// Package events contains message types shared between the web and tui packages.
package events

import "skillview/internal/catalog"

// CatalogRefreshedMsg is sent by the web server after an API-triggered rescan.
type CatalogRefreshedMsg struct {
	Entries []catalog.Entry
}

// UsageChangedMsg is sent by the web server after a usage counter changed.
type UsageChangedMsg struct {
	ID    string
	Count int
}

// WebListenURLMsg is sent when the web server starts listening.
type WebListenURLMsg struct{ URL string }
