// Copyright (c) 2026 Danmu. All rights reserved.

package schema

// ScraperTable represents 'platform.scraper' — the Scraper setting entity
// (component E's sync target).
type ScraperTable struct {
	Table        string
	ProviderName string
	IsEnabled    string
	DisplayOrder string
	UseProxy     string
}

var Scraper = ScraperTable{
	Table:        "platform.scraper",
	ProviderName: "provider_name",
	IsEnabled:    "is_enabled",
	DisplayOrder: "display_order",
	UseProxy:     "use_proxy",
}

// MetadataSourceTable represents 'platform.metadata_source' (component F).
type MetadataSourceTable struct {
	Table              string
	ProviderName       string
	IsEnabled          string
	IsAuxSearchEnabled string
	DisplayOrder       string
	UseProxy           string
}

var MetadataSource = MetadataSourceTable{
	Table:              "platform.metadata_source",
	ProviderName:       "provider_name",
	IsEnabled:          "is_enabled",
	IsAuxSearchEnabled: "is_aux_search_enabled",
	DisplayOrder:       "display_order",
	UseProxy:           "use_proxy",
}
