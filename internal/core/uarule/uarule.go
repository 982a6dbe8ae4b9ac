// Copyright (c) 2026 Danmu. All rights reserved.

/*
Package uarule defines the UARule entity: a substring pattern matched
against an inbound request's User-Agent header. Any match denies the
request before it reaches a handler — a blunt tool for blocking known
scraper/bot clients without touching the API-token allowlist.
*/
package uarule

// UARule is one denylisted User-Agent substring.
type UARule struct {
	ID       int64  `json:"id"`
	UAString string `json:"ua_string"`
}

// # Field Identifiers

const (
	FieldID       = "id"
	FieldUAString = "ua_string"
)
