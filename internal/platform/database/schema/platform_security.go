// Copyright (c) 2026 Danmu. All rights reserved.

package schema

// APITokenTable represents 'platform.api_token'.
type APITokenTable struct {
	Table     string
	ID        string
	Name      string
	Token     string
	IsEnabled string
	ExpiresAt string
	CreatedAt string
}

var APIToken = APITokenTable{
	Table:     "platform.api_token",
	ID:        "id",
	Name:      "name",
	Token:     "token",
	IsEnabled: "is_enabled",
	ExpiresAt: "expires_at",
	CreatedAt: "created_at",
}

// UARuleTable represents 'platform.ua_rule' — denylist substring match.
type UARuleTable struct {
	Table    string
	ID       string
	UAString string
}

var UARule = UARuleTable{
	Table:    "platform.ua_rule",
	ID:       "id",
	UAString: "ua_string",
}

// OAuthStateTable represents 'platform.oauth_state' — single-use, row-locked.
type OAuthStateTable struct {
	Table     string
	StateKey  string
	UserID    string
	ExpiresAt string
}

var OAuthState = OAuthStateTable{
	Table:     "platform.oauth_state",
	StateKey:  "state_key",
	UserID:    "user_id",
	ExpiresAt: "expires_at",
}
