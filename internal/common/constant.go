package common

import "time"

// TokenCookieName is the cookie (and bearer) name carrying the session token.
const TokenCookieName = "token"

// SessionValidity is the default lifetime of an issued session token.
const SessionValidity = 7 * 24 * time.Hour

// DEKSize is the length in bytes of the local data-encryption key.
const DEKSize = 32
