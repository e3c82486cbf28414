package config

import "time"

// OTP and password rules enforced locally before any request is sent
const (
	OTPLength         = 6
	MinPasswordLength = 6
)

// Per-call timeouts for background work
const (
	HistoryFetchTimeout = 10 * time.Second
	StoreWriteTimeout   = 5 * time.Second
)
