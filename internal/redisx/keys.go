package redisx

import "time"

const (
	// Cached profile record, the offline bootstrap fallback: profile:{uid}
	KeyProfile = "profile:%s"

	// Push token that could not be registered yet, retried on next start:
	// pushtoken:unsent:{uid}
	KeyUnsentPushToken = "pushtoken:unsent:%s"

	// Bridge event dedup: dedup:bridge:{event_id}
	KeyBridgeDedup = "dedup:bridge:%s"
)

var (
	TTLProfile = 7 * 24 * time.Hour
	TTLDedup   = 48 * time.Hour
)
