package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "scootal"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort = "8080"

	DefaultLogLevel = "info"

	DefaultOnboardingReturnURL  = "https://scootal.app/onboarding/return"
	DefaultOnboardingRefreshURL = "https://scootal.app/onboarding/refresh"

	DefaultBookingEventTopic = "scootal.bookings"

	DefaultRateLimitRequests = 10
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultBookingRequestTTL   = 24 * time.Hour
	DefaultExpirySweepInterval = 5 * time.Minute

	DefaultMaxCodeAttempts = 5

	DefaultDefaultTimeZone = "America/New_York"

	DefaultPaginationLimit = 100
)
