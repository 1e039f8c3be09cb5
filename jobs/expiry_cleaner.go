package jobs

import (
	"context"
	"log"
	"researchhub/services"
	"time"
)

// ExpiryCleaner periodically purges expired one-time codes from the shared
// OTP store.
type ExpiryCleaner struct {
	otpService *services.OTPService
	interval   time.Duration
	logger     *log.Logger
}

func NewExpiryCleaner(otpService *services.OTPService, interval time.Duration) *ExpiryCleaner {
	return &ExpiryCleaner{
		otpService: otpService,
		interval:   interval,
		logger:     log.New(log.Writer(), "[EXPIRY_CLEANER] ", log.LstdFlags),
	}
}

// Start runs the cleanup loop. Call in a goroutine.
func (ec *ExpiryCleaner) Start() {
	ec.logger.Println("Starting expiry cleaner job...")

	// Run cleanup immediately on start
	ec.runCleanup()

	ticker := time.NewTicker(ec.interval)
	defer ticker.Stop()

	for range ticker.C {
		ec.runCleanup()
	}
}

func (ec *ExpiryCleaner) runCleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	purged, err := ec.otpService.PurgeExpired(ctx)
	if err != nil {
		ec.logger.Printf("Error purging expired codes: %v", err)
		return
	}

	if purged > 0 {
		ec.logger.Printf("Purged %d expired codes", purged)
	}
}
