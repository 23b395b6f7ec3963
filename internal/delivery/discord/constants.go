package discord

import "time"

const (
	verifyButtonID = "verify_account"

	// Settings key for the persisted verification message, so restarts edit
	// the existing message instead of posting a new one.
	verifyMessageKey = "verification_message_id"

	presenceInterval = 10 * time.Second

	// Embed colors
	colorVerify = 0x637B64
	colorGreen  = 0x2ECC71
	colorYellow = 0xF1C40F
)
