package domain

// Session is the short-lived, in-memory dialog state of one user's private
// chat with the bot. It is never persisted.
type Session struct {
	// AwaitingSheetURL marks that the next PM text is expected to be the
	// Google Sheet URL for TargetChatID.
	AwaitingSheetURL bool
	TargetChatID     int64

	// PendingQuestion holds the last question the user asked in PM, kept
	// around until they decide whether to relay it anonymously.
	PendingQuestion string
	OriginChatID    int64
}
