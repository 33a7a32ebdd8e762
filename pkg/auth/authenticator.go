package auth

import "log/slog"

type authenticator struct {
	ownerID int64
}

// NewAuthenticator guards owner-only operations such as the hosting
// balance report and moderation alerts. A zero ownerID disables them.
func NewAuthenticator(ownerID int64) *authenticator {
	slog.Info("bot owner configured", "ownerID", ownerID)

	return &authenticator{ownerID: ownerID}
}

func (a *authenticator) IsOwner(userID int64) bool {
	return a.ownerID != 0 && userID == a.ownerID
}

func (a *authenticator) OwnerID() int64 {
	return a.ownerID
}
