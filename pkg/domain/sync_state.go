package domain

// SyncState describes the outcome of mirroring a chat's configuration to
// its Google Sheet after a local save.
type SyncState int

const (
	// SyncNotConfigured means the chat has no gsheet_url; nothing was
	// attempted and the conflict flag is left alone.
	SyncNotConfigured SyncState = iota

	// SyncOK means the sheet now matches the local copy.
	SyncOK

	// SyncConflict means the local save succeeded but the sheet write did
	// not; the conflict flag is raised until a later sync clears it.
	SyncConflict
)

func (s SyncState) String() string {
	switch s {
	case SyncOK:
		return "synced"
	case SyncConflict:
		return "conflict"
	default:
		return "not configured"
	}
}
