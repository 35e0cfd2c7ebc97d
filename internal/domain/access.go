package domain

// AccessPhase is the poller state for the current subject.
type AccessPhase string

const (
	AccessIdle     AccessPhase = "idle"
	AccessChecking AccessPhase = "checking"
	AccessAllowed  AccessPhase = "allowed"
	AccessRevoked  AccessPhase = "revoked"
)

type AccessState struct {
	SubjectID          string      `json:"subject_id"`
	HasAccess          bool        `json:"has_access"`
	IsPrivileged       bool        `json:"is_privileged"`
	LastObservedAccess bool        `json:"last_observed_access"`
	Initialized        bool        `json:"initialized"`
	Phase              AccessPhase `json:"phase"`
}

// RemoteAccess is what the backend reports for a subject.
type RemoteAccess struct {
	RemoteFlag bool
	SubjectKey string
}
