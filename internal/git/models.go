package git

// RemoteRelation describes where the remote's history stands relative to
// the local checkout.
type RemoteRelation string

const (
	RelationUnknown  RemoteRelation = "unknown"
	RelationDiverged RemoteRelation = "diverged"
	RelationUpdated  RemoteRelation = "updated"
)

// Status is one incremental update emitted during a synchronization run.
// Nil fields carry no information; only the set fields changed.
type Status struct {
	IsOffline       *bool           `json:"is_offline,omitempty"`
	IsPulling       *bool           `json:"is_pulling,omitempty"`
	IsPushing       *bool           `json:"is_pushing,omitempty"`
	HasLocalChanges *bool           `json:"has_local_changes,omitempty"`
	NeedsPassword   *bool           `json:"needs_password,omitempty"`
	IsMisconfigured *bool           `json:"is_misconfigured,omitempty"`
	RelativeToLocal *RemoteRelation `json:"status_relative_to_local,omitempty"`
}

// Outcome is the terminal state of one Synchronize run.
type Outcome string

const (
	OutcomeUpdated       Outcome = "updated"
	OutcomeLocalChanges  Outcome = "local-changes"
	OutcomeOffline       Outcome = "offline"
	OutcomeNeedsPassword Outcome = "needs-password"
	OutcomeDiverged      Outcome = "diverged"
	OutcomeError         Outcome = "error"
)

// Signature is a commit author identity.
type Signature struct {
	Name  string
	Email string
}

func (s Signature) empty() bool {
	return s.Name == "" && s.Email == ""
}
