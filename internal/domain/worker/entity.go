package worker

import "time"

// Role determines which site operations a worker may perform.
type Role string

const (
	RoleWorker     Role = "worker"
	RoleSupervisor Role = "supervisor"
)

func (r Role) Valid() bool {
	return r == RoleWorker || r == RoleSupervisor
}

// Worker is a site employee identity. CRUD lives outside this service; the
// core only reads workers for login and notification addressing.
type Worker struct {
	ID        string
	Code      string // badge code, e.g. "0001-0042"
	FullName  string
	PINHash   string
	Role      Role
	ProjectID string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
