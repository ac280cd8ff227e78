package visit

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a visit.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var validStatuses = map[Status]bool{
	StatusOpen:       true,
	StatusInProgress: true,
	StatusCompleted:  true,
	StatusCancelled:  true,
}

// ValidStatus reports whether s is a known visit status.
func ValidStatus(s Status) bool { return validStatuses[s] }

// Visit maps to the patient_visits table. Visits are never deleted; a
// cancelled or completed status is the end of the lifecycle.
type Visit struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	VisitDate      time.Time  `db:"visit_date" json:"visit_date"`
	Status         Status     `db:"status" json:"status"`
	ChiefComplaint *string    `db:"chief_complaint" json:"chief_complaint,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedBy      uuid.UUID  `db:"created_by" json:"created_by"`
	UpdatedBy      *uuid.UUID `db:"updated_by" json:"updated_by,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// IsOpen reports whether the visit still accepts assessments and content
// amendments.
func (v *Visit) IsOpen() bool {
	return v.Status == StatusOpen || v.Status == StatusInProgress
}

// StatusHistory maps to the visit_status_history table. One row is recorded
// per applied transition.
type StatusHistory struct {
	ID         uuid.UUID `db:"id" json:"id"`
	VisitID    uuid.UUID `db:"visit_id" json:"visit_id"`
	FromStatus Status    `db:"from_status" json:"from_status"`
	ToStatus   Status    `db:"to_status" json:"to_status"`
	ChangedBy  uuid.UUID `db:"changed_by" json:"changed_by"`
	ChangedAt  time.Time `db:"changed_at" json:"changed_at"`
}

// Actor is the acting user identity passed explicitly into every engine
// call.
type Actor struct {
	ID   uuid.UUID
	Role string
}
