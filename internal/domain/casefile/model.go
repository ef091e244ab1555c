package casefile

import (
	"time"

	"github.com/google/uuid"
)

// Case is a legal or billing case opened for a patient, typically a
// personal injury claim funded through a payer or law firm.
type Case struct {
	ID           uuid.UUID  `json:"id"`
	PatientID    uuid.UUID  `json:"patientId"`
	CaseNumber   *string    `json:"caseNumber,omitempty"`
	PayerID      *uuid.UUID `json:"payerId,omitempty"`
	AttorneyName *string    `json:"attorneyName,omitempty"`
	OpenedDate   *time.Time `json:"openedDate,omitempty"`
	ClosedDate   *time.Time `json:"closedDate,omitempty"`
	Notes        *string    `json:"notes,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// Event is a timeline entry on a patient's record, optionally tied to a
// case.
type Event struct {
	ID        uuid.UUID  `json:"id"`
	PatientID uuid.UUID  `json:"patientId"`
	CaseID    *uuid.UUID `json:"caseId,omitempty"`
	Title     string     `json:"title"`
	EventDate *time.Time `json:"eventDate,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}
