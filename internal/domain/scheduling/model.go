package scheduling

import (
	"time"

	"github.com/google/uuid"

	"github.com/medcase/backoffice/internal/domain/reference"
)

// Appointment is a scheduled visit for a patient. Doctor, exam and status
// are joined in on reads when the appointment is returned as part of a
// patient projection.
type Appointment struct {
	ID              uuid.UUID  `json:"id"`
	PatientID       uuid.UUID  `json:"patientId"`
	DoctorID        *uuid.UUID `json:"doctorId,omitempty"`
	ExamID          *uuid.UUID `json:"examId,omitempty"`
	StatusID        *uuid.UUID `json:"statusId,omitempty"`
	AppointmentDate *time.Time `json:"appointmentDate,omitempty"`
	AppointmentTime *string    `json:"appointmentTime,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Doctor *reference.Doctor `json:"doctor,omitempty"`
	Exam   *reference.Exam   `json:"exam,omitempty"`
	Status *reference.Status `json:"status,omitempty"`
}
