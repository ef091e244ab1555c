package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/medcase/backoffice/internal/domain/reference"
	"github.com/medcase/backoffice/internal/domain/scheduling"
)

// Patient is the aggregate root of the back office. Reads return it with
// procedures, appointments and joined reference rows attached; writes only
// touch the scalar columns plus, on create, the procedure rows.
type Patient struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"firstName"`
	LastName    string     `json:"lastName"`
	MiddleName  *string    `json:"middleName,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Email       *string    `json:"email,omitempty"`
	Address     *string    `json:"address,omitempty"`
	City        *string    `json:"city,omitempty"`
	State       *string    `json:"state,omitempty"`
	Zip         *string    `json:"zip,omitempty"`
	OrderDate   *time.Time `json:"orderDate,omitempty"`
	StatusID    *uuid.UUID `json:"statusId,omitempty"`
	PayerID     *uuid.UUID `json:"payerId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// FullName is derived on read, never stored.
	FullName string `json:"fullName,omitempty"`

	Status       *reference.Status         `json:"status,omitempty"`
	Payer        *reference.Payer          `json:"payer,omitempty"`
	Procedures   []*Procedure              `json:"procedures"`
	Appointments []*scheduling.Appointment `json:"appointments"`
}

// DisplayName renders the "last, first" form used in lists.
func (p *Patient) DisplayName() string {
	return p.LastName + ", " + p.FirstName
}

// Procedure is an ordered exam for a patient. Facility and physician are
// mandatory columns; when a client omits them the defaults provisioned by
// the reference package are substituted.
type Procedure struct {
	ID           uuid.UUID  `json:"id"`
	PatientID    uuid.UUID  `json:"patientId"`
	ExamID       uuid.UUID  `json:"examId"`
	StatusID     uuid.UUID  `json:"statusId"`
	FacilityID   uuid.UUID  `json:"facilityId"`
	PhysicianID  uuid.UUID  `json:"physicianId"`
	ScheduleDate *time.Time `json:"scheduleDate,omitempty"`
	ScheduleTime *string    `json:"scheduleTime,omitempty"`
	LOP          *string    `json:"lop,omitempty"`
	IsCompleted  bool       `json:"isCompleted"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Exam      *reference.Exam      `json:"exam,omitempty"`
	Status    *reference.Status    `json:"status,omitempty"`
	Facility  *reference.Facility  `json:"facility,omitempty"`
	Physician *reference.Physician `json:"physician,omitempty"`
}
