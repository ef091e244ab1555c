package reference

import (
	"time"

	"github.com/google/uuid"
)

// Well-known identifiers for rows the provisioner maintains. Creating a
// patient must never fail because the clinic has not seeded its reference
// tables yet, so these rows are created on demand.
var (
	DefaultFacilityID  = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	DefaultPhysicianID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

const (
	DefaultFacilityName  = "Default Facility"
	DefaultPhysicianName = "Unassigned"
)

// Status is a shared workflow state used by patients, procedures and
// appointments.
type Status struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  *string   `json:"category,omitempty"`
	SortOrder *int      `json:"sortOrder,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Payer is an insurance carrier or law firm that funds treatment.
type Payer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	PayerType *string   `json:"payerType,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Address   *string   `json:"address,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Exam is a billable imaging study or treatment type.
type Exam struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Modality    *string   `json:"modality,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Facility is a physical location where procedures are performed.
type Facility struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Address   *string   `json:"address,omitempty"`
	City      *string   `json:"city,omitempty"`
	State     *string   `json:"state,omitempty"`
	Zip       *string   `json:"zip,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Physician is a reading or performing physician assigned to procedures.
type Physician struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Specialty *string   `json:"specialty,omitempty"`
	NPI       *string   `json:"npi,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Doctor is a referring doctor attached to appointments.
type Doctor struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Practice  *string   `json:"practice,omitempty"`
	Phone     *string   `json:"phone,omitempty"`
	Fax       *string   `json:"fax,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
