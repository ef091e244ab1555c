package reference

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ErrProvisioning is returned when a default reference row can neither be
// found nor created and no existing row can stand in for it.
var ErrProvisioning = errors.New("reference provisioning failed")

// Provisioner guarantees that a usable facility and physician exist before a
// patient write begins. It runs outside the write transaction so a
// provisioned row survives even when the patient insert later rolls back.
type Provisioner struct {
	facilities FacilityRepository
	physicians PhysicianRepository
	log        zerolog.Logger
}

func NewProvisioner(facilities FacilityRepository, physicians PhysicianRepository, log zerolog.Logger) *Provisioner {
	return &Provisioner{facilities: facilities, physicians: physicians, log: log}
}

// EnsureDefaultFacility returns the id of the well-known default facility,
// creating it when absent. If the create races another writer or fails for
// any reason, any active facility is adopted instead.
func (p *Provisioner) EnsureDefaultFacility(ctx context.Context) (uuid.UUID, error) {
	if f, err := p.facilities.GetByID(ctx, DefaultFacilityID); err == nil {
		return f.ID, nil
	}

	f := &Facility{ID: DefaultFacilityID, Name: DefaultFacilityName, Active: true}
	err := p.facilities.Create(ctx, f)
	if err == nil {
		p.log.Info().Str("facility_id", f.ID.String()).Msg("provisioned default facility")
		return f.ID, nil
	}
	p.log.Warn().Err(err).Msg("default facility create failed, adopting existing facility")

	if alt, err := p.facilities.FirstActive(ctx); err == nil {
		return alt.ID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: no usable facility", ErrProvisioning)
}

// EnsureDefaultPhysician mirrors EnsureDefaultFacility for the physician
// assigned to procedures created without one.
func (p *Provisioner) EnsureDefaultPhysician(ctx context.Context) (uuid.UUID, error) {
	if ph, err := p.physicians.GetByID(ctx, DefaultPhysicianID); err == nil {
		return ph.ID, nil
	}

	ph := &Physician{ID: DefaultPhysicianID, Name: DefaultPhysicianName, Active: true}
	err := p.physicians.Create(ctx, ph)
	if err == nil {
		p.log.Info().Str("physician_id", ph.ID.String()).Msg("provisioned default physician")
		return ph.ID, nil
	}
	p.log.Warn().Err(err).Msg("default physician create failed, adopting existing physician")

	if alt, err := p.physicians.FirstActive(ctx); err == nil {
		return alt.ID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: no usable physician", ErrProvisioning)
}
