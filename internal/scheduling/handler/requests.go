package handler

import (
	"github.com/asaskevich/govalidator"
	"github.com/google/uuid"

	"chronoplan/internal/scheduling/service"
	dErrors "chronoplan/pkg/domain-errors"
)

// eventRequest is the full replacement field set accepted by create and
// update. Start and end are wall-clock values (datetime-local format) in the
// named timezone; the server owns normalization to UTC.
type eventRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	StartTime   string      `json:"start_time"`
	EndTime     string      `json:"end_time"`
	Timezone    string      `json:"timezone"`
	ProfileIDs  []uuid.UUID `json:"profile_ids"`
}

// validate covers shape only; semantic checks (zone known, ids resolvable)
// belong to the service.
func (r eventRequest) validate() error {
	if !govalidator.StringLength(r.Title, "1", "255") {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if r.StartTime == "" || r.EndTime == "" {
		return dErrors.New(dErrors.CodeValidation, "start_time and end_time are required")
	}
	if r.Timezone == "" {
		return dErrors.New(dErrors.CodeValidation, "timezone is required")
	}
	if len(r.ProfileIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "profile_ids must not be empty")
	}
	return nil
}

func (r eventRequest) toInput() service.EventInput {
	return service.EventInput{
		Title:       r.Title,
		Description: r.Description,
		StartLocal:  r.StartTime,
		EndLocal:    r.EndTime,
		Timezone:    r.Timezone,
		ProfileIDs:  r.ProfileIDs,
	}
}

type createProfileRequest struct {
	Name string `json:"name"`
}

func (r createProfileRequest) validate() error {
	if !govalidator.StringLength(r.Name, "1", "255") {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	return nil
}
