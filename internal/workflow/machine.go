// Package workflow holds the status lifecycles of teachers, requests and appointments.
package workflow

import (
	"errors"
	"fmt"
	"strings"

	"github.com/noah-isme/tuteur-adom-api/internal/models"
)

var (
	// ErrUnknownStatus is returned for labels outside an entity's status set.
	ErrUnknownStatus = errors.New("unknown status")
	// ErrTransitionNotAllowed is returned in strict mode for moves missing from the table.
	ErrTransitionNotAllowed = errors.New("status transition not allowed")
)

// Machine is the closed status set of one entity plus an optional transition table.
// Without strict mode every status may be set from every other status.
type Machine[S ~string] struct {
	entity string
	states []S
	edges  map[S][]S
	strict bool
}

// NewMachine builds a permissive machine.
func NewMachine[S ~string](entity string, states []S, edges map[S][]S) Machine[S] {
	return Machine[S]{entity: entity, states: states, edges: edges}
}

// Strict returns a copy that enforces the transition table.
func (m Machine[S]) Strict(strict bool) Machine[S] {
	m.strict = strict
	return m
}

// Entity names what the machine governs.
func (m Machine[S]) Entity() string {
	return m.entity
}

// Parse matches label case-insensitively against the status set.
func (m Machine[S]) Parse(label string) (S, error) {
	candidate := S(strings.ToUpper(strings.TrimSpace(label)))
	for _, s := range m.states {
		if s == candidate {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w %q for %s, expected one of %s", ErrUnknownStatus, label, m.entity, m.allowed())
}

// Relabel resolves label and checks the move from current. Setting the current
// status again is always accepted.
func (m Machine[S]) Relabel(current S, label string) (S, error) {
	next, err := m.Parse(label)
	if err != nil {
		return "", err
	}
	if !m.strict || next == current {
		return next, nil
	}
	for _, allowed := range m.edges[current] {
		if allowed == next {
			return next, nil
		}
	}
	return "", fmt.Errorf("%w: %s %s -> %s", ErrTransitionNotAllowed, m.entity, current, next)
}

func (m Machine[S]) allowed() string {
	parts := make([]string, len(m.states))
	for i, s := range m.states {
		parts[i] = string(s)
	}
	return strings.Join(parts, ", ")
}

// Lifecycles used by the booking services.
var (
	TeacherVetting = NewMachine(models.AuditEntityTeacher, models.TeacherStatuses, map[models.TeacherStatus][]models.TeacherStatus{
		models.TeacherPending:   {models.TeacherActive, models.TeacherSuspended},
		models.TeacherActive:    {models.TeacherSuspended},
		models.TeacherSuspended: {models.TeacherActive},
	})

	RequestLifecycle = NewMachine(models.AuditEntityRequest, models.RequestStatuses, map[models.RequestStatus][]models.RequestStatus{
		models.RequestPending: {models.RequestApproved, models.RequestRejected},
	})

	AppointmentLifecycle = NewMachine(models.AuditEntityAppointment, models.AppointmentStatuses, map[models.AppointmentStatus][]models.AppointmentStatus{
		models.AppointmentScheduled: {models.AppointmentCompleted, models.AppointmentCancelled},
	})
)
