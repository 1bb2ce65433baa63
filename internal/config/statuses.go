package config

import (
	"fmt"
	"strings"
	"time"

	"venuebooking/internal/domain"
	"venuebooking/internal/pkg/timeslot"
)

const (
	defaultReservationStatuses = "creada:created,en_proceso:in_review,aprobada:approved,rechazada:rejected,cancelada:cancelled"
	defaultRoleSynonyms        = "administrador:admin,administrator:admin,admin:admin,supervisor:supervisor,usuario:requester,user:requester,solicitante:requester,requester:requester"
	defaultSlotStarts          = "08:00,10:00,12:00,14:00,16:00,18:00"
	defaultSlotWidth           = "2h"
)

// LoadStatusCatalog reads RESERVATION_STATUSES and RESERVATION_INITIAL_STATUS.
// The initial status has no default.
func LoadStatusCatalog() (*domain.StatusCatalog, error) {
	return ParseStatusCatalog(
		getEnv("RESERVATION_STATUSES", defaultReservationStatuses),
		getEnv("RESERVATION_INITIAL_STATUS", ""),
	)
}

func ParseStatusCatalog(raw, initial string) (*domain.StatusCatalog, error) {
	pairs, err := splitPairs("RESERVATION_STATUSES", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	statuses := make([]domain.Status, 0, len(pairs))
	for _, p := range pairs {
		kind, ok := domain.ParseStatusKind(p[1])
		if !ok {
			return nil, fmt.Errorf("%w: status %q has unknown kind %q", domain.ErrConfiguration, p[0], p[1])
		}
		statuses = append(statuses, domain.Status{Label: p[0], Kind: kind})
	}
	return domain.NewStatusCatalog(statuses, initial)
}

// RoleMap normalizes raw stored role strings to canonical roles.
type RoleMap map[string]domain.Role

func ParseRoleSynonyms(raw string) (RoleMap, error) {
	pairs, err := splitPairs("ROLE_SYNONYMS", raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	m := make(RoleMap, len(pairs))
	for _, p := range pairs {
		role := domain.Role(strings.ToLower(p[1]))
		if !role.Valid() {
			return nil, fmt.Errorf("%w: role synonym %q maps to unknown role %q", domain.ErrConfiguration, p[0], p[1])
		}
		m[strings.ToLower(p[0])] = role
	}
	return m, nil
}

func DefaultRoles() RoleMap {
	m, err := ParseRoleSynonyms(defaultRoleSynonyms)
	if err != nil {
		panic(err)
	}
	return m
}

// Normalize returns false for roles nobody mapped; callers treat those as
// having no privileges.
func (m RoleMap) Normalize(raw string) (domain.Role, bool) {
	role, ok := m[strings.ToLower(strings.TrimSpace(raw))]
	return role, ok
}

// Synonyms lists every raw string that maps to role.
func (m RoleMap) Synonyms(role domain.Role) []string {
	var out []string
	for raw, r := range m {
		if r == role {
			out = append(out, raw)
		}
	}
	return out
}

func ParseSlotCatalog(starts, width string) (timeslot.Catalog, error) {
	w, err := time.ParseDuration(strings.TrimSpace(width))
	if err != nil {
		return timeslot.Catalog{}, fmt.Errorf("%w: invalid SLOT_WIDTH %q", domain.ErrConfiguration, width)
	}

	var clocks []timeslot.Clock
	for _, s := range strings.Split(starts, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		c, err := timeslot.ParseClock(s)
		if err != nil {
			return timeslot.Catalog{}, fmt.Errorf("%w: SLOT_STARTS: %v", domain.ErrConfiguration, err)
		}
		clocks = append(clocks, c)
	}

	cat, err := timeslot.NewCatalog(clocks, w)
	if err != nil {
		return timeslot.Catalog{}, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}
	return cat, nil
}
