package models

import (
	"database/sql/driver"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// TeachingLocation is where a lesson takes place.
type TeachingLocation string

const (
	LocationOnline       TeachingLocation = "ONLINE"
	LocationHome         TeachingLocation = "HOME"
	LocationTeacherPlace TeachingLocation = "TEACHER_PLACE"
)

// AllLocations lists every teaching location in display order.
var AllLocations = []TeachingLocation{LocationOnline, LocationHome, LocationTeacherPlace}

var locationLabels = map[TeachingLocation]string{
	LocationOnline:       "En ligne",
	LocationHome:         "À domicile",
	LocationTeacherPlace: "Chez l'enseignant",
}

// Label returns the human readable name shown to users.
func (l TeachingLocation) Label() string {
	return locationLabels[l]
}

// Valid reports whether l is a member of the enum.
func (l TeachingLocation) Valid() bool {
	_, ok := locationLabels[l]
	return ok
}

// LocationFromLabel resolves an exact human label such as "En ligne".
func LocationFromLabel(label string) (TeachingLocation, bool) {
	for _, loc := range AllLocations {
		if locationLabels[loc] == label {
			return loc, true
		}
	}
	return "", false
}

// LocationFromSymbol resolves a symbol such as "online", ignoring case and surrounding space.
func LocationFromSymbol(symbol string) (TeachingLocation, bool) {
	loc := TeachingLocation(strings.ToUpper(strings.TrimSpace(symbol)))
	if !loc.Valid() {
		return "", false
	}
	return loc, true
}

// LocationFromAny accepts either a label or a symbol.
func LocationFromAny(value string) (TeachingLocation, bool) {
	if loc, ok := LocationFromLabel(strings.TrimSpace(value)); ok {
		return loc, true
	}
	return LocationFromSymbol(value)
}

// Locations is a set of teaching locations persisted as a postgres text[].
type Locations []TeachingLocation

// LocationsFromSymbols keeps the recognised symbols in order, dropping unknown values and duplicates.
func LocationsFromSymbols(values []string) Locations {
	return collectLocations(values, LocationFromSymbol)
}

// LocationsFromLabels is LocationsFromSymbols for inputs that may be labels or symbols.
func LocationsFromLabels(values []string) Locations {
	return collectLocations(values, LocationFromAny)
}

func collectLocations(values []string, resolve func(string) (TeachingLocation, bool)) Locations {
	out := make(Locations, 0, len(values))
	seen := make(map[TeachingLocation]struct{}, len(values))
	for _, v := range values {
		loc, ok := resolve(v)
		if !ok {
			continue
		}
		if _, dup := seen[loc]; dup {
			continue
		}
		seen[loc] = struct{}{}
		out = append(out, loc)
	}
	return out
}

// Contains reports membership.
func (ls Locations) Contains(loc TeachingLocation) bool {
	for _, l := range ls {
		if l == loc {
			return true
		}
	}
	return false
}

// Labels projects the set onto human labels.
func (ls Locations) Labels() []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Label())
	}
	return out
}

// Value implements driver.Valuer.
func (ls Locations) Value() (driver.Value, error) {
	arr := make(pq.StringArray, 0, len(ls))
	for _, l := range ls {
		arr = append(arr, string(l))
	}
	return arr.Value()
}

// Scan implements sql.Scanner, rejecting values outside the enum.
func (ls *Locations) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return fmt.Errorf("scan locations: %w", err)
	}
	out := make(Locations, 0, len(arr))
	for _, raw := range arr {
		loc := TeachingLocation(raw)
		if !loc.Valid() {
			return fmt.Errorf("scan locations: unknown location %q", raw)
		}
		out = append(out, loc)
	}
	*ls = out
	return nil
}
