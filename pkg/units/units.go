// Package units converts clinical measurements between conventional and SI
// units. Factors are fixed multipliers per quantity kind; analytes with
// different molar masses (bilirubin vs creatinine) get separate kinds even
// though they share unit symbols.
package units

import (
	"errors"
	"fmt"
)

// Kind identifies the quantity a value measures. Conversion factors are
// scoped per kind because "mg/dL" means different molar amounts for
// different analytes.
type Kind string

const (
	Bilirubin   Kind = "bilirubin"
	Creatinine  Kind = "creatinine"
	Pressure    Kind = "pressure"
	Electrolyte Kind = "electrolyte"
	Albumin     Kind = "albumin"
	Glucose     Kind = "glucose"
	Weight      Kind = "weight"
	Height      Kind = "height"
)

// ErrUnknownKind indicates a quantity kind with no conversion table.
var ErrUnknownKind = errors.New("unknown quantity kind")

// ErrUnknownUnit indicates a unit the kind's table does not list.
var ErrUnknownUnit = errors.New("unknown unit for quantity kind")

// factors maps each unit to the multiplier that converts a value in that
// unit into the kind's canonical unit.
//
// Sources: bilirubin µmol/L -> mg/dL divide by 17.1; creatinine µmol/L ->
// mg/dL divide by 88.4; 1 kPa = 7.50062 mmHg; 1 cmH2O = 0.73556 mmHg;
// 1 mmol/L glucose = 18.0 mg/dL.
var factors = map[Kind]map[string]float64{
	Bilirubin: {
		"mg/dL":  1,
		"µmol/L": 1.0 / 17.1,
		"umol/L": 1.0 / 17.1,
	},
	Creatinine: {
		"mg/dL":  1,
		"µmol/L": 1.0 / 88.4,
		"umol/L": 1.0 / 88.4,
	},
	Pressure: {
		"mmHg":  1,
		"kPa":   7.50062,
		"cmH2O": 0.73556,
	},
	Electrolyte: {
		"mmol/L": 1,
		"mEq/L":  1,
	},
	Albumin: {
		"g/dL": 1,
		"g/L":  0.1,
	},
	Glucose: {
		"mg/dL":  1,
		"mmol/L": 18.0,
	},
	Weight: {
		"kg": 1,
		"lb": 1.0 / 2.20462,
	},
	Height: {
		"cm": 1,
		"in": 2.54,
		"m":  100,
	},
}

// canonical is the engine-side unit of each kind.
var canonical = map[Kind]string{
	Bilirubin:   "mg/dL",
	Creatinine:  "mg/dL",
	Pressure:    "mmHg",
	Electrolyte: "mmol/L",
	Albumin:     "g/dL",
	Glucose:     "mg/dL",
	Weight:      "kg",
	Height:      "cm",
}

// Canonical returns the engine's canonical unit for a kind.
func Canonical(kind Kind) (string, error) {
	unit, ok := canonical[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return unit, nil
}

// Convert converts a value of the given kind between two units.
// Conversions are pure multiplications, so Convert(Convert(x, A, B), B, A)
// round-trips within floating-point tolerance. No clamping happens here.
func Convert(kind Kind, value float64, from, to string) (float64, error) {
	if from == to {
		return value, nil
	}
	table, ok := factors[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	ff, ok := table[from]
	if !ok {
		return 0, fmt.Errorf("%w: %q for %s", ErrUnknownUnit, from, kind)
	}
	ft, ok := table[to]
	if !ok {
		return 0, fmt.Errorf("%w: %q for %s", ErrUnknownUnit, to, kind)
	}
	return value * ff / ft, nil
}

// ToCanonical converts a value into the kind's canonical unit.
func ToCanonical(kind Kind, value float64, from string) (float64, error) {
	unit, err := Canonical(kind)
	if err != nil {
		return 0, err
	}
	return Convert(kind, value, from, unit)
}

// Supported reports whether the unit is listed for the kind.
func Supported(kind Kind, unit string) bool {
	table, ok := factors[kind]
	if !ok {
		return false
	}
	_, ok = table[unit]
	return ok
}

// KindOf resolves the quantity kind a parameter name measures. Parameter
// names follow the registry's conventions; unknown names have no kind and
// their values pass through unconverted.
func KindOf(param string) (Kind, bool) {
	switch param {
	case "bilirubin":
		return Bilirubin, true
	case "creatinine", "serum_creatinine":
		return Creatinine, true
	case "systolic_bp", "diastolic_bp", "map":
		return Pressure, true
	case "sodium", "potassium", "chloride", "bicarbonate":
		return Electrolyte, true
	case "albumin":
		return Albumin, true
	case "glucose":
		return Glucose, true
	case "weight":
		return Weight, true
	case "height":
		return Height, true
	default:
		return "", false
	}
}
