// Package units provides shared constants and validation for angle units
package units

import "math"

// Unit constants
const (
	RAD = "rad"
	DEG = "deg"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{RAD, DEG}

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "rad, deg"
}

// ConvertAngle converts an angle from radians to the target units.
// Planning state and joint bounds are stored in radians.
func ConvertAngle(angleRad float64, targetUnits string) float64 {
	switch targetUnits {
	case DEG:
		return angleRad * 180 / math.Pi
	case RAD:
		return angleRad
	default:
		return angleRad
	}
}

// ToRadians converts a value in the given units back to radians.
func ToRadians(value float64, sourceUnits string) float64 {
	switch sourceUnits {
	case DEG:
		return value * math.Pi / 180
	default:
		return value
	}
}
