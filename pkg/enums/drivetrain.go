package enums

import "fmt"

// Transmission captures the gearbox variants supported by the catalog.
type Transmission string

const (
	TransmissionAutomatic Transmission = "automatic"
	TransmissionManual    Transmission = "manual"
	TransmissionCVT       Transmission = "cvt"
	TransmissionSemiAuto  Transmission = "semi_automatic"
)

var validTransmissions = []Transmission{
	TransmissionAutomatic,
	TransmissionManual,
	TransmissionCVT,
	TransmissionSemiAuto,
}

// String implements fmt.Stringer.
func (t Transmission) String() string {
	return string(t)
}

// IsValid reports whether the value matches a known Transmission.
func (t Transmission) IsValid() bool {
	for _, candidate := range validTransmissions {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTransmission converts raw input into a Transmission.
func ParseTransmission(value string) (Transmission, error) {
	for _, candidate := range validTransmissions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid transmission %q", value)
}

// DriveType captures the driven-wheel layout.
type DriveType string

const (
	DriveType2WD DriveType = "2wd"
	DriveType4WD DriveType = "4wd"
	DriveTypeAWD DriveType = "awd"
)

var validDriveTypes = []DriveType{DriveType2WD, DriveType4WD, DriveTypeAWD}

// String implements fmt.Stringer.
func (d DriveType) String() string {
	return string(d)
}

// IsValid reports whether the value matches a known DriveType.
func (d DriveType) IsValid() bool {
	for _, candidate := range validDriveTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDriveType converts raw input into a DriveType.
func ParseDriveType(value string) (DriveType, error) {
	for _, candidate := range validDriveTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid drive type %q", value)
}

// SteeringSide records which side the steering wheel sits on.
type SteeringSide string

const (
	SteeringSideRight SteeringSide = "right"
	SteeringSideLeft  SteeringSide = "left"
)

var validSteeringSides = []SteeringSide{SteeringSideRight, SteeringSideLeft}

// String implements fmt.Stringer.
func (s SteeringSide) String() string {
	return string(s)
}

// IsValid reports whether the value matches a known SteeringSide.
func (s SteeringSide) IsValid() bool {
	for _, candidate := range validSteeringSides {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSteeringSide converts raw input into a SteeringSide.
func ParseSteeringSide(value string) (SteeringSide, error) {
	for _, candidate := range validSteeringSides {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid steering side %q", value)
}

// FuelType captures the supported fuel variants.
type FuelType string

const (
	FuelTypePetrol   FuelType = "petrol"
	FuelTypeDiesel   FuelType = "diesel"
	FuelTypeHybrid   FuelType = "hybrid"
	FuelTypeElectric FuelType = "electric"
	FuelTypeLPG      FuelType = "lpg"
)

var validFuelTypes = []FuelType{
	FuelTypePetrol,
	FuelTypeDiesel,
	FuelTypeHybrid,
	FuelTypeElectric,
	FuelTypeLPG,
}

// String implements fmt.Stringer.
func (f FuelType) String() string {
	return string(f)
}

// IsValid reports whether the value matches a known FuelType.
func (f FuelType) IsValid() bool {
	for _, candidate := range validFuelTypes {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseFuelType converts raw input into a FuelType.
func ParseFuelType(value string) (FuelType, error) {
	for _, candidate := range validFuelTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid fuel type %q", value)
}
