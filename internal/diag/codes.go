package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// hoisting / resolution
	HoistInfo              Code = 1000
	HoistVersionConflict   Code = 1001
	HoistDanglingReference Code = 1002
	HoistCollateralRemoval Code = 1003
	HoistSelfReference     Code = 1004

	// manifest adapter
	PomInfo               Code = 2000
	PomMissingCoordinate  Code = 2001
	PomDuplicateProperty  Code = 2002
	PomUnsupportedVersion Code = 2003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		HoistInfo:              "Hoisting information",
		HoistVersionConflict:   "Declaration version differs from the hoisted property",
		HoistDanglingReference: "Version references a missing property",
		HoistCollateralRemoval: "Property removed because its value matched another declaration",
		HoistSelfReference:     "Version references its own canonical key; property created with the reference as value",
		PomInfo:                "Manifest information",
		PomMissingCoordinate:   "Declaration lacks a required coordinate",
		PomDuplicateProperty:   "Property is declared more than once",
		PomUnsupportedVersion:  "Version element contains markup",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("HST%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("POM%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
