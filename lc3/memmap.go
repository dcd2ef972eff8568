package lc3

import (
	"iter"
)

// Zone is a region of the LC-3 address space.
type Zone int

//go:generate go tool stringer -linecomment -type=Zone
const (
	ZONE_TRAP      = Zone(0) // TRAP
	ZONE_INTERRUPT = Zone(1) // INTERRUPT
	ZONE_OS        = Zone(2) // OS
	ZONE_USER      = Zone(3) // USER
	ZONE_IO        = Zone(4) // IO
)

type zoneInfo struct {
	start uint16
	end   uint16
	label string
	desc  string
}

var zoneTable = []zoneInfo{
	ZONE_TRAP: {0x0000, 0x00FF, "Trap Vector Table",
		"Contains 8-bit addresses (vectors) for System Calls like GETC (x20) and PUTS (x22)."},
	ZONE_INTERRUPT: {0x0100, 0x01FF, "Interrupt Vector Table",
		"Contains addresses for Interrupt Service Routines (ISRs)."},
	ZONE_OS: {0x0200, 0x2FFF, "Operating System & Stack",
		"The Operating System code and the System Stack used for interrupts and traps."},
	ZONE_USER: {0x3000, 0xFDFF, "User Program Space",
		"User code. By convention, most LC-3 programs start at .ORIG x3000."},
	ZONE_IO: {0xFE00, 0xFFFF, "Device Registers (MMIO)",
		"Memory mapped I/O. Writing to these addresses controls hardware devices."},
}

// Zones iterates over the memory map from the lowest address.
func Zones() iter.Seq[Zone] {
	return func(yield func(zone Zone) bool) {
		for zone := range zoneTable {
			if !yield(Zone(zone)) {
				return
			}
		}
	}
}

// ZoneOf returns the zone containing addr. The zones cover the whole
// address space.
func ZoneOf(addr uint16) Zone {
	for zone, info := range zoneTable {
		if addr >= info.start && addr <= info.end {
			return Zone(zone)
		}
	}

	return ZONE_IO
}

// Range returns the first and last address of the zone.
func (zone Zone) Range() (start, end uint16) {
	info := zoneTable[zone]
	return info.start, info.end
}

// Label returns the display name of the zone.
func (zone Zone) Label() string {
	return f(zoneTable[zone].label)
}

// Description explains what lives in the zone.
func (zone Zone) Description() string {
	return f(zoneTable[zone].desc)
}
