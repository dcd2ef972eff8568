// Package lc3 decodes and steps 16-bit LC-3 style instruction words.
//
// Only the pieces needed to illustrate the instruction cycle are modeled:
// the field decoder, a datapath that walks the fetch and decode phases
// and executes the operate instructions, the memory map zones and the R6
// runtime stack. Traps, interrupts and devices are not simulated.
package lc3
