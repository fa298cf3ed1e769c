// fetch.go - instruction byte/word fetch from CS:IP
//
// Grounded on cpu_x86.go (fetch8/fetch16) and original_source
// src/cpu/memops.c (x86_fetch8/x86_fetch16) and src/cpu/fetch.c.
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

// fetch8 reads the byte at CS:IP and advances IP by one, wrapping modulo
// 2^16 (spec.md §4.4, invariant 2).
func (c *CPU) fetch8(mem *Memory) (byte, bool) {
	v, ok := mem.Read8(LinearAddress(c.CS, c.IP))
	if !ok {
		return 0, false
	}
	c.IP = c.IP + 1
	return v, true
}

// fetch16 reads the little-endian word at CS:IP and advances IP by two,
// wrapping modulo 2^16.
func (c *CPU) fetch16(mem *Memory) (uint16, bool) {
	v, ok := mem.Read16(LinearAddress(c.CS, c.IP))
	if !ok {
		return 0, false
	}
	c.IP = c.IP + 2
	return v, true
}

// peek8 reads the byte at CS:IP without advancing IP, used by the
// decoder to inspect the opcode before committing to a handler.
func (c *CPU) peek8(mem *Memory) (byte, bool) {
	return mem.Read8(LinearAddress(c.CS, c.IP))
}
