// interrupt.go - push/pop stack protocol and software interrupt dispatch
//
// Grounded on cpu_x86.go (push16/pop16, handleInterrupt) and
// original_source src/cpu/interrupt.c (handle_int_cd, ivt_get_vector) and
// src/cpu/cpu_system.c (the same, pre-VM-split revision).
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

// ivtEntrySize is the byte width of one IVT entry: offset:u16-le then
// segment:u16-le (spec.md §4.8, GLOSSARY).
const ivtEntrySize = 4

// push16 pushes a 16-bit value at SS:SP using the standard
// pre-decrement-by-2 convention (spec.md §4.6 push protocol).
func (c *CPU) push16(mem *Memory, v uint16) Status {
	c.SP = c.SP - 2
	if !mem.Write16(LinearAddress(c.SS, c.SP), v) {
		return StatusFault
	}
	return StatusOK
}

// pop16 pops a 16-bit value from SS:SP, post-incrementing SP by 2
// (spec.md §4.6 pop protocol).
func (c *CPU) pop16(mem *Memory) (uint16, Status) {
	v, ok := mem.Read16(LinearAddress(c.SS, c.SP))
	if !ok {
		return 0, StatusFault
	}
	c.SP = c.SP + 2
	return v, StatusOK
}

// ivtLookup reads the (offset, segment) pair for vector n from the
// Interrupt Vector Table at physical address 4n (spec.md §4.8, §6).
func ivtLookup(mem *Memory, n byte) (ip, cs uint16, st Status) {
	base := uint32(n) * ivtEntrySize
	ip, ok := mem.Read16(base)
	if !ok {
		return 0, 0, StatusFault
	}
	cs, ok = mem.Read16(base + 2)
	if !ok {
		return 0, 0, StatusFault
	}
	return ip, cs, StatusOK
}

// dispatchInterrupt pushes FLAGS, CS, IP (in that order), clears IF and
// TF, and transfers control to the vector n's IVT entry (spec.md §4.6
// INT imm8, §4.8). Any failure leaves the CPU partially modified — SP
// may already be decremented — which spec.md §7 accepts as the
// catastrophic-fault behavior.
func (c *CPU) dispatchInterrupt(mem *Memory, n byte) Status {
	if st := c.push16(mem, c.Flags); st != StatusOK {
		return st
	}
	if st := c.push16(mem, c.CS); st != StatusOK {
		return st
	}
	if st := c.push16(mem, c.IP); st != StatusOK {
		return st
	}

	c.SetFlag(FlagIF, false)
	c.SetFlag(FlagTF, false)

	newIP, newCS, st := ivtLookup(mem, n)
	if st != StatusOK {
		return st
	}
	c.IP = newIP
	c.CS = newCS
	return StatusOK
}
