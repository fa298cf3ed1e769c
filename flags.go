// flags.go - 16-bit arithmetic flag engine
//
// Grounded on cpu_x86.go (setFlagsArith16, parity) and original_source
// src/cpu/logic.c (update_flags_add16/update_flags_sub16, set_flag_u16).
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

// parity reports the parity of the low byte of v: true means even
// (the conventional PF=1 case).
func parity(v byte) bool {
	v ^= v >> 4
	v ^= v >> 2
	v ^= v >> 1
	return v&1 == 0
}

// setFlagsAdd16 updates CF/ZF/SF/OF/PF/AF after r = a + b (mod 2^16),
// per spec.md §4.7.
func (c *CPU) setFlagsAdd16(a, b, r uint16) {
	sum := uint32(a) + uint32(b)
	c.SetFlag(FlagCF, sum > 0xFFFF)
	c.SetFlag(FlagZF, r == 0)
	c.SetFlag(FlagSF, r&0x8000 != 0)
	c.SetFlag(FlagPF, parity(byte(r)))
	c.SetFlag(FlagOF, (^(a^b))&(a^r)&0x8000 != 0)
	c.SetFlag(FlagAF, (a&0x0F)+(b&0x0F) > 0x0F)
}

// setFlagsAdc16 updates flags after r = a + b + cfIn (mod 2^16); CF is
// carry out of the full three-term sum, OF uses b adjusted by cfIn as
// its effective operand (spec.md §4.7).
func (c *CPU) setFlagsAdc16(a, b uint16, cfIn bool, r uint16) {
	carry := uint32(0)
	if cfIn {
		carry = 1
	}
	sum := uint32(a) + uint32(b) + carry
	c.SetFlag(FlagCF, sum > 0xFFFF)
	c.SetFlag(FlagZF, r == 0)
	c.SetFlag(FlagSF, r&0x8000 != 0)
	c.SetFlag(FlagPF, parity(byte(r)))
	bEff := b + uint16(carry)
	c.SetFlag(FlagOF, (^(a^bEff))&(a^r)&0x8000 != 0)
	c.SetFlag(FlagAF, (a&0x0F)+(b&0x0F)+uint16(carry) > 0x0F)
}

// setFlagsSub16 updates flags after r = a - b (mod 2^16); CF is the
// unsigned borrow a < b (spec.md §4.7).
func (c *CPU) setFlagsSub16(a, b, r uint16) {
	c.SetFlag(FlagCF, a < b)
	c.SetFlag(FlagZF, r == 0)
	c.SetFlag(FlagSF, r&0x8000 != 0)
	c.SetFlag(FlagPF, parity(byte(r)))
	c.SetFlag(FlagOF, (a^b)&(a^r)&0x8000 != 0)
	c.SetFlag(FlagAF, (a&0x0F) < (b&0x0F))
}
