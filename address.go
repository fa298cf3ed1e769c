// address.go - segment:offset -> linear address, and 16-bit ModR/M
// effective-address decoding.
//
// Grounded on cpu_x86.go (x86SegDS/x86SegSS defaults, calcEffectiveAddress16)
// and original_source src/cpu/decode.c (ea16_compute) and
// src/cpu/fetch.c (x86_linear_addr).
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

// LinearAddress computes the 20-bit physical address (seg<<4)+off
// (spec.md GLOSSARY).
func LinearAddress(seg, off uint16) uint32 {
	return (uint32(seg) << 4) + uint32(off)
}

// ModRM is a decoded ModR/M byte (spec.md §3): mod (bits 7..6), reg/subop
// (bits 5..3), r/m (bits 2..0).
type ModRM struct {
	Mod byte
	Reg byte
	RM  byte
}

// decodeModRM splits a raw ModR/M byte into its three fields.
func decodeModRM(b byte) ModRM {
	return ModRM{
		Mod: (b >> 6) & 3,
		Reg: (b >> 3) & 7,
		RM:  b & 7,
	}
}

// IsRegisterForm reports whether this ModR/M selects the register-direct
// path (mod==3); the caller resolves the register rather than computing
// an effective address (spec.md §4.3).
func (m ModRM) IsRegisterForm() bool {
	return m.Mod == 3
}

// effectiveAddress computes the (default segment, 16-bit offset) pair for
// a memory-form ModR/M byte, fetching any displacement bytes it needs
// through the CPU's own fetch path so IP advances correctly. Must not be
// called when m.IsRegisterForm().
func (c *CPU) effectiveAddress(mem *Memory, m ModRM) (seg int, off uint16, st Status) {
	base := uint16(0)
	seg = SegDS

	switch m.RM {
	case 0: // [BX+SI]
		base = c.BX + c.SI
	case 1: // [BX+DI]
		base = c.BX + c.DI
	case 2: // [BP+SI]
		base = c.BP + c.SI
		seg = SegSS
	case 3: // [BP+DI]
		base = c.BP + c.DI
		seg = SegSS
	case 4: // [SI]
		base = c.SI
	case 5: // [DI]
		base = c.DI
	case 6: // [BP] or, when mod==0, [disp16]
		if m.Mod == 0 {
			disp16, ok := c.fetch16(mem)
			if !ok {
				return 0, 0, StatusFault
			}
			return SegDS, disp16, StatusOK
		}
		base = c.BP
		seg = SegSS
	case 7: // [BX]
		base = c.BX
	}

	switch m.Mod {
	case 1: // sign-extended disp8
		d8, ok := c.fetch8(mem)
		if !ok {
			return 0, 0, StatusFault
		}
		base = uint16(int16(base) + int16(int8(d8)))
	case 2: // disp16
		d16, ok := c.fetch16(mem)
		if !ok {
			return 0, 0, StatusFault
		}
		base += d16
	}

	return seg, base, StatusOK
}
