// decode.go - prefix draining and opcode dispatch
//
// Grounded on cpu_x86.go (the prefix-handling for-loop inside Step(),
// initBaseOps dispatch table construction) and original_source
// src/cpu/table.c (x86_decode_ctx) and src/cpu/decode.c.
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

// repPrefixByte is 0xF3, REP/REPE (spec.md §4.5). Each occurrence sets
// the one-instruction rep_prefix_latch.
const repPrefixByte = 0xF3

// lockPrefixByte is 0xF0, LOCK (SPEC_FULL.md Decoder supplement,
// grounded on cpu_x86.go's Step() prefix loop: `case 0xF0: continue`).
// It is consumed and re-looped without setting any latch; LOCK
// semantics themselves are out of scope.
const lockPrefixByte = 0xF0

// handlerFunc executes one opcode (or opcode family) against a CPU and
// its VM's memory. The decoder only peeks the opcode, so each handler
// consumes the opcode byte itself and then its own operand bytes
// (ModR/M, imm8/imm16) (spec.md §4.9).
type handlerFunc func(c *CPU, mem *Memory) Status

// decoded is what the decoder hands the step loop: the chosen handler
// plus enough identity for trace_decode (spec.md §4.11).
type decoded struct {
	Mnemonic string
	Operands string
	Handler  handlerFunc
}

// drainPrefixes consumes leading prefix bytes at CS:IP (spec.md §4.5
// phase a, SPEC_FULL.md Decoder supplement). 0xF3 sets the one-
// instruction REP latch; 0xF0 is consumed as a no-op; any other byte
// stops the loop without being consumed.
func (c *CPU) drainPrefixes(mem *Memory) Status {
	for {
		b, ok := c.peek8(mem)
		if !ok {
			return StatusFault
		}
		switch b {
		case repPrefixByte:
			if _, ok := c.fetch8(mem); !ok {
				return StatusFault
			}
			c.RepPrefixLatch = true
		case lockPrefixByte:
			if _, ok := c.fetch8(mem); !ok {
				return StatusFault
			}
		default:
			return StatusOK
		}
	}
}

// decode peeks the opcode at CS:IP (without advancing IP — the chosen
// handler consumes it) and selects a handler (spec.md §4.5 phase b).
func (c *CPU) decode(mem *Memory) (decoded, Status) {
	op, ok := c.peek8(mem)
	if !ok {
		return decoded{}, StatusFault
	}

	switch {
	case op == 0x90:
		return decoded{Mnemonic: "NOP", Handler: handleNOP}, StatusOK
	case op == 0xF4:
		return decoded{Mnemonic: "HLT", Handler: handleHLT}, StatusOK
	case op >= 0xB8 && op <= 0xBF:
		idx := op - 0xB8
		return decoded{
			Mnemonic: "MOV",
			Operands: reg16Name(idx) + ", imm16",
			Handler:  func(c *CPU, mem *Memory) Status { return handleMOVr16Imm16(c, mem, idx) },
		}, StatusOK
	case op == 0x83:
		return decoded{Mnemonic: "GRP1", Operands: "Ev, Ib", Handler: handleGroup1}, StatusOK
	case op == 0xCD:
		return decoded{Mnemonic: "INT", Operands: "imm8", Handler: handleINT}, StatusOK
	default:
		return decoded{Mnemonic: "ILLEGAL", Handler: handleIllegal}, StatusOK
	}
}

var reg16Names = [8]string{"AX", "CX", "DX", "BX", "SP", "BP", "SI", "DI"}

func reg16Name(idx byte) string {
	return reg16Names[idx&7]
}
