// (c) 2025-2026 Thomas L Hamilton - Apache-2.0
//
// Concrete end-to-end scenarios, carried over verbatim from spec.md §8.

package x64vm

import "testing"

func newTestCPU() (*CPU, *Memory) {
	c := &CPU{}
	c.ResetAt(0x0000, 0x1000)
	c.SS = 0x0000
	c.SP = 0xFFFE
	return c, NewMemory(0x2000)
}

func TestScenarioS1_MovHlt(t *testing.T) {
	c, mem := newTestCPU()
	mem.LoadBytes(0x1000, []byte{0xB8, 0x34, 0x12, 0xF4})

	if st := Step(c, mem, nil); st != StatusOK {
		t.Fatalf("step 1 = %v, want OK", st)
	}
	if st := Step(c, mem, nil); st != StatusHalt {
		t.Fatalf("step 2 = %v, want HALT", st)
	}
	if c.AX != 0x1234 || c.IP != 0x1004 || !c.Halted {
		t.Errorf("after S1: AX=%#04x IP=%#04x halted=%v, want AX=0x1234 IP=0x1004 halted=true", c.AX, c.IP, c.Halted)
	}
}

func TestScenarioS2_AddCarryZero(t *testing.T) {
	c, mem := newTestCPU()
	c.AX = 0xFFFF
	mem.LoadBytes(0x1000, []byte{0x83, 0xC0, 0x01, 0xF4})

	Step(c, mem, nil)
	st := Step(c, mem, nil)
	if st != StatusHalt {
		t.Fatalf("final step = %v, want HALT", st)
	}
	if c.AX != 0x0000 || !c.CF() || !c.ZF() || c.SF() || c.OF() {
		t.Errorf("after S2: AX=%#04x CF=%v ZF=%v SF=%v OF=%v, want AX=0 CF=1 ZF=1 SF=0 OF=0",
			c.AX, c.CF(), c.ZF(), c.SF(), c.OF())
	}
}

func TestScenarioS3_SubNegative(t *testing.T) {
	c, mem := newTestCPU()
	c.BX = 0x0001
	mem.LoadBytes(0x1000, []byte{0x83, 0xEB, 0x02, 0xF4})

	Step(c, mem, nil)
	Step(c, mem, nil)
	if c.BX != 0xFFFF || !c.CF() || c.ZF() || !c.SF() || c.OF() {
		t.Errorf("after S3: BX=%#04x CF=%v ZF=%v SF=%v OF=%v, want BX=0xFFFF CF=1 ZF=0 SF=1 OF=0",
			c.BX, c.CF(), c.ZF(), c.SF(), c.OF())
	}
}

func TestScenarioS4_CmpLeavesDestUnchanged(t *testing.T) {
	c, mem := newTestCPU()
	c.CX = 0x0005
	mem.LoadBytes(0x1000, []byte{0x83, 0xF9, 0x05, 0xF4})

	Step(c, mem, nil)
	Step(c, mem, nil)
	if c.CX != 0x0005 || !c.ZF() || c.CF() || c.SF() {
		t.Errorf("after S4: CX=%#04x ZF=%v CF=%v SF=%v, want CX=0x0005 ZF=1 CF=0 SF=0",
			c.CX, c.ZF(), c.CF(), c.SF())
	}
}

func TestScenarioS5_IntDispatch(t *testing.T) {
	c, mem := newTestCPU()
	mem.Write16(0x21*4, 0x0200)
	mem.Write16(0x21*4+2, 0x0000)
	mem.LoadBytes(0x1000, []byte{0xCD, 0x21})
	mem.LoadBytes(0x0200, []byte{0xF4})
	c.SS = 0x0000
	c.SP = 0x2000
	c.Flags = 0x0202

	if st := Step(c, mem, nil); st != StatusOK {
		t.Fatalf("step 1 (INT) = %v, want OK", st)
	}
	if c.CS != 0x0000 || c.IP != 0x0200 {
		t.Fatalf("after INT: CS:IP = %04x:%04x, want 0000:0200", c.CS, c.IP)
	}

	if st := Step(c, mem, nil); st != StatusHalt {
		t.Fatalf("step 2 (HLT) = %v, want HALT", st)
	}
	if !c.Halted {
		t.Errorf("after S5 second step, halted should be true")
	}
	if c.IF() || c.TF() {
		t.Errorf("S5: new FLAGS should have IF=0 TF=0, got %#04x", c.Flags)
	}
	if flags, _ := mem.Read16(LinearAddress(0, 0x1FFE)); flags != 0x0202 {
		t.Errorf("S5: stack FLAGS at SS:0x1FFE = %#04x, want 0x0202", flags)
	}
	if cs, _ := mem.Read16(LinearAddress(0, 0x1FFC)); cs != 0x0000 {
		t.Errorf("S5: stack CS at SS:0x1FFC = %#04x, want 0x0000", cs)
	}
	if ip, _ := mem.Read16(LinearAddress(0, 0x1FFA)); ip != 0x1002 {
		t.Errorf("S5: stack IP at SS:0x1FFA = %#04x, want 0x1002", ip)
	}
}

func TestScenarioS6_BoundsFault(t *testing.T) {
	mem := NewMemory(0x1100)
	mem.Write8(0x10FF, 0xB8)
	c := &CPU{}
	c.ResetAt(0x0000, 0x10FF)
	before := c.AX

	if st := Step(c, mem, nil); st != StatusFault {
		t.Fatalf("S6 step = %v, want FAULT", st)
	}
	if c.AX != before {
		t.Errorf("S6: AX changed on a faulted step: now %#04x, was %#04x", c.AX, before)
	}
}

func TestHaltStickiness(t *testing.T) {
	c, mem := newTestCPU()
	mem.LoadBytes(0x1000, []byte{0xF4})
	Step(c, mem, nil)
	if !c.Halted {
		t.Fatalf("expected CPU to be halted after HLT")
	}
	// Corrupt memory at CS:IP; a halted CPU must not read it.
	mem.Write8(LinearAddress(c.CS, c.IP), 0xCD)
	if st := Step(c, mem, nil); st != StatusHalt {
		t.Errorf("stepping a halted CPU = %v, want HALT without reading memory", st)
	}
}

func TestPrefixLatchScoping(t *testing.T) {
	c, mem := newTestCPU()
	mem.LoadBytes(0x1000, []byte{0x90, 0x90}) // two NOPs, no REP prefix
	Step(c, mem, nil)
	if c.RepPrefixLatch {
		t.Errorf("RepPrefixLatch should be false after a step with no 0xF3")
	}
	Step(c, mem, nil)
	if c.RepPrefixLatch {
		t.Errorf("RepPrefixLatch should still be false at the start of the next step")
	}
}

func TestLockPrefixConsumedAsNoOp(t *testing.T) {
	c, mem := newTestCPU()
	mem.LoadBytes(0x1000, []byte{0xF0, 0x90}) // LOCK, then NOP
	if st := Step(c, mem, nil); st != StatusOK {
		t.Fatalf("step over LOCK+NOP = %v, want OK", st)
	}
	if c.IP != 0x1002 {
		t.Errorf("IP after LOCK+NOP = %#04x, want 0x1002", c.IP)
	}
	if c.RepPrefixLatch {
		t.Errorf("LOCK prefix must not set RepPrefixLatch")
	}
}

func TestIllegalOpcodeConsumesOneByte(t *testing.T) {
	c, mem := newTestCPU()
	mem.LoadBytes(0x1000, []byte{0x0F, 0x90}) // 0x0F unimplemented, then NOP
	if st := Step(c, mem, nil); st != StatusIllegal {
		t.Fatalf("illegal opcode step = %v, want ILLEGAL", st)
	}
	if c.IP != 0x1001 {
		t.Errorf("illegal opcode should still consume one byte: IP=%#04x, want 0x1001", c.IP)
	}
	if st := Step(c, mem, nil); st != StatusOK {
		t.Errorf("step after illegal opcode = %v, want OK (NOP)", st)
	}
}
