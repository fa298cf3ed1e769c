// step.go - the single-instruction step loop
//
// Grounded on cpu_x86.go's Step() method (prefix loop, dispatch,
// undefined-opcode handling) and original_source src/cpu/cpu.c
// (x86_step) and src/cpu/execute.c's four-phase outline (trace,
// decode, dispatch, execute).
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

// Step executes exactly one instruction: drain prefixes, decode one
// opcode, run its handler, and return the resulting Status (spec.md
// §4.9). It never advances IP itself — every byte consumed is consumed
// by drainPrefixes, decode's caller (peek only), or the handler.
func Step(c *CPU, mem *Memory, sink LogSink) Status {
	if c.Halted {
		return StatusHalt
	}

	c.RepPrefixLatch = false

	if st := c.drainPrefixes(mem); st != StatusOK {
		return st
	}

	tracePre(sink, mem, c)

	d, st := c.decode(mem)
	if st != StatusOK {
		return st
	}
	traceDecode(sink, d)

	st = d.Handler(c, mem)
	c.Cycles++
	tracePost(sink, c, st)
	return st
}
