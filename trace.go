// trace.go - trace hooks and the external log sink interface
//
// Grounded on original_source src/cpu/trace.c (trace_pre/trace_decode/
// trace_post, dump_bytes, x86_status_name) and src/util/log.c
// (logger_t, log_level_t, logger_enabled) — the teacher repo has no
// equivalent subsystem, so this leans entirely on original_source per
// SPEC_FULL.md's Trace hooks section.
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

import "fmt"

// Level mirrors log_level_t: lower values are more severe, and a sink
// is "enabled" for a level when that level is at or below its
// configured minimum (spec.md §4.11, SPEC_FULL.md Trace hooks).
type Level int

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
	LevelTrace
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelTrace:
		return "TRACE"
	default:
		return "UNKNOWN"
	}
}

// LogSink is the host-provided logging boundary (spec.md External
// Interfaces). Enabled lets trace hooks skip formatting work entirely
// when nothing would consume it, mirroring logger_enabled.
type LogSink interface {
	Enabled(level Level) bool
	Emit(level Level, subsystem, msg string)
}

// traceByteWindowLen bounds how many instruction bytes trace_pre dumps
// per step, matching original_source's dump_bytes usage in trace_pre.
const traceByteWindowLen = 16

// tracePre is called before decoding, once prefixes are drained: it
// logs the CS:IP byte window that fetch/decode is about to consume
// plus a full register dump, matching original_source trace_pre
// (src/cpu/trace.c), which logs the same AX/BX/CX/DX/SI/DI/BP/SP
// CS/IP/DS/ES/SS/FLAGS block its own trace_post does (spec.md §4.11).
func tracePre(sink LogSink, mem *Memory, c *CPU) {
	if sink == nil || !sink.Enabled(LevelTrace) {
		return
	}
	lin := LinearAddress(c.CS, c.IP)
	n := traceByteWindowLen
	if rem := mem.Size() - int(lin); rem < n {
		if rem < 0 {
			rem = 0
		}
		n = rem
	}
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		b, ok := mem.Read8(lin + uint32(i))
		if !ok {
			break
		}
		buf[i] = b
	}
	sink.Emit(LevelTrace, "cpu", fmt.Sprintf(
		"pre cs=%04x ip=%04x bytes=% x ax=%04x bx=%04x cx=%04x dx=%04x si=%04x di=%04x bp=%04x sp=%04x ds=%04x es=%04x ss=%04x flags=%04x",
		c.CS, c.IP, buf, c.AX, c.BX, c.CX, c.DX, c.SI, c.DI, c.BP, c.SP, c.DS, c.ES, c.SS, c.Flags))
}

// traceDecode is called once the decoder has chosen a handler: it logs
// the mnemonic/operand string and the handler's identity, matching
// original_source trace_decode's call into x86_disasm_one_16.
func traceDecode(sink LogSink, d decoded) {
	if sink == nil || !sink.Enabled(LevelTrace) {
		return
	}
	sink.Emit(LevelTrace, "cpu", fmt.Sprintf("decode %s %s handler=%p", d.Mnemonic, d.Operands, d.Handler))
}

// tracePost is called after the handler runs: it logs the resulting
// status and a register dump, matching original_source trace_post.
func tracePost(sink LogSink, c *CPU, st Status) {
	if sink == nil || !sink.Enabled(LevelTrace) {
		return
	}
	sink.Emit(LevelTrace, "cpu", fmt.Sprintf(
		"post status=%s ax=%04x bx=%04x cx=%04x dx=%04x si=%04x di=%04x bp=%04x sp=%04x cs=%04x ip=%04x flags=%04x",
		st, c.AX, c.BX, c.CX, c.DX, c.SI, c.DI, c.BP, c.SP, c.CS, c.IP, c.Flags))
}

// RecordingSink is a test double that captures every Emit call
// unfiltered; MinLevel only decides what Enabled reports. It follows the
// hand-rolled-test-double style cpu_x86_test.go uses for TestX86Bus.
type RecordingSink struct {
	MinLevel Level
	Records  []string
}

// Enabled reports whether level is at least as severe as MinLevel.
func (s *RecordingSink) Enabled(level Level) bool {
	return level <= s.MinLevel
}

// Emit appends a formatted record; it does not re-check Enabled, since
// callers are expected to have already gated on it.
func (s *RecordingSink) Emit(level Level, subsystem, msg string) {
	s.Records = append(s.Records, fmt.Sprintf("[%s] %s: %s", level, subsystem, msg))
}
