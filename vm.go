// vm.go - a single virtual machine: one CPU plus its own RAM
//
// Grounded on original_source src/vm/vm.h (struct VM: id, in_use, name,
// trace_t, logger_t*, mem, mem_size, x86_cpu_t, cpu_inited) and
// src/vm/vm.c (vm_create_default, vm_step). The teacher repo has no
// direct analogue (its CPU_X86 is driven by a runner loop rather than a
// registry), so this module leans on original_source for shape.
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

import "fmt"

// Config parameters a caller supplies when creating a VM (spec.md §6
// create operation; SPEC_FULL.md Configuration ambient-stack entry).
type Config struct {
	Name             string
	RAMSize          int
	InitialCS        uint16
	InitialIP        uint16
	Sink             LogSink
	TraceOnByDefault bool
}

// VM bundles one CPU with its own RAM and trace configuration. Every
// VM in a Registry is fully isolated: no VM can reach another's memory
// or registers (spec.md §6 invariant).
type VM struct {
	id   int
	name string

	mem *Memory
	cpu CPU

	sink       LogSink
	traceOn    bool
}

// newVM allocates RAM, resets the CPU to power-on state, and wires the
// trace sink (spec.md §3 reset defaults, §6 create).
func newVM(id int, cfg Config) (*VM, error) {
	size := cfg.RAMSize
	if size < MinRAMSize {
		return nil, fmt.Errorf("x64vm: RAM size %d below minimum %d", size, MinRAMSize)
	}
	name := cfg.Name
	if name == "" {
		name = fmt.Sprintf("vm%d", id)
	}
	vm := &VM{
		id:      id,
		name:    name,
		mem:     NewMemory(size),
		sink:    cfg.Sink,
		traceOn: cfg.TraceOnByDefault,
	}
	vm.cpu.Reset()
	if cfg.InitialCS != 0 || cfg.InitialIP != 0 {
		vm.cpu.ResetAt(cfg.InitialCS, cfg.InitialIP)
	}
	return vm, nil
}

// ID returns this VM's stable slot id (spec.md §6).
func (v *VM) ID() int { return v.id }

// Name returns the caller-supplied label.
func (v *VM) Name() string { return v.name }

// Rename changes the VM's label (SPEC_FULL.md VM registry supplement,
// grounded on original_source's name[32] field).
func (v *VM) Rename(name string) { v.name = name }

// CPU exposes the VM's register file for inspection and direct test
// setup; handlers and Step reach it the same way.
func (v *VM) CPU() *CPU { return &v.cpu }

// Memory exposes the VM's RAM for LoadBytes and inspection.
func (v *VM) Memory() *Memory { return v.mem }

// SetTrace toggles whether Step emits trace_pre/trace_decode/trace_post
// events for this VM (spec.md §4.11 gating, original_source trace_t).
func (v *VM) SetTrace(enabled bool) { v.traceOn = enabled }

// TraceEnabled reports the current trace gate.
func (v *VM) TraceEnabled() bool { return v.traceOn }

// Reset restores power-on defaults and then loads the given cs:ip entry
// point (SPEC_FULL.md VM registry supplement's reset(vm, cs, ip)).
func (v *VM) Reset(cs, ip uint16) {
	v.cpu.ResetAt(cs, ip)
}

// LoadBytes copies a program image into this VM's RAM.
func (v *VM) LoadBytes(addr uint32, buf []byte) error {
	return v.mem.LoadBytes(addr, buf)
}

// Step executes one instruction, routing trace hooks through this VM's
// sink only when tracing is enabled (spec.md §4.11, original_source
// vm_step's trace-pre/trace-post logging around x86_step).
func (v *VM) Step() Status {
	sink := v.sink
	if !v.traceOn {
		sink = nil
	}
	return Step(&v.cpu, v.mem, sink)
}
