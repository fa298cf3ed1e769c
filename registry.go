// registry.go - fixed-capacity VM registry
//
// Grounded on original_source src/vm/vm.c (VMManager, find_free_slot,
// vm_create_default, vm_destroy, vm_use, vm_get, vm_current, vm_list)
// and src/vm/vm.h (VM_MAX).
//
// (c) 2025-2026 Thomas L Hamilton - Apache-2.0

package x64vm

import "fmt"

// DefaultCapacity is VM_MAX from original_source: the number of VM
// slots a Registry holds by default (spec.md §6).
const DefaultCapacity = 8

// Registry is a fixed-capacity table of VMs addressed by stable
// integer id, with one of them selected as "current" (spec.md §6).
type Registry struct {
	slots   []*VM
	current int
}

// NewRegistry builds an empty registry with room for capacity VMs. A
// non-positive capacity falls back to DefaultCapacity.
func NewRegistry(capacity int) *Registry {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Registry{
		slots:   make([]*VM, capacity),
		current: -1,
	}
}

// findFreeSlot returns the index of the first empty slot, or -1 if the
// registry is full (original_source find_free_slot).
func (r *Registry) findFreeSlot() int {
	for i, v := range r.slots {
		if v == nil {
			return i
		}
	}
	return -1
}

// Create allocates a new VM in the first free slot and, matching
// vm_create_default, selects it as current. Fails when the registry is
// full or cfg's RAM size is invalid.
func (r *Registry) Create(cfg Config) (int, error) {
	idx := r.findFreeSlot()
	if idx < 0 {
		return 0, fmt.Errorf("x64vm: registry full (capacity %d)", len(r.slots))
	}
	vm, err := newVM(idx, cfg)
	if err != nil {
		return 0, err
	}
	r.slots[idx] = vm
	r.current = idx
	return idx, nil
}

// Destroy frees the VM at id. If it was the current VM, current becomes
// unselected (-1) until Use is called again (spec.md §6 edge case).
func (r *Registry) Destroy(id int) error {
	v, err := r.Get(id)
	if err != nil {
		return err
	}
	_ = v
	r.slots[id] = nil
	if r.current == id {
		r.current = -1
	}
	return nil
}

// Use selects the VM at id as current (original_source vm_use).
func (r *Registry) Use(id int) error {
	if _, err := r.Get(id); err != nil {
		return err
	}
	r.current = id
	return nil
}

// Get returns the VM at id, or an error if id is out of range or the
// slot is empty.
func (r *Registry) Get(id int) (*VM, error) {
	if id < 0 || id >= len(r.slots) {
		return nil, fmt.Errorf("x64vm: VM id %d out of range [0,%d)", id, len(r.slots))
	}
	v := r.slots[id]
	if v == nil {
		return nil, fmt.Errorf("x64vm: no VM at id %d", id)
	}
	return v, nil
}

// Current returns the currently selected VM, or an error if none is
// selected (an empty registry, or one left unselected after Destroy).
func (r *Registry) Current() (*VM, error) {
	if r.current < 0 {
		return nil, fmt.Errorf("x64vm: no VM currently selected")
	}
	return r.Get(r.current)
}

// List returns the ids of all occupied slots in ascending order
// (original_source vm_list, minus its stdout printing).
func (r *Registry) List() []int {
	var ids []int
	for i, v := range r.slots {
		if v != nil {
			ids = append(ids, i)
		}
	}
	return ids
}

// Rename relabels the VM at id (SPEC_FULL.md VM registry supplement).
func (r *Registry) Rename(id int, name string) error {
	v, err := r.Get(id)
	if err != nil {
		return err
	}
	v.Rename(name)
	return nil
}

// Reset restores the VM at id to power-on defaults at the given entry
// point (SPEC_FULL.md VM registry supplement).
func (r *Registry) Reset(id int, cs, ip uint16) error {
	v, err := r.Get(id)
	if err != nil {
		return err
	}
	v.Reset(cs, ip)
	return nil
}
