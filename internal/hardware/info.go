// SPDX-License-Identifier: MPL-2.0

package hardware

import (
	"context"
	"fmt"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
	"github.com/SpongeTsui/openlmi-scripts/pkg/command"

	"github.com/spf13/cast"
)

// Hardware classes queried by the info tables.
const (
	ChassisClass        = "LMI_Chassis"
	ProcessorClass      = "LMI_Processor"
	ProcessorCapsClass  = "LMI_ProcessorCapabilities"
	MemoryClass         = "LMI_Memory"
	PhysicalMemoryClass = "LMI_PhysicalMemory"
	MemorySlotClass     = "LMI_MemorySlot"
)

// NotAvailable is printed for facts the managed system does not provide.
const NotAvailable = "N/A"

const (
	gib = 1 << 30
	mib = 1 << 20
)

// InfoColumns are the lister columns of the info tables.
var InfoColumns = []string{"Property", "Value"}

// AllInfo returns the system, chassis, cpu and memory tables separated by
// empty rows.
func (p *Provider) AllInfo(ctx context.Context, ns cim.Namespace) ([]command.Row, error) {
	sections := []func(context.Context, cim.Namespace) ([]command.Row, error){
		p.SystemInfo,
		p.ChassisInfo,
		p.CPUInfo,
		p.MemoryInfo,
	}

	var rows []command.Row
	for i, section := range sections {
		if i > 0 {
			rows = append(rows, row("", ""))
		}
		r, err := section(ctx, ns)
		if err != nil {
			return nil, err
		}
		rows = append(rows, r...)
	}
	return rows, nil
}

// SystemInfo returns the host name of the computer system.
func (p *Provider) SystemInfo(ctx context.Context, ns cim.Namespace) ([]command.Row, error) {
	cs, err := p.ComputerSystem(ctx, ns)
	if err != nil {
		return nil, err
	}
	return []command.Row{row("Hostname:", cim.StringProperty(cs, "Name"))}, nil
}

// ChassisInfo describes the chassis. The model combines Model and
// ProductName when both are set.
func (p *Provider) ChassisInfo(ctx context.Context, ns cim.Namespace) ([]command.Row, error) {
	chassis, err := p.SingleInstance(ctx, ns, ChassisClass)
	if err != nil {
		return nil, err
	}

	model := cim.StringProperty(chassis, "Model")
	product := cim.StringProperty(chassis, "ProductName")
	switch {
	case model != "" && product != "":
		model = fmt.Sprintf("%s (%s)", model, product)
	case model != "":
	case product != "":
		model = product
	default:
		model = NotAvailable
	}

	return []command.Row{
		row("Chassis Type:", chassisType(ns, chassis)),
		row("Manufacturer:", cim.StringProperty(chassis, "Manufacturer")),
		row("Model:", model),
		row("Serial Number:", cim.StringProperty(chassis, "SerialNumber")),
		row("Asset Tag:", cim.StringProperty(chassis, "Tag")),
	}, nil
}

// CPUInfo describes the first processor and the topology of all of them.
func (p *Provider) CPUInfo(ctx context.Context, ns cim.Namespace) ([]command.Row, error) {
	cpus, err := p.AllInstances(ctx, ns, ProcessorClass)
	if err != nil {
		return nil, err
	}
	if len(cpus) == 0 {
		return nil, fmt.Errorf("%w: %s", cim.ErrNoInstance, ProcessorClass)
	}
	caps, err := p.AllInstances(ctx, ns, ProcessorCapsClass)
	if err != nil {
		return nil, err
	}

	var cores, threads int64
	for _, c := range caps {
		cores += intProperty(c, "NumberOfProcessorCores")
		threads += intProperty(c, "NumberOfHardwareThreads")
	}

	cpu := cpus[0]
	return []command.Row{
		row("CPU:", cim.StringProperty(cpu, "Name")),
		row("Topology:", fmt.Sprintf("%d cpu(s), %d core(s), %d thread(s)", len(cpus), cores, threads)),
		row("Max Freq:", fmt.Sprintf("%d MHz", intProperty(cpu, "MaxClockSpeed"))),
		row("Arch:", cim.StringProperty(cpu, "Architecture")),
	}, nil
}

// MemoryInfo returns the memory size and slot usage.
func (p *Provider) MemoryInfo(ctx context.Context, ns cim.Namespace) ([]command.Row, error) {
	memory, err := p.SingleInstance(ctx, ns, MemoryClass)
	if err != nil {
		return nil, err
	}
	modules, err := p.AllInstances(ctx, ns, PhysicalMemoryClass)
	if err != nil {
		return nil, err
	}
	slots, err := p.AllInstances(ctx, ns, MemorySlotClass)
	if err != nil {
		return nil, err
	}

	return []command.Row{
		row("Memory:", memorySize(uintProperty(memory, "NumberOfBlocks"))),
		row("Slots:", fmt.Sprintf("%s used, %s total", count(len(modules)), count(len(slots)))),
	}, nil
}

func memorySize(blocks uint64) string {
	if blocks >= gib {
		return fmt.Sprintf("%d GB", blocks/gib)
	}
	return fmt.Sprintf("%d MB", blocks/mib)
}

func count(n int) string {
	if n == 0 {
		return NotAvailable
	}
	return fmt.Sprint(n)
}

// chassisType maps ChassisPackageType to its symbolic name, or "" when the
// value has none.
func chassisType(ns cim.Namespace, chassis cim.Instance) string {
	v, ok := chassis.Property("ChassisPackageType")
	if !ok || v == nil {
		return ""
	}
	c, err := ns.Class(ChassisClass)
	if err != nil {
		return ""
	}
	name, _ := c.ValueName("ChassisPackageType", v)
	return name
}

func intProperty(inst cim.Instance, name string) int64 {
	v, _ := inst.Property(name)
	return cast.ToInt64(v)
}

func uintProperty(inst cim.Instance, name string) uint64 {
	v, _ := inst.Property(name)
	return cast.ToUint64(v)
}

func row(label, value string) command.Row {
	return command.Row{label, value}
}
