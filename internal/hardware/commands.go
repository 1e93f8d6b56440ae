// SPDX-License-Identifier: MPL-2.0

package hardware

import (
	"context"
	"errors"
	"strings"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
	"github.com/SpongeTsui/openlmi-scripts/pkg/command"
)

// Module is the module name of the hardware commands and the registry
// module of their associated functions.
const Module = "hardware"

// MainSystemChassis is the ChassisPackageType of a main system chassis.
const MainSystemChassis = 17

// InteropNamespace holds the registered management profiles.
const InteropNamespace = "root/interop"

// ProfileColumns are the columns of "system profiles".
var ProfileColumns = []string{"Name", "Version"}

var (
	// ErrMissingClass is returned by "hwinfo instance" without a class argument.
	ErrMissingClass = errors.New("missing class name")
	// ErrNoConnection is returned when a command runs without a managed system.
	ErrNoConnection = errors.New("no connection")
)

const (
	hwinfoDoc = `Display basic hardware information.

Usage:
    hwinfo all
    hwinfo system
    hwinfo chassis
    hwinfo cpu
    hwinfo memory
    hwinfo instance <class> [<property>...]
    hwinfo is-main-chassis

Commands:
    all              Display all available information.
    system           Display the host name.
    chassis          Display chassis information.
    cpu              Display processor information.
    memory           Display memory information.
    instance         Display properties of the first instance of a class.
    is-main-chassis  Succeed if the chassis is a main system chassis.`

	systemDoc = `Inspect the computer system.

Usage:
    system show
    system dump
    system check [<hostname>]
    system profiles
    system uri`
)

// Register adds the associated functions of p to r under Module.
func Register(r *command.Registry, p *Provider) error {
	funcs := map[string]command.Func{
		"all_info":             p.table(p.AllInfo),
		"system_info":          p.table(p.SystemInfo),
		"chassis_info":         p.table(p.ChassisInfo),
		"cpu_info":             p.table(p.CPUInfo),
		"memory_info":          p.table(p.MemoryInfo),
		"first_instance":       p.firstInstance,
		"computer_system":      p.computerSystem,
		"host_name":            p.hostName,
		"chassis_package_type": p.chassisPackageType,
		"registered_profiles":  p.registeredProfiles,
	}
	for name, fn := range funcs {
		if err := r.Register(Module+":"+name, fn); err != nil {
			return err
		}
	}
	return nil
}

// Commands registers the associated functions of p in the builder's registry
// and builds the hwinfo and system command trees, keyed by command name.
func Commands(b *command.Builder, p *Provider) (map[string]*command.Descriptor, error) {
	if err := Register(b.Registry(), p); err != nil {
		return nil, err
	}

	hwinfo, err := buildHwinfo(b)
	if err != nil {
		return nil, err
	}
	system, err := buildSystem(b)
	if err != nil {
		return nil, err
	}
	return map[string]*command.Descriptor{
		"hwinfo": hwinfo,
		"system": system,
	}, nil
}

func buildHwinfo(b *command.Builder) (*command.Descriptor, error) {
	info := func(name, fn, doc string) command.Declaration {
		return command.Declaration{
			Module:      Module,
			Name:        name,
			Kind:        command.KindLister,
			Doc:         doc,
			CallableRef: Module + ":" + fn,
			Columns:     InfoColumns,
		}
	}

	decls := map[string]command.Declaration{
		"all":     info("All", "all_info", "Display all available hardware information."),
		"system":  info("System", "system_info", "Display the host name of the managed system."),
		"chassis": info("Chassis", "chassis_info", "Display chassis type, manufacturer, model, serial number and asset tag."),
		"cpu":     info("Cpu", "cpu_info", "Display the processor model, topology, frequency and architecture."),
		"memory":  info("Memory", "memory_info", "Display the memory size and slot usage."),
		"instance": {
			Module:            Module,
			Name:              "Instance",
			Kind:              command.KindShowInstance,
			Doc:               "Display properties of the first instance of a class. Without properties, all are shown.",
			CallableRef:       Module + ":first_instance",
			DynamicProperties: true,
		},
		"is-main-chassis": {
			Module:      Module,
			Name:        "IsMainChassis",
			Kind:        command.KindCheckResult,
			Doc:         "Succeed if the chassis is a main system chassis.",
			CallableRef: Module + ":chassis_package_type",
			Expect:      command.Equals(MainSystemChassis),
		},
	}

	children, err := buildAll(b, decls)
	if err != nil {
		return nil, err
	}
	return b.Build(command.Declaration{
		Module:   Module,
		Name:     "Hwinfo",
		Kind:     command.KindMultiplexer,
		Doc:      hwinfoDoc,
		Commands: children,
	})
}

func buildSystem(b *command.Builder) (*command.Descriptor, error) {
	// Checks the host name; concrete checks supply the expectation.
	hostCheck, err := b.Build(command.Declaration{
		Module:      Module,
		Name:        "HostCheck",
		Kind:        command.KindCheckResult,
		CallableRef: Module + ":host_name",
	})
	if err != nil {
		return nil, err
	}

	decls := map[string]command.Declaration{
		"show": {
			Module:      Module,
			Name:        "Show",
			Kind:        command.KindShowInstance,
			Doc:         "Show the main properties of the computer system.",
			CallableRef: Module + ":computer_system",
			Properties: []command.Property{
				command.Prop("Name"),
				command.Computed("Class", func(inst cim.Instance) (any, error) {
					return inst.ClassName(), nil
				}),
				command.Prop("PrimaryOwnerName"),
				command.Prop("Description"),
			},
		},
		"dump": {
			Module:      Module,
			Name:        "Dump",
			Kind:        command.KindShowInstance,
			Doc:         "Show every property of the computer system.",
			CallableRef: Module + ":computer_system",
		},
		"check": {
			Module:  Module,
			Name:    "Check",
			Doc:     "Succeed if the computer system has a host name, matching <hostname> when given.",
			Extends: hostCheck,
			Expect:  command.Satisfies(hostNameMatches),
		},
		"profiles": {
			Module:      Module,
			Name:        "Profiles",
			Kind:        command.KindLister,
			Doc:         "List the registered management profiles.",
			CallableRef: Module + ":registered_profiles",
			Namespace:   InteropNamespace,
			Columns:     ProfileColumns,
		},
		"uri": {
			Module:   Module,
			Name:     "Uri",
			Kind:     command.KindEndPoint,
			Doc:      "Print the URI of the managed system.",
			Callable: connectionURI,
		},
	}

	children, err := buildAll(b, decls)
	if err != nil {
		return nil, err
	}
	return b.Build(command.Declaration{
		Module:   Module,
		Name:     "System",
		Kind:     command.KindMultiplexer,
		Doc:      systemDoc,
		Commands: children,
	})
}

func buildAll(b *command.Builder, decls map[string]command.Declaration) (map[string]*command.Descriptor, error) {
	children := make(map[string]*command.Descriptor, len(decls))
	for name, decl := range decls {
		d, err := b.Build(decl)
		if err != nil {
			return nil, err
		}
		children[name] = d
	}
	return children, nil
}

// table adapts an info table to an associated function.
func (p *Provider) table(fn func(context.Context, cim.Namespace) ([]command.Row, error)) command.Func {
	return func(ctx context.Context, h cim.Handle, _ command.Args) (any, error) {
		ns, err := cim.AsNamespace(h)
		if err != nil {
			return nil, err
		}
		return fn(ctx, ns)
	}
}

// firstInstance returns the first instance of the class named by the first
// argument with the remaining arguments as properties to show.
func (p *Provider) firstInstance(ctx context.Context, h cim.Handle, args command.Args) (any, error) {
	ns, err := cim.AsNamespace(h)
	if err != nil {
		return nil, err
	}
	class := args.Arg(0)
	if class == "" {
		return nil, ErrMissingClass
	}

	inst, err := p.SingleInstance(ctx, ns, class)
	if err != nil {
		return nil, err
	}

	names := args.Positional[1:]
	if len(names) == 0 {
		names = inst.PropertyNames()
	}
	return command.DynamicResult{Properties: command.Props(names...), Instance: inst}, nil
}

func (p *Provider) computerSystem(ctx context.Context, h cim.Handle, _ command.Args) (any, error) {
	ns, err := cim.AsNamespace(h)
	if err != nil {
		return nil, err
	}
	return p.ComputerSystem(ctx, ns)
}

func (p *Provider) hostName(ctx context.Context, h cim.Handle, _ command.Args) (any, error) {
	ns, err := cim.AsNamespace(h)
	if err != nil {
		return nil, err
	}
	cs, err := p.ComputerSystem(ctx, ns)
	if err != nil {
		return nil, err
	}
	return cim.StringProperty(cs, "Name"), nil
}

// chassisPackageType returns the raw ChassisPackageType wrapped like a
// method reply.
func (p *Provider) chassisPackageType(ctx context.Context, h cim.Handle, _ command.Args) (any, error) {
	ns, err := cim.AsNamespace(h)
	if err != nil {
		return nil, err
	}
	chassis, err := p.SingleInstance(ctx, ns, ChassisClass)
	if err != nil {
		return nil, err
	}
	v, _ := chassis.Property("ChassisPackageType")
	return cim.ReturnValue{RVal: v}, nil
}

func (p *Provider) registeredProfiles(ctx context.Context, h cim.Handle, _ command.Args) (any, error) {
	ns, err := cim.AsNamespace(h)
	if err != nil {
		return nil, err
	}
	profiles, err := p.AllInstances(ctx, ns, "CIM_RegisteredProfile")
	if err != nil {
		return nil, err
	}
	rows := make([]command.Row, len(profiles))
	for i, inst := range profiles {
		rows[i] = command.Row{
			cim.StringProperty(inst, "RegisteredName"),
			cim.StringProperty(inst, "RegisteredVersion"),
		}
	}
	return rows, nil
}

func connectionURI(_ context.Context, h cim.Handle, _ command.Args) (any, error) {
	if h == nil {
		return nil, ErrNoConnection
	}
	return h.Connection().URI(), nil
}

func hostNameMatches(opts command.Options, value any) bool {
	name, _ := value.(string)
	if name == "" {
		return false
	}
	if args := opts.Positional(); len(args) > 0 {
		return strings.EqualFold(name, args[0])
	}
	return true
}
