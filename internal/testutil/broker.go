// SPDX-License-Identifier: MPL-2.0

package testutil

import "github.com/SpongeTsui/openlmi-scripts/pkg/cim"

// Fixture values of NewHardwareBroker.
const (
	FixtureHost      = "server.example.com"
	FixtureCPUName   = "Intel(R) Xeon(R) CPU E5-2620 v3 @ 2.40GHz"
	FixtureChassisSN = "CZ1234567"

	FixtureInteropNamespace = "root/interop"
)

// NewHardwareBroker returns a managed system with a computer system, one
// chassis, two processors, 16 GiB of memory in two of four slots and a
// chassis type value map in cim.DefaultNamespace, plus two registered
// profiles in FixtureInteropNamespace.
func NewHardwareBroker() *cim.Broker {
	b := cim.NewBroker(FixtureHost)
	ns := cim.DefaultNamespace

	b.AddInstance(ns, cim.DefaultSystemClassName,
		cim.Property{Name: "CreationClassName", Value: cim.DefaultSystemClassName},
		cim.Property{Name: "Name", Value: FixtureHost},
		cim.Property{Name: "PrimaryOwnerName", Value: "root"},
		cim.Property{Name: "Description", Value: nil},
	)

	b.AddInstance(ns, "LMI_Chassis",
		cim.Property{Name: "ChassisPackageType", Value: int64(17)},
		cim.Property{Name: "Manufacturer", Value: "HP"},
		cim.Property{Name: "Model", Value: "ProLiant DL360 Gen9"},
		cim.Property{Name: "ProductName", Value: "755258-B21"},
		cim.Property{Name: "SerialNumber", Value: FixtureChassisSN},
		cim.Property{Name: "Tag", Value: "Asset-42"},
	)
	b.SetValueMap(ns, "LMI_Chassis", "ChassisPackageType", map[string]string{
		"3":  "Desktop",
		"17": "Main System Chassis",
	})

	for _, id := range []string{"CPU0", "CPU1"} {
		b.AddInstance(ns, "LMI_Processor",
			cim.Property{Name: "DeviceID", Value: id},
			cim.Property{Name: "Name", Value: FixtureCPUName},
			cim.Property{Name: "MaxClockSpeed", Value: int64(2400)},
			cim.Property{Name: "Architecture", Value: "x86_64"},
		)
		b.AddInstance(ns, "LMI_ProcessorCapabilities",
			cim.Property{Name: "NumberOfProcessorCores", Value: int64(6)},
			cim.Property{Name: "NumberOfHardwareThreads", Value: int64(12)},
		)
	}

	b.AddInstance(ns, "LMI_Memory",
		cim.Property{Name: "NumberOfBlocks", Value: uint64(16 << 30)},
	)
	for range 2 {
		b.AddInstance(ns, "LMI_PhysicalMemory", cim.Property{Name: "Capacity", Value: uint64(8 << 30)})
	}
	for range 4 {
		b.AddInstance(ns, "LMI_MemorySlot")
	}

	for _, profile := range [][2]string{{"Base Server", "1.0.0"}, {"Physical Asset", "1.0.2"}} {
		b.AddInstance(FixtureInteropNamespace, "CIM_RegisteredProfile",
			cim.Property{Name: "RegisteredName", Value: profile[0]},
			cim.Property{Name: "RegisteredVersion", Value: profile[1]},
		)
	}

	return b
}
