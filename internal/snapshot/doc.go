// SPDX-License-Identifier: MPL-2.0

// Package snapshot loads recorded inventories into an in-memory cim.Broker.
//
// A snapshot lists the instances of a managed host per namespace, in CUE or
// YAML. It stands in for a live connection to the host:
//
//	host: server.example.com
//	namespaces:
//	  - name: root/cimv2
//	    instances:
//	      - class: PG_ComputerSystem
//	        properties:
//	          Name: server.example.com
//	    value_maps:
//	      - class: LMI_Chassis
//	        property: ChassisPackageType
//	        values: {"3": Desktop}
package snapshot
