// SPDX-License-Identifier: MPL-2.0

// Package cim defines the management-object abstractions that command
// associated functions operate on: connections, namespaces, classes and
// instances, plus the ReturnValue container produced by method calls.
//
// The wire protocol that backs a real Connection is out of scope for this
// module. Broker is an in-memory implementation used by inventory snapshots
// and tests.
package cim
