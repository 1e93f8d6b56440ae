// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/SpongeTsui/openlmi-scripts/cmd/lmi"

func main() {
	cmd.Execute()
}
