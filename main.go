// SPDX-License-Identifier: MPL-2.0

package main

import cmd "conanprobe/cmd/conanprobe"

func main() {
	cmd.Execute()
}
