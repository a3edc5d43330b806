// SPDX-License-Identifier: MPL-2.0

package main

import cmd "npmpack/cmd/npmpack"

func main() {
	cmd.Execute()
}
