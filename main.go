// SPDX-License-Identifier: MPL-2.0

// bundlectl resolves extension bundle versions for serverless function
// scaffolding and patches host.json files to reference them.
package main

import cmd "bundlectl/cmd/bundlectl"

func main() {
	cmd.Execute()
}
