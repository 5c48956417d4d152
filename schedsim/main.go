// Command schedsim simulates CPU scheduling with First-Come First-Served and
// Round Robin.
package main

import "github.com/sarchlab/schedsim/schedsim/cmd"

func main() {
	cmd.Execute()
}
