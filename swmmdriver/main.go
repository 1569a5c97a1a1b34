// Command swmmdriver runs SWMM projects from the command line.
package main

import "github.com/sarchlab/swmmdriver/swmmdriver/cmd"

func main() {
	cmd.Execute()
}
