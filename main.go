// layerviz - layer categories and color schemes for neural-network graphs.
//
// layerviz classifies layer classes of a deep-learning framework into coarse
// categories and assigns every node of a computation graph its rendering
// color, from built-in or saved themes.
package main

import (
	"fmt"
	"os"

	"github.com/Benny93/layerviz/cmd"
)

func main() {
	cli := cmd.NewCLI()

	if err := cli.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
