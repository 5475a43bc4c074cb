// Command studio generates images through the relay and exports edited
// copies from the command line.
package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()
	cobra.CheckErr(newRootCmd().ExecuteContext(context.Background()))
}
