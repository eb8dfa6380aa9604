// main is the entry point for the debtscan CLI.
package main

import (
	"os"

	"github.com/selwyntheo/fund-services-architect/cmd"
	"github.com/selwyntheo/fund-services-architect/internal/contract"
)

func main() {
	err := cmd.Execute()

	cmd.CloseStore()
	if profErr := cmd.StopProfiling(); profErr != nil {
		contract.LogWarn("Error stopping profiling", profErr)
	}

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
