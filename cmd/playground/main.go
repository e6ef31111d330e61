package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/networkteam/playground"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errScenariosFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		if errors.Is(err, playground.ErrNoScenarios) || errors.Is(err, errScenariosFailed) {
			os.Exit(1)
		}
		os.Exit(2)
	}
}
