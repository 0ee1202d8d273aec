package main

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestBenchRejectsNoRuns(t *testing.T) {
	defer func(n int) { benchRuns = n }(benchRuns)

	for _, n := range []int{0, -3} {
		benchRuns = n
		cmd := &cobra.Command{}
		addScenarioFlags(cmd)

		err := benchScenario(cmd, nil)
		if err == nil || !strings.Contains(err.Error(), "--runs") {
			t.Errorf("runs=%d: expected a --runs error, got %v", n, err)
		}
	}
}
