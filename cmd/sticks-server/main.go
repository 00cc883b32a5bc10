// Command sticks-server runs the relay server on the default port. There
// are no flags: configuration is scoped out per SPEC_FULL.md's
// Configuration section, the same way the teacher's device lifecycle
// commands take their tunables from the API rather than the shell when
// run as a long-lived service.
package main

import (
	"fmt"
	"os"

	"github.com/g4stly/sticks"
	"github.com/g4stly/sticks/internal/logging"
)

func main() {
	logger := logging.Default()

	srv := sticks.New(sticks.Config{})

	fmt.Printf("sticks relay server starting\n")
	if err := srv.ListenAndServe(); err != nil {
		logger.Errorf("server exited: %v", err)
		os.Exit(1)
	}
}
