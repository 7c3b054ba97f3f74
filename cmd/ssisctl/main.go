// Command ssisctl runs administrative tasks against the SSIS database
package main

import (
	"os"

	"github.com/yigit/ssis/internal/pkg/logger"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		logger.Error().Err(err).Msg("ssisctl failed")
		os.Exit(1)
	}
}
