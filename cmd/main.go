package main

import (
	"os"

	"github.com/hamidzr/recipemenu/internal/cli"
	"github.com/hamidzr/recipemenu/internal/logger"
	"github.com/hamidzr/recipemenu/model"
	"github.com/sirupsen/logrus"
)

func main() {
	stop := startProfiling()
	code := execute()
	stop()
	os.Exit(int(code))
}

func execute() model.ExitCode {
	cmd := cli.InitCLI()
	if err := logger.SetupLogger("info"); err != nil {
		logrus.WithError(err).Warn("failed to set up logger")
	}
	err := cmd.Execute()
	code, cause := model.ExitCodeFromError(err)
	if cause != nil {
		logrus.Error(cause)
	}
	return code
}
