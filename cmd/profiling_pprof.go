//go:build pprof

package main

import (
	"os"
	"path/filepath"
	"runtime/pprof"

	"github.com/hamidzr/recipemenu/constants"
	"github.com/sirupsen/logrus"
)

// startProfiling writes a CPU profile to $RECIPEMENU_CPU_PROFILE, or to
// recipemenu-cpu.pprof in the temp dir.
func startProfiling() func() {
	path := os.Getenv(constants.EnvPrefix + "_CPU_PROFILE")
	if path == "" {
		path = filepath.Join(os.TempDir(), constants.ProjectName+"-cpu.pprof")
	}
	log := logrus.WithField("profile", path)

	f, err := os.Create(path)
	if err != nil {
		log.WithError(err).Warn("could not create CPU profile")
		return func() {}
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		log.WithError(err).Warn("could not start CPU profile")
		_ = f.Close()
		return func() {}
	}

	return func() {
		pprof.StopCPUProfile()
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("could not close CPU profile")
			return
		}
		log.Info("CPU profile written")
	}
}
