package main

import (
	"github.com/Carmen-Shannon/oxy-exhibits/engine/log"
	"github.com/urfave/cli"
)

var logger = log.New("oxy-exhibits")

func setupLogging(ctx *cli.Context) {
	verbosity := 0
	if ctx.GlobalBool("v") {
		verbosity = 1
	}
	if ctx.GlobalBool("vv") {
		verbosity = 2
	}
	log.SetLevel(log.LevelFromVerbosity(verbosity))
}
