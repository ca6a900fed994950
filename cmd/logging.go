package cmd

import (
	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/urfave/cli"
)

var logger = log.New("eyden-tracer")

func setupLogging(ctx *cli.Context) error {
	if err := log.Configure(ctx.GlobalString("log-level")); err != nil {
		return err
	}

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	return nil
}
