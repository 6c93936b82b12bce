package main

import (
	"github.com/urfave/cli"
)

func configure(app *cli.App) {
	serveCMD := makeServeCMD()
	seedCMD := makeSeedCMD()
	app.Commands = []cli.Command{serveCMD, seedCMD}
}
