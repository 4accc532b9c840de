package main

import (
	_ "go.uber.org/automaxprocs"

	"github.com/autopeer-io/platecheck/cmd/platecheck-server/app"
)

func main() {
	app.NewApp().Run()
}
