package main

import (
	"github.com/autopeer-io/platecheck/cmd/platecheckctl/app"
)

func main() {
	app.NewApp().Run()
}
