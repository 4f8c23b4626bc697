// Command listentui plays LISTEN.moe in the terminal.
package main

import (
	"github.com/listentui/listentui/cmd"
	"github.com/listentui/listentui/config"
	"github.com/listentui/listentui/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
