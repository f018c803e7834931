package main

import (
	"golfexport/cmd/golfexport/commands"
	"golfexport/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
