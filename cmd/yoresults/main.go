package main

import (
	"yoresults/cmd/yoresults/commands"
	"yoresults/lib/serviceutil"
)

func main() {
	commands.ExecuteContext(serviceutil.SignalContext())
}
