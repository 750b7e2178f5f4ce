package main

import (
	"scrappey-go/cmd/scrappey-cli/commands"
	"scrappey-go/lib/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext()
	defer cancel()
	if err := commands.ExecuteContext(ctx); err != nil {
		serviceutil.Fatal("scrappey-cli failed", err)
	}
}
