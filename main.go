package main

import (
	"github.com/reviewpulse/trackserver/cmd"
	_ "github.com/reviewpulse/trackserver/cmd/cli"
	_ "github.com/reviewpulse/trackserver/cmd/server"
)

func main() {
	cmd.Execute()
}
