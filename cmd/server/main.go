package main

import (
	"github.com/portalbase/portal-api/cmd"
)

func main() {
	cmd.Execute()
}
