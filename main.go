package main

import (
	"github.com/dramaxav/curia-management/cmd"
)

func main() {
	cmd.Execute()
}
