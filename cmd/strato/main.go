package main

import (
	"github.com/strato-sh/strato/pkg/cli/cmd"
)

func main() {
	cmd.Execute()
}
