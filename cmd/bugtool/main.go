package main

import (
	"github.com/xenserver/bugtool/pkg/cli"
)

func main() {
	cli.Execute()
}
