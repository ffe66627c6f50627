package main

import (
	"github.com/NVIDIA/mienum/pkg/cli"
)

func main() {
	cli.Execute()
}
