package main

import (
	"github.com/mvp-joe/apidiff/internal/cli"
)

func main() {
	cli.Execute()
}
