package main

import "github.com/radosverse/shader-fn-dep-analyzer/internal/cli"

func main() {
	cli.Execute()
}
