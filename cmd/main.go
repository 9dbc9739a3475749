package main

import "github.com/xmile-tools/go-xmile/pkg/cmd"

func main() {
	cmd.Execute()
}
