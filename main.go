package main

import "github.com/tldr-it-stepankutaj/hardenkit/cmd/hardenkit"

func main() {
	hardenkit.Execute()
}
