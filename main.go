package main

import "github.com/theirongolddev/hburn/cmd"

func main() {
	cmd.Execute()
}
