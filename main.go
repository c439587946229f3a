package main

import "github.com/mouse-blink/knit/cmd"

func main() {
	cmd.Execute()
}
