package main

import "github.com/sumanbiswas123/image-converter/cmd"

func main() {
	cmd.Execute()
}
