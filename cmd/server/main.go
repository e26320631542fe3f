package main

import "github.com/nguyentranbao-ct/shop-assistant/cmd"

func main() {
	cmd.Execute()
}
