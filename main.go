package main

import "contract-tracking-system/cmd/server"

func main() {
	server.Init()
	server.Run()
}
