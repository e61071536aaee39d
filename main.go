package main

import "samaj-backend/cmd"

func main() {
	cmd.Run()
}
