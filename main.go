package main

import "github.com/ValentinKolb/fcache/cmd"

func main() {
	cmd.Execute()
}
