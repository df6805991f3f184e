package main

import "github.com/akr0407/nuxt-base-project/cmd"

func main() {
	cmd.Execute()
}
