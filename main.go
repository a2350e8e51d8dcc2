package main

import "github.com/shouni/go-arch-news/cmd"

func main() {
	cmd.Execute()
}
