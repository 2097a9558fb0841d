package main

import "health-monitor/internal/cli"

func main() {
	cli.Execute()
}
