package main

import "github.com/getmentor/supercoach-admin/internal/cli"

func main() {
	cli.Execute()
}
