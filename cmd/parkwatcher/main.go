package main

import (
	"park-price-tiers/internal/cli"
)

func main() {
	cli.Execute()
}
