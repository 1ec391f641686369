package main

import (
	"github.com/vietddude/fhirgate/internal/cli"
)

func main() {
	cli.Execute()
}
