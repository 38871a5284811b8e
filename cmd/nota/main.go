package main

import (
	"context"
	"log"
	"os"

	"github.com/nota-app/nota"
)

func main() {
	if err := nota.Main(context.Background(), os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
