//go:build tinygo

package main

import (
	"time"

	"ember/app"
	"ember/hal"
)

func main() {
	s := app.New(func(p hal.Poster) hal.Uart {
		return hal.NewDeviceUart(p)
	})
	if err := s.SpawnGreeter("greeter", 300); err != nil {
		panic(err)
	}
	if err := s.SpawnStatus("status", 120); err != nil {
		panic(err)
	}
	if err := s.SpawnEcho("echo", 240); err != nil {
		panic(err)
	}

	for {
		s.Step()
		time.Sleep(16 * time.Millisecond)
	}
}
