package model

import (
	"fmt"
	"os"
)

// OwnerID identifies the process that owns tracking records written from it.
func OwnerID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("%s:%d", host, os.Getpid())
}
