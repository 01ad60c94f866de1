package main

import (
	"os"
	"testing"
)

// TestMain keeps bcrypt cheap for every test in the package
func TestMain(m *testing.M) {
	_ = os.Setenv("BCRYPT_COST", "10")
	os.Exit(m.Run())
}
