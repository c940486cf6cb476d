//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Records the example command sequence against a tracing encoder.
func (Run) Example() error {
	fmt.Println("Run recording example...")
	if _, err := executeCmd("go", withArgs("run", "./examples/record"), withStream()); err != nil {
		return err
	}
	return nil
}
