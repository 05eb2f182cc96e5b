//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Compiles every package in the module.
func (Build) All() error {
	if _, err := executeCmd("go", withArgs("build", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the pakc archive tool into bin/.
func (Build) Pakc() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/pakc", "./cmd/pakc"), withStream()); err != nil {
		return err
	}
	return nil
}
