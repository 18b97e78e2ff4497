// Package main provides the lattice CLI for building beamline models from
// description files.
package main

func main() {
	Execute()
}
