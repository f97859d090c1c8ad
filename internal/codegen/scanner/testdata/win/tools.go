//go:build ignore

package main

//unmanaged:chars 1
type Tool struct{}
