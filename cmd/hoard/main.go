/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/hoard/cmd/hoard/cmd"

func main() {
	cmd.Execute()
}
