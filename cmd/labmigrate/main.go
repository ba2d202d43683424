// Author: Kaviru Hapuarachchi
// GitHub: https://github.com/Kavirubc
// Created: 2026-02-02
// Last Modified: 2026-10-17

// Package main is the entry point for the labmigrate CLI.
package main

import "github.com/similigh/labmigrate/cmd/labmigrate/commands"

func main() {
	commands.Execute()
}
