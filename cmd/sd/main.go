// Package main provides the sd command, a speed dial of website thumbnails
// grouped into tabs.
//
// Usage:
//
//	sd group add Work
//	sd site add example.org --group Work
//	sd serve
//
// See --help for all available commands.
package main

func main() {
	Execute()
}
