/*
Copyright © 2026 Paulo Suderio
*/
package main

import "github.com/suderio/fable/cmd"

func main() {
	cmd.Execute()
}
