// The main package for the pigiame-crawler executable.
package main

import "pigiame-crawler/cmd"

func main() {
	cmd.Execute()
}
