package main

import (
	tenintcmd "github.com/tenable/tenint/cmd"
)

var (
	version = "dev"
	commit  = "none"
)

func main() {
	tenintcmd.SetVersionInfo(version, commit)
	tenintcmd.Execute()
}
